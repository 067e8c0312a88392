// Package calendar is the calendrical toolkit shared by every resolver: boundary
// calculators, year normalization, offset arithmetic, the field setter, the period-of-day
// table and the season formula. Everything here is pure.
package calendar

import (
	"time"
)

// Layout is the rendering of every instant the resolver emits.
const Layout = "2006-01-02T15:04:05Z"

// Supported year range for produced results.
const (
	MinYear = 1900
	MaxYear = 2100
)

// FarFuture closes open-ended intervals.
var FarFuture = time.Date(2099, 12, 31, 23, 59, 59, 0, time.UTC)

// Result is a time result: empty, a single instant, or a closed interval [start, end].
type Result []time.Time

// Point returns a single-instant result.
func Point(t time.Time) Result {
	return Result{t.Truncate(time.Second)}
}

// Span returns an interval result.
func Span(start, end time.Time) Result {
	return Result{start.Truncate(time.Second), end.Truncate(time.Second)}
}

// IsEmpty reports whether the result holds no instant.
func (r Result) IsEmpty() bool {
	return len(r) == 0
}

// IsPoint reports whether the result is a single instant.
func (r Result) IsPoint() bool {
	return len(r) == 1
}

// Start returns the first instant, or the zero time.
func (r Result) Start() time.Time {
	if len(r) == 0 {
		return time.Time{}
	}
	return r[0]
}

// End returns the last instant, or the zero time. For a point it equals Start.
func (r Result) End() time.Time {
	if len(r) == 0 {
		return time.Time{}
	}
	return r[len(r)-1]
}

// InRange reports whether every instant's year lies in [MinYear, MaxYear].
func (r Result) InRange() bool {
	for _, t := range r {
		if y := t.Year(); y < MinYear || y > MaxYear {
			return false
		}
	}
	return true
}

// Strings renders the result with Layout.
func (r Result) Strings() []string {
	out := make([]string, len(r))
	for i, t := range r {
		out[i] = t.UTC().Format(Layout)
	}
	return out
}

// Filter drops empty and out-of-range results. A nil slice is returned when nothing
// survives.
func Filter(rs []Result) []Result {
	var out []Result
	for _, r := range rs {
		if r.IsEmpty() || !r.InRange() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Render renders a result list.
func Render(rs []Result) [][]string {
	out := make([][]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Strings())
	}
	return out
}

// Hull returns the interval spanning from the start of a to the end of b.
func Hull(a, b Result) Result {
	if a.IsEmpty() || b.IsEmpty() {
		return nil
	}
	return Span(a.Start(), b.End())
}

// Parse parses an instant rendered with Layout.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}
