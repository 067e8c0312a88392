// Package rrule provides recurrence rules in the shape of iCalendar RFC 5545 RRULEs
// and expands them into occurrences inside a window.
package rrule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Frequency represents the recurrence frequency.
type Frequency string

const (
	Secondly Frequency = "SECONDLY"
	Minutely Frequency = "MINUTELY"
	Hourly   Frequency = "HOURLY"
	Daily    Frequency = "DAILY"
	Weekly   Frequency = "WEEKLY"
	Monthly  Frequency = "MONTHLY"
	Yearly   Frequency = "YEARLY"
)

// Weekday represents the day of week for recurrence.
type Weekday string

const (
	Monday    Weekday = "MO"
	Tuesday   Weekday = "TU"
	Wednesday Weekday = "WE"
	Thursday  Weekday = "TH"
	Friday    Weekday = "FR"
	Saturday  Weekday = "SA"
	Sunday    Weekday = "SU"
)

var isoWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayFromISO maps 1 (Monday) .. 7 (Sunday) to a Weekday.
func WeekdayFromISO(n int) (Weekday, bool) {
	if n < 1 || n > 7 {
		return "", false
	}
	return isoWeekdays[n-1], true
}

// ISO returns 1 for Monday through 7 for Sunday, 0 for an unknown value.
func (w Weekday) ISO() int {
	for i, d := range isoWeekdays {
		if d == w {
			return i + 1
		}
	}
	return 0
}

// Rule represents a recurrence rule.
type Rule struct {
	Frequency  Frequency // FREQ
	Interval   int       // INTERVAL (default 1)
	Count      int       // COUNT (number of occurrences)
	Until      time.Time // UNTIL (end date, inclusive)
	BySecond   []int     // BYSECOND
	ByMinute   []int     // BYMINUTE
	ByHour     []int     // BYHOUR
	ByDay      []Weekday // BYDAY
	ByMonthDay []int     // BYMONTHDAY, negative counts from the month end
	ByMonth    []int     // BYMONTH
}

// maxPeriods bounds the expansion of rules whose BY* parts never match.
const maxPeriods = 100000

// Generator generates occurrences from a recurrence rule.
type Generator struct {
	rule  *Rule
	start time.Time // DTSTART: anchors the first period and supplies unset BY* values
}

// NewGenerator creates a new occurrence generator.
func NewGenerator(rule *Rule, start time.Time) *Generator {
	return &Generator{
		rule:  rule,
		start: start.UTC().Truncate(time.Second),
	}
}

// All generates occurrences from the start up to maxOccurrences. COUNT and UNTIL, when
// set, stop the expansion earlier.
func (g *Generator) All(maxOccurrences int) []time.Time {
	limit := maxOccurrences
	if g.rule.Count > 0 && (limit <= 0 || g.rule.Count < limit) {
		limit = g.rule.Count
	}
	var out []time.Time
	g.expand(func(t time.Time) bool {
		if t.Before(g.start) {
			return true
		}
		if limit > 0 && len(out) >= limit {
			return false
		}
		out = append(out, t)
		return true
	})
	return out
}

// Between generates occurrences strictly after after and strictly before before.
func (g *Generator) Between(after, before time.Time) []time.Time {
	var out []time.Time
	seen := 0
	g.expand(func(t time.Time) bool {
		if t.Before(g.start) {
			return true
		}
		seen++
		if g.rule.Count > 0 && seen > g.rule.Count {
			return false
		}
		if !t.Before(before) {
			return false
		}
		if t.After(after) {
			out = append(out, t)
		}
		return true
	})
	return out
}

// expand feeds occurrences in chronological order to yield until it returns false, the
// UNTIL bound is passed, or maxPeriods periods were visited.
func (g *Generator) expand(yield func(time.Time) bool) {
	interval := g.rule.Interval
	if interval < 1 {
		interval = 1
	}
	for k := 0; k < maxPeriods; k++ {
		for _, t := range g.period(k * interval) {
			if !g.rule.Until.IsZero() && t.After(g.rule.Until) {
				return
			}
			if !yield(t) {
				return
			}
		}
	}
}

// period returns the sorted candidates of the period n frequency units after the start.
func (g *Generator) period(n int) []time.Time {
	s := g.start
	y, m, d := s.Date()
	var days []time.Time

	switch g.rule.Frequency {
	case Secondly:
		return []time.Time{s.Add(time.Duration(n) * time.Second)}
	case Minutely:
		return []time.Time{s.Add(time.Duration(n) * time.Minute)}
	case Hourly:
		return []time.Time{s.Add(time.Duration(n) * time.Hour)}
	case Weekly:
		monday := time.Date(y, m, d-isoWeekday(s)+1+7*n, 0, 0, 0, 0, time.UTC)
		wds := g.rule.ByDay
		if len(wds) == 0 {
			wds = []Weekday{isoWeekdays[isoWeekday(s)-1]}
		}
		for _, wd := range wds {
			if iso := wd.ISO(); iso > 0 {
				days = append(days, monday.AddDate(0, 0, iso-1))
			}
		}
	case Monthly:
		first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
		days = monthDays(first.Year(), first.Month(), g.monthDays(d))
	case Yearly:
		months := g.rule.ByMonth
		if len(months) == 0 {
			months = []int{int(m)}
		}
		for _, mo := range months {
			if mo < 1 || mo > 12 {
				continue
			}
			days = append(days, monthDays(y+n, time.Month(mo), g.monthDays(d))...)
		}
	default: // Daily
		days = []time.Time{time.Date(y, m, d+n, 0, 0, 0, 0, time.UTC)}
	}

	out := make([]time.Time, 0, len(days))
	for _, day := range days {
		for _, c := range g.clocks() {
			out = append(out, day.Add(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (g *Generator) monthDays(def int) []int {
	if len(g.rule.ByMonthDay) > 0 {
		return g.rule.ByMonthDay
	}
	return []int{def}
}

// clocks returns the time-of-day offsets of the BYHOUR x BYMINUTE x BYSECOND product.
func (g *Generator) clocks() []time.Duration {
	h, mi, s := g.start.Clock()
	hours, minutes, seconds := orDefault(g.rule.ByHour, h), orDefault(g.rule.ByMinute, mi), orDefault(g.rule.BySecond, s)
	out := make([]time.Duration, 0, len(hours)*len(minutes)*len(seconds))
	for _, hh := range hours {
		for _, mm := range minutes {
			for _, ss := range seconds {
				out = append(out, time.Duration(hh)*time.Hour+time.Duration(mm)*time.Minute+time.Duration(ss)*time.Second)
			}
		}
	}
	return out
}

// monthDays resolves day numbers (negative from the end) in a month, skipping days the
// month does not have.
func monthDays(y int, m time.Month, days []int) []time.Time {
	last := daysInMonth(y, int(m))
	var out []time.Time
	for _, d := range days {
		if d < 0 {
			d = last + d + 1
		}
		if d < 1 || d > last {
			continue
		}
		out = append(out, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
	return out
}

func orDefault(vals []int, def int) []int {
	if len(vals) == 0 {
		return []int{def}
	}
	return vals
}

func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
	return 30
}

func isLeapYear(year int) bool {
	if year%4 != 0 {
		return false
	}
	if year%100 != 0 {
		return true
	}
	return year%400 == 0
}

// String returns the RRULE string representation.
func (r *Rule) String() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("FREQ=%s", r.Frequency))

	if r.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", r.Interval))
	}

	if r.Count > 0 {
		parts = append(parts, fmt.Sprintf("COUNT=%d", r.Count))
	}

	if !r.Until.IsZero() {
		parts = append(parts, fmt.Sprintf("UNTIL=%s", r.Until.Format("20060102T150405Z")))
	}

	if len(r.ByDay) > 0 {
		dayStrs := make([]string, len(r.ByDay))
		for i, day := range r.ByDay {
			dayStrs[i] = string(day)
		}
		parts = append(parts, fmt.Sprintf("BYDAY=%s", strings.Join(dayStrs, ",")))
	}

	if len(r.ByMonthDay) > 0 {
		parts = append(parts, fmt.Sprintf("BYMONTHDAY=%s", intListToString(r.ByMonthDay)))
	}

	if len(r.ByMonth) > 0 {
		parts = append(parts, fmt.Sprintf("BYMONTH=%s", intListToString(r.ByMonth)))
	}

	if len(r.ByHour) > 0 {
		parts = append(parts, fmt.Sprintf("BYHOUR=%s", intListToString(r.ByHour)))
	}

	return strings.Join(parts, ";")
}

func intListToString(nums []int) string {
	strs := make([]string, len(nums))
	for i, num := range nums {
		strs[i] = fmt.Sprintf("%d", num)
	}
	return strings.Join(strs, ",")
}
