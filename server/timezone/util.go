// Package timezone maps instants in real zones onto the implicit zone the resolver
// works in.
//
// The resolver treats every instant as a wall-clock reading labelled UTC. A base given
// with an offset or in a named zone keeps its wall clock and drops the zone.
package timezone

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
)

// UTC is the coordinated universal time timezone.
var UTC = time.UTC

// Layouts accepted for a base instant, tried in order.
var baseLayouts = []string{
	calendar.Layout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Shanghai").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, errors.Wrapf(err, "invalid timezone %q", tz)
	}
	return loc, nil
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	_, err := ParseTimezone(tz)
	return err == nil
}

// Wall returns the wall clock of t read in loc, labelled UTC.
func Wall(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// NowWall returns the current wall clock in loc, labelled UTC.
func NowWall(loc *time.Location) time.Time {
	return Wall(time.Now(), loc)
}

// ParseBase parses a base instant. Layouts without an offset are read in loc; a base
// carrying an offset keeps its own wall clock. An empty string means now.
func ParseBase(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NowWall(loc), nil
	}
	if loc == nil {
		loc = UTC
	}
	for _, layout := range baseLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
	}
	return time.Time{}, errors.Errorf("unrecognised base instant %q", s)
}

// Format renders an instant in the resolver's output layout.
func Format(t time.Time) string {
	return t.UTC().Format(calendar.Layout)
}
