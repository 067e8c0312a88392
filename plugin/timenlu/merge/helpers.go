package merge

import (
	"time"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// Modifier values.
const (
	modWhole  = "whole"
	modBegin  = "begin"
	modMid    = "mid"
	modEnd    = "end"
	modThis   = "this"
	modHalf   = "half"
	modWithin = "within"
)

// Kinds that resolve to a date or span and may anchor another token.
var anchorKinds = []token.Kind{
	token.KindUTC, token.KindSpecial, token.KindRelative, token.KindWeekday,
	token.KindHoliday, token.KindLunar, token.KindPeriod,
}

// clockOrder lists the explicit calendar fields coarse to fine, with their units.
var clockOrder = []struct {
	field token.Field
	unit  calendar.Unit
}{
	{token.Year, calendar.UnitYear},
	{token.Month, calendar.UnitMonth},
	{token.Day, calendar.UnitDay},
	{token.Hour, calendar.UnitHour},
	{token.Minute, calendar.UnitMinute},
	{token.Second, calendar.UnitSecond},
}

var offsetOrder = []struct {
	field token.Field
	unit  calendar.Unit
}{
	{token.OffsetYear, calendar.UnitYear},
	{token.OffsetQuarter, calendar.UnitQuarter},
	{token.OffsetMonth, calendar.UnitMonth},
	{token.OffsetWeek, calendar.UnitWeek},
	{token.OffsetDay, calendar.UnitDay},
	{token.OffsetHour, calendar.UnitHour},
	{token.OffsetMinute, calendar.UnitMinute},
	{token.OffsetSecond, calendar.UnitSecond},
}

func matched(consumed int, rs ...calendar.Result) (Outcome, bool) {
	return Outcome{Results: rs, Consumed: consumed}, true
}

func matchedAll(consumed int, rs []calendar.Result) (Outcome, bool) {
	return Outcome{Results: rs, Consumed: consumed}, true
}

// hull joins the results of one resolution into a single span from the first start to
// the last end.
func hull(rs []calendar.Result) (calendar.Result, bool) {
	var out calendar.Result
	for _, r := range rs {
		if r.IsEmpty() {
			continue
		}
		if out == nil {
			out = r
			continue
		}
		out = calendar.Hull(out, r)
	}
	return out, out != nil
}

// modifierAt returns the modifier value of the token at i.
func (c *Context) modifierAt(i int, values ...string) (string, bool) {
	tok, ok := c.at(i, token.KindModifier)
	if !ok {
		return "", false
	}
	v := tok.Get(token.Modifier)
	for _, want := range values {
		if v == want {
			return v, true
		}
	}
	return "", false
}

// clockOnly reports whether tok is a bare time of day: a utc token carrying only hour,
// minute, second or a period word.
func clockOnly(tok token.Token) bool {
	return tok.Is(token.KindUTC) &&
		tok.HasAny(token.Hour, token.Minute, token.Second, token.Noon) &&
		tok.HasOnly(token.Hour, token.Minute, token.Second, token.Noon)
}

// yearOnly reports whether tok names nothing but a year ("2024年", "明年").
func yearOnly(tok token.Token) bool {
	switch tok.Kind {
	case token.KindUTC:
		return tok.Has(token.Year) && tok.HasOnly(token.Year)
	case token.KindRelative:
		return tok.Has(token.OffsetYear) && tok.HasOnly(token.OffsetYear)
	}
	return false
}

// yearFields copies the year of a year-only token onto tok when tok has none.
func yearFields(tok, year token.Token) token.Token {
	if tok.HasAny(token.Year, token.OffsetYear) {
		return tok
	}
	if v := year.Get(token.Year); v != "" && token.IsLegal(tok.Kind, token.Year) {
		return tok.With(token.Year, v)
	}
	if v := year.Get(token.OffsetYear); v != "" && token.IsLegal(tok.Kind, token.OffsetYear) {
		return tok.With(token.OffsetYear, v)
	}
	return tok
}

// withClock narrows a day-level token by the time of day of clock.
func withClock(day, clock token.Token) (token.Token, bool) {
	fs := []token.Field{token.Hour, token.Minute, token.Second, token.Noon}
	out := day
	if clock.HasAny(token.Hour, token.Minute, token.Second) {
		out = out.Without(token.Hour, token.Minute, token.Second)
	}
	for _, f := range fs {
		v := clock.Get(f)
		if v == "" {
			continue
		}
		if !token.IsLegal(day.Kind, f) {
			return day, false
		}
		out = out.With(f, v)
	}
	return out, true
}

// coarsestClock returns the coarsest explicit calendar field of tok.
func coarsestClock(tok token.Token) (calendar.Unit, bool) {
	for _, c := range clockOrder {
		if tok.Has(c.field) {
			return c.unit, true
		}
	}
	return 0, false
}

// inherit completes the right side of a range from the left side: y keeps its own
// fields and takes every coarser field of x. A relative y stands on its own. ok is
// false when y had nothing to inherit.
func inherit(x, y token.Token) (token.Token, bool) {
	if y.Is(token.KindRelative) {
		return y, false
	}
	coarsest, ok := coarsestClock(y)
	if !ok {
		return y, false
	}
	var drop []token.Field
	for _, c := range clockOrder {
		if c.unit >= coarsest {
			drop = append(drop, c.field)
		}
	}
	for _, o := range offsetOrder {
		if o.unit >= coarsest {
			drop = append(drop, o.field)
		}
	}
	if y.Has(token.Noon) || coarsest < calendar.UnitHour {
		drop = append(drop, token.Noon)
	}
	out := x.Without(drop...)
	for _, f := range y.Fields() {
		if !token.IsLegal(x.Kind, f) {
			return y, false
		}
		out = out.With(f, y.Get(f))
	}
	return out, true
}

// dayOf returns the single day r lies in.
func dayOf(r calendar.Result) (time.Time, bool) {
	if r.IsEmpty() {
		return time.Time{}, false
	}
	start := calendar.StartOfDay(r.Start())
	if !calendar.StartOfDay(r.End()).Equal(start) {
		return time.Time{}, false
	}
	return start, true
}

// withDay sets year/month/day of t on tok.
func withDay(tok token.Token, t time.Time) token.Token {
	return tok.WithInt(token.Year, t.Year()).WithInt(token.Month, int(t.Month())).WithInt(token.Day, t.Day())
}

func sameRange(bounds func(time.Time) (time.Time, time.Time), r calendar.Result) bool {
	s, e := bounds(r.Start())
	return s.Equal(r.Start()) && e.Equal(r.End())
}

// portion narrows a year, quarter, month or week span to its beginning, middle or end.
func portion(r calendar.Result, mod string) (calendar.Result, bool) {
	start := r.Start()
	y, m := start.Year(), start.Month()
	months := func(from, to time.Month) calendar.Result {
		s, _ := calendar.MonthRangeOf(y, from)
		_, e := calendar.MonthRangeOf(y, to)
		return calendar.Span(s, e)
	}
	days := func(from, to time.Time) calendar.Result {
		return calendar.Span(calendar.StartOfDay(from), calendar.EndOfDay(to))
	}

	switch {
	case sameRange(calendar.YearRange, r):
		switch mod {
		case modBegin:
			return months(time.January, time.February), true
		case modMid:
			return months(time.June, time.July), true
		case modEnd:
			return months(time.November, time.December), true
		}
	case sameRange(calendar.QuarterRange, r):
		switch mod {
		case modBegin:
			return months(m, m), true
		case modMid:
			return months(m+1, m+1), true
		case modEnd:
			return months(m+2, m+2), true
		}
	case sameRange(calendar.MonthRange, r):
		last := calendar.DaysIn(y, m)
		at := func(d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
		switch mod {
		case modBegin:
			return days(at(1), at(5)), true
		case modMid:
			return days(at(11), at(20)), true
		case modEnd:
			return days(at(last-4), at(last)), true
		}
	case sameRange(calendar.WeekRange, r):
		switch mod {
		case modBegin:
			return days(start, start.AddDate(0, 0, 1)), true
		case modMid:
			return days(start.AddDate(0, 0, 2), start.AddDate(0, 0, 3)), true
		case modEnd:
			return days(start.AddDate(0, 0, 4), start.AddDate(0, 0, 6)), true
		}
	}
	return nil, false
}
