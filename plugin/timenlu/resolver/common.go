package resolver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

var (
	errUnsupported = errors.New("unsupported field combination")
	errInvalid     = errors.New("invalid field value")
)

// clock applies the token's time of day to day. An explicit hour gives an instant (the
// period word resolves the PM ambiguity); a period word alone gives its span. ok is
// false when the token carries neither.
func clock(tok token.Token, day time.Time) (calendar.Result, bool, error) {
	if tok.HasAny(token.Hour, token.Minute, token.Second) {
		t, err := clockInstant(tok, token.Hour, token.Minute, token.Second, day)
		if err != nil {
			return nil, true, err
		}
		return calendar.Point(t), true, nil
	}
	if noon := tok.Get(token.Noon); noon != "" {
		p, ok := calendar.LookupPeriod(noon)
		if !ok {
			return nil, true, errors.Wrapf(errInvalid, "period word %q", noon)
		}
		return p.Result(day), true, nil
	}
	return nil, false, nil
}

// clockInstant sets hour/minute/second read from the given fields on day. Missing
// minute and second default to zero once an hour is given.
func clockInstant(tok token.Token, hf, mf, sf token.Field, day time.Time) (time.Time, error) {
	var f calendar.Fields
	shift := 0
	if h, ok := tok.Int(hf); ok {
		if noon := tok.Get(token.Noon); noon != "" {
			h, shift = calendar.ApplyPeriodHour(noon, h)
		}
		f.Set(calendar.UnitHour, h)
		f.Set(calendar.UnitMinute, tok.IntOr(mf, 0))
		f.Set(calendar.UnitSecond, tok.IntOr(sf, 0))
	} else {
		if m, ok := tok.Int(mf); ok {
			f.Set(calendar.UnitMinute, m)
		}
		if s, ok := tok.Int(sf); ok {
			f.Set(calendar.UnitSecond, s)
		}
	}
	return calendar.SetFields(day.AddDate(0, 0, shift), f)
}

// dayOrClock resolves a single day: the time of day when the token has one, else the
// whole day.
func dayOrClock(tok token.Token, day time.Time) (calendar.Result, error) {
	r, ok, err := clock(tok, calendar.StartOfDay(day))
	if err != nil {
		return nil, err
	}
	if ok {
		return r, nil
	}
	return calendar.Span(calendar.DayRange(day)), nil
}

// yearOf returns the normalized explicit year of tok, or base's year shifted by
// offset_year.
func yearOf(tok token.Token, base time.Time) (int, error) {
	if y, ok := tok.Int(token.Year); ok {
		return calendar.NormalizeYear(y)
	}
	return base.Year() + tok.IntOr(token.OffsetYear, 0), nil
}

// offsetUnits maps offset fields to their units.
var offsetUnits = []struct {
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

// offsetOf collects the offset fields of tok. finest is the finest present unit, zero
// magnitudes included ("today" is offset_day 0).
func offsetOf(tok token.Token) (off calendar.Offset, finest calendar.Unit, ok bool) {
	off = calendar.Offset{}
	for _, ou := range offsetUnits {
		v, present := tok.Int(ou.field)
		if !present {
			continue
		}
		off[ou.unit] = v
		if !ok || ou.unit > finest {
			finest = ou.unit
		}
		ok = true
	}
	return off, finest, ok
}

// clockFields collects explicit year..second fields. The year is normalized when
// normalize is set.
func clockFields(tok token.Token, normalize bool) (calendar.Fields, error) {
	var f calendar.Fields
	units := []struct {
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
	for _, u := range units {
		v, ok := tok.Int(u.field)
		if !ok {
			continue
		}
		if u.unit == calendar.UnitYear && normalize {
			y, err := calendar.NormalizeYear(v)
			if err != nil {
				return f, err
			}
			v = y
		}
		f.Set(u.unit, v)
	}
	return f, nil
}

// spanOf returns the bounds of the unit containing t as a result.
func spanOf(u calendar.Unit, t time.Time) calendar.Result {
	if u.SubDay() {
		return calendar.Point(t)
	}
	return calendar.Span(calendar.RangeOf(u, t))
}

// weekOf returns the Monday of the week offset weeks from base's week.
func weekOf(base time.Time, offset int) time.Time {
	monday, _ := calendar.WeekRange(base)
	return monday.AddDate(0, 0, 7*offset)
}

// nthWeek returns the Monday of the nth Monday-start week of month m (the week holding
// day 1 is the first). A negative n counts back from the week holding the last day.
func nthWeek(y int, m time.Month, n int) (time.Time, error) {
	switch {
	case n > 0:
		return weekOf(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), n-1), nil
	case n < 0:
		return weekOf(time.Date(y, m, calendar.DaysIn(y, m), 0, 0, 0, 0, time.UTC), n+1), nil
	}
	return time.Time{}, errors.Wrap(errInvalid, "week 0")
}

// nthWeekOfYear returns the Monday of the nth week of year y, counting the week holding
// January 1 as the first.
func nthWeekOfYear(y, n int) (time.Time, error) {
	switch {
	case n > 0:
		return weekOf(time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), n-1), nil
	case n < 0:
		return weekOf(time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC), n+1), nil
	}
	return time.Time{}, errors.Wrap(errInvalid, "week 0")
}

// signedMonth turns a negative month into its position from the end of the year.
func signedMonth(m int) int {
	if m < 0 {
		return 13 + m
	}
	return m
}

// signedDay turns a negative day into its position from the end of the month.
func signedDay(y int, m time.Month, d int) int {
	if d < 0 {
		return calendar.DaysIn(y, m) + d + 1
	}
	return d
}
