package resolver

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// AbsoluteResolver resolves utc tokens: explicit calendar fields, compact numeric dates,
// the nth week of a month or year and the nth day of a year.
type AbsoluteResolver struct{}

func (r *AbsoluteResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return r.resolve(tok, reference(base))
	})
}

func (r *AbsoluteResolver) resolve(tok token.Token, base time.Time) ([]calendar.Result, error) {
	if tok.Has(token.Date) {
		expanded, err := expandDate(tok)
		if err != nil {
			return nil, err
		}
		tok = expanded
	}
	if tok.Has(token.Week) {
		return r.week(tok, base)
	}
	if tok.Has(token.DayOfYear) {
		return dayOfYear(tok, base)
	}
	if tok.Has(token.WeekDay) {
		return nil, errors.Wrap(errUnsupported, "week_day without week")
	}

	f, err := clockFields(tok, true)
	if err != nil {
		return nil, err
	}
	if f.Empty() && !tok.Has(token.Noon) {
		return nil, errors.Wrap(errUnsupported, "no calendar field")
	}

	y := base.Year()
	if v, ok := f.Get(calendar.UnitYear); ok {
		y = v
	}
	month := base.Month()
	if v, ok := f.Get(calendar.UnitMonth); ok {
		v = signedMonth(v)
		if v < 1 || v > 12 {
			return nil, errors.Wrapf(errInvalid, "month %d", v)
		}
		f.Set(calendar.UnitMonth, v)
		month = time.Month(v)
	}
	if v, ok := f.Get(calendar.UnitDay); ok && v < 0 {
		f.Set(calendar.UnitDay, signedDay(y, month, v))
	}

	// Unset finer date fields must not inherit an out-of-range base day.
	anchor := calendar.StartOfDay(base)
	if !f.Has(calendar.UnitDay) && (f.Has(calendar.UnitYear) || f.Has(calendar.UnitMonth)) {
		anchor = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	if f.HasTime() || tok.Has(token.Noon) {
		day, err := calendar.SetFields(anchor, dateOnly(f))
		if err != nil {
			return nil, err
		}
		res, _, err := clock(tok, day)
		if err != nil {
			return nil, err
		}
		return one(res), nil
	}

	t, err := calendar.SetFields(anchor, f)
	if err != nil {
		return nil, err
	}
	finest, _ := f.Finest()
	return one(spanOf(finest, t)), nil
}

// week resolves the nth week of a month (or of the year without a month), optionally
// narrowed to a weekday. week plus week_day with a month addresses the nth such
// weekday of the month.
func (r *AbsoluteResolver) week(tok token.Token, base time.Time) ([]calendar.Result, error) {
	n, _ := tok.Int(token.Week)
	y, err := yearOf(tok, base)
	if err != nil {
		return nil, err
	}
	wd, hasWeekday := tok.Int(token.WeekDay)
	if hasWeekday && (wd < 1 || wd > 7) {
		return nil, errors.Wrapf(errInvalid, "week_day %d", wd)
	}

	var monday time.Time
	if m, ok := tok.Int(token.Month); ok {
		m = signedMonth(m)
		if m < 1 || m > 12 {
			return nil, errors.Wrapf(errInvalid, "month %d", m)
		}
		if hasWeekday {
			day, ok := calendar.NthWeekday(y, time.Month(m), n, wd)
			if !ok {
				return nil, errors.Wrapf(errInvalid, "no weekday %d #%d in %d-%02d", wd, n, y, m)
			}
			return oneOf(dayOrClock(tok, day))
		}
		monday, err = nthWeek(y, time.Month(m), n)
	} else {
		monday, err = nthWeekOfYear(y, n)
	}
	if err != nil {
		return nil, err
	}
	if hasWeekday {
		return oneOf(dayOrClock(tok, monday.AddDate(0, 0, wd-1)))
	}
	return one(calendar.Span(calendar.WeekRange(monday))), nil
}

// SpecialResolver resolves special tokens: the nth day of a year, negative from the end.
type SpecialResolver struct{}

func (r *SpecialResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return dayOfYear(tok, reference(base))
	})
}

func dayOfYear(tok token.Token, base time.Time) ([]calendar.Result, error) {
	y, err := yearOf(tok, base)
	if err != nil {
		return nil, err
	}
	n, ok := tok.Int(token.DayOfYear)
	if !ok {
		return one(calendar.Span(calendar.YearRangeOf(y))), nil
	}
	var day time.Time
	switch {
	case n > 0:
		day = time.Date(y, 1, n, 0, 0, 0, 0, time.UTC)
	case n < 0:
		day = time.Date(y, 12, 32+n, 0, 0, 0, 0, time.UTC)
	}
	if n == 0 || day.Year() != y {
		return nil, errors.Wrapf(errInvalid, "day %d of %d", n, y)
	}
	return oneOf(dayOrClock(tok, day))
}

// expandDate splits a compact yyyymmdd, yymmdd or mmdd date into year/month/day fields,
// rejecting days the month does not have.
func expandDate(tok token.Token) (token.Token, error) {
	s := tok.Get(token.Date)
	var ys, ms, ds string
	switch len(s) {
	case 8:
		ys, ms, ds = s[:4], s[4:6], s[6:]
	case 6:
		ys, ms, ds = s[:2], s[2:4], s[4:]
	case 4:
		ms, ds = s[:2], s[2:]
	default:
		return tok, errors.Wrapf(errInvalid, "compact date %q", s)
	}

	out := tok.Without(token.Date)
	y := 0
	if ys != "" {
		v, err := strconv.Atoi(ys)
		if err != nil {
			return tok, errors.Wrapf(errInvalid, "compact date %q", s)
		}
		if y, err = calendar.NormalizeYear(v); err != nil {
			return tok, err
		}
		out = out.WithInt(token.Year, y)
	}
	m, err1 := strconv.Atoi(ms)
	d, err2 := strconv.Atoi(ds)
	if err1 != nil || err2 != nil {
		return tok, errors.Wrapf(errInvalid, "compact date %q", s)
	}
	check := y
	if check == 0 {
		check = 2000 // leap year: Feb 29 stays valid without a year
	}
	if !calendar.ValidDate(check, m, d) {
		return tok, errors.Wrapf(calendar.ErrInvalidDate, "compact date %q", s)
	}
	return out.WithInt(token.Month, m).WithInt(token.Day, d), nil
}

// dateOnly keeps the year, month and day of f.
func dateOnly(f calendar.Fields) calendar.Fields {
	var out calendar.Fields
	for _, u := range []calendar.Unit{calendar.UnitYear, calendar.UnitMonth, calendar.UnitDay} {
		if v, ok := f.Get(u); ok {
			out.Set(u, v)
		}
	}
	return out
}

func oneOf(r calendar.Result, err error) ([]calendar.Result, error) {
	if err != nil {
		return nil, err
	}
	return one(r), nil
}
