package resolver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

var (
	fromFields = []token.Field{token.FromYear, token.FromMonth, token.FromDay, token.FromHour, token.FromMinute}
	toFields   = []token.Field{token.ToYear, token.ToMonth, token.ToDay, token.ToHour, token.ToMinute}
)

// BetweenResolver resolves explicit two-sided ranges: year-year, month-month, day-day,
// hour-hour and month.day-month.day. Plain year/month/day/noon fields give the date
// context both sides share; from_noon and to_noon qualify one side's hour only. The
// right side inherits what it does not set from the left side, and the end is closed
// on its own boundary.
type BetweenResolver struct {
	absolute *AbsoluteResolver
}

func (r *BetweenResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return r.resolve(tok, reference(base))
	})
}

// endpoint is one side of a between range.
type endpoint struct {
	year, month, day, hour, minute int
}

func (r *BetweenResolver) resolve(tok token.Token, base time.Time) ([]calendar.Result, error) {
	hasFrom, hasTo := tok.HasAny(fromFields...), tok.HasAny(toFields...)
	if !hasFrom && !hasTo {
		return r.absolute.resolve(tok.Retype(token.KindUTC), base)
	}
	if !hasFrom || !hasTo {
		return r.absolute.resolve(oneSided(tok), base)
	}

	gran := granularity(tok)
	left, err := r.left(tok, base)
	if err != nil {
		return nil, err
	}
	right := endpoint{
		year:   left.year,
		month:  tok.IntOr(token.ToMonth, left.month),
		day:    tok.IntOr(token.ToDay, left.day),
		hour:   tok.IntOr(token.ToHour, left.hour),
		minute: tok.IntOr(token.ToMinute, 0),
	}
	if v, ok := tok.Int(token.ToYear); ok {
		if right.year, err = calendar.NormalizeYear(v); err != nil {
			return nil, err
		}
	}
	if tok.Has(token.ToHour) {
		right.applyNoon(sideNoon(tok, token.ToNoon))
	}

	switch gran {
	case calendar.UnitYear:
		if right.year < left.year {
			return nil, errors.Wrapf(errInvalid, "year range %d-%d", left.year, right.year)
		}
		start, _ := calendar.YearRangeOf(left.year)
		_, end := calendar.YearRangeOf(right.year)
		return one(calendar.Span(start, end)), nil

	case calendar.UnitMonth:
		if !validMonth(left.month) || !validMonth(right.month) {
			return nil, errors.Wrapf(errInvalid, "month range %d-%d", left.month, right.month)
		}
		if right.year == left.year && right.month < left.month && !tok.Has(token.ToYear) {
			right.year++
		}
		start, _ := calendar.MonthRangeOf(left.year, time.Month(left.month))
		_, end := calendar.MonthRangeOf(right.year, time.Month(right.month))
		return ordered(start, end)

	case calendar.UnitDay:
		if !calendar.ValidDate(left.year, left.month, left.day) {
			return nil, errors.Wrapf(errInvalid, "day %d-%d-%d", left.year, left.month, left.day)
		}
		if right.before(left) {
			switch {
			case !tok.HasAny(token.ToMonth, token.ToYear):
				next := calendar.AddMonths(time.Date(right.year, time.Month(right.month), 1, 0, 0, 0, 0, time.UTC), 1)
				right.year, right.month = next.Year(), int(next.Month())
			case !tok.Has(token.ToYear):
				right.year++
			}
		}
		if !calendar.ValidDate(right.year, right.month, right.day) {
			return nil, errors.Wrapf(errInvalid, "day %d-%d-%d", right.year, right.month, right.day)
		}
		start := time.Date(left.year, time.Month(left.month), left.day, 0, 0, 0, 0, time.UTC)
		end := calendar.EndOfDay(time.Date(right.year, time.Month(right.month), right.day, 0, 0, 0, 0, time.UTC))
		return ordered(start, end)
	}

	// Hour ranges; hour 24 rolls over to 00:00 of the next day.
	if !calendar.ValidDate(left.year, left.month, left.day) || !calendar.ValidDate(right.year, right.month, right.day) {
		return nil, errors.Wrapf(errInvalid, "day %d-%d-%d", left.year, left.month, left.day)
	}
	if !validClock(left.hour, left.minute) || !validClock(right.hour, right.minute) {
		return nil, errors.Wrapf(errInvalid, "hour range %d-%d", left.hour, right.hour)
	}
	start := time.Date(left.year, time.Month(left.month), left.day, left.hour, left.minute, 0, 0, time.UTC)
	end := time.Date(right.year, time.Month(right.month), right.day, right.hour, right.minute, 0, 0, time.UTC)
	if end.Before(start) && !tok.HasAny(token.ToDay, token.ToMonth, token.ToYear) {
		end = end.AddDate(0, 0, 1)
	}
	return ordered(start, end)
}

// left builds the left endpoint from from_* fields, then the shared date context, then
// the base.
func (r *BetweenResolver) left(tok token.Token, base time.Time) (endpoint, error) {
	e := endpoint{
		year:   base.Year(),
		month:  int(base.Month()),
		day:    base.Day(),
		hour:   tok.IntOr(token.FromHour, 0),
		minute: tok.IntOr(token.FromMinute, 0),
	}
	for _, f := range []token.Field{token.Year, token.FromYear} {
		if v, ok := tok.Int(f); ok {
			y, err := calendar.NormalizeYear(v)
			if err != nil {
				return e, err
			}
			e.year = y
		}
	}
	e.month = tok.IntOr(token.FromMonth, tok.IntOr(token.Month, e.month))
	e.day = tok.IntOr(token.FromDay, tok.IntOr(token.Day, e.day))
	if tok.Has(token.FromHour) {
		e.applyNoon(sideNoon(tok, token.FromNoon))
	}
	return e, nil
}

// sideNoon is the period word of one side, falling back to the shared one.
func sideNoon(tok token.Token, side token.Field) string {
	if noon := tok.Get(side); noon != "" {
		return noon
	}
	return tok.Get(token.Noon)
}

// applyNoon moves the endpoint hour onto the 24-hour clock; 晚上12点 lands on the
// next day.
func (e *endpoint) applyNoon(noon string) {
	if noon == "" {
		return
	}
	var shift int
	e.hour, shift = calendar.ApplyPeriodHour(noon, e.hour)
	if shift != 0 {
		d := time.Date(e.year, time.Month(e.month), e.day+shift, 0, 0, 0, 0, time.UTC)
		e.year, e.month, e.day = d.Year(), int(d.Month()), d.Day()
	}
}

func (e endpoint) before(o endpoint) bool {
	if e.year != o.year {
		return e.year < o.year
	}
	if e.month != o.month {
		return e.month < o.month
	}
	return e.day < o.day
}

// granularity is the finest unit named by a from_/to_ field.
func granularity(tok token.Token) calendar.Unit {
	switch {
	case tok.HasAny(token.FromHour, token.ToHour, token.FromMinute, token.ToMinute):
		return calendar.UnitHour
	case tok.HasAny(token.FromDay, token.ToDay):
		return calendar.UnitDay
	case tok.HasAny(token.FromMonth, token.ToMonth):
		return calendar.UnitMonth
	}
	return calendar.UnitYear
}

// oneSided turns a between token with a single side into the equivalent utc token.
func oneSided(tok token.Token) token.Token {
	out := tok.Without(append(append(fromFields, toFields...), token.FromNoon, token.ToNoon)...)
	pairs := []struct{ from, to, plain token.Field }{
		{token.FromYear, token.ToYear, token.Year},
		{token.FromMonth, token.ToMonth, token.Month},
		{token.FromDay, token.ToDay, token.Day},
		{token.FromHour, token.ToHour, token.Hour},
		{token.FromMinute, token.ToMinute, token.Minute},
		{token.FromNoon, token.ToNoon, token.Noon},
	}
	for _, p := range pairs {
		if v := tok.Get(p.from); v != "" {
			out = out.With(p.plain, v)
		} else if v := tok.Get(p.to); v != "" {
			out = out.With(p.plain, v)
		}
	}
	return out.Retype(token.KindUTC)
}

func ordered(start, end time.Time) ([]calendar.Result, error) {
	if end.Before(start) {
		return nil, errors.Wrapf(errInvalid, "range end %s before start %s", end.Format(calendar.Layout), start.Format(calendar.Layout))
	}
	return one(calendar.Span(start, end)), nil
}

func validMonth(m int) bool {
	return m >= 1 && m <= 12
}

func validClock(h, m int) bool {
	return h >= 0 && h <= 24 && m >= 0 && m <= 59 && (h < 24 || m == 0)
}
