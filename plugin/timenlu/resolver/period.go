package resolver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// Signed day counts of vague "recently / soon" words.
var fuzzyDays = map[string]int{
	"最近":   -7,
	"近来":   -7,
	"前不久":  -14,
	"近日":   -3,
	"这几天":  -3,
	"前几天":  -3,
	"近期":   7,
	"即将":   7,
	"马上":   1,
	"不久":   14,
	"过几天":  3,
	"未来几天": 3,
}

// PeriodResolver resolves qualitative spans: relative unit spans with fractions, month
// thirds, year halves, quarters, seasons, decades, centuries and fuzzy words.
type PeriodResolver struct{}

func (r *PeriodResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return r.resolve(tok, reference(base))
	})
}

func (r *PeriodResolver) resolve(tok token.Token, base time.Time) ([]calendar.Result, error) {
	switch {
	case tok.Has(token.Fuzzy):
		n, ok := fuzzyDays[tok.Get(token.Fuzzy)]
		if !ok {
			return nil, errors.Wrapf(errInvalid, "fuzzy word %q", tok.Get(token.Fuzzy))
		}
		return one(around(base, calendar.UnitDay, calendar.Offset{calendar.UnitDay: abs(n)}, sign(n))), nil
	case tok.Has(token.Decade):
		return r.decade(tok, base)
	case tok.Has(token.Century):
		c, _ := tok.Int(token.Century)
		if c < 1 {
			return nil, errors.Wrapf(errInvalid, "century %d", c)
		}
		start, _ := calendar.YearRangeOf((c - 1) * 100)
		_, end := calendar.YearRangeOf((c-1)*100 + 99)
		return one(calendar.Span(start, end)), nil
	case tok.Has(token.Season):
		return r.season(tok, base)
	case tok.Has(token.Quarter):
		y, err := yearOf(tok, base)
		if err != nil {
			return nil, err
		}
		q, _ := tok.Int(token.Quarter)
		if q < 1 || q > 4 {
			return nil, errors.Wrapf(errInvalid, "quarter %d", q)
		}
		return one(calendar.Span(calendar.QuarterRangeOf(y, q))), nil
	case tok.Has(token.YearHalf):
		y, err := yearOf(tok, base)
		if err != nil {
			return nil, err
		}
		return yearHalf(y, tok.IntOr(token.YearHalf, 0))
	case tok.Has(token.MonthPeriod):
		return r.monthThird(tok, base)
	case tok.Has(token.Unit):
		return r.unitSpan(tok, base)
	case tok.HasAny(token.Year, token.OffsetYear):
		y, err := yearOf(tok, base)
		if err != nil {
			return nil, err
		}
		if m, ok := tok.Int(token.Month); ok {
			if m < 1 || m > 12 {
				return nil, errors.Wrapf(errInvalid, "month %d", m)
			}
			return one(calendar.Span(calendar.MonthRangeOf(y, time.Month(m)))), nil
		}
		return one(calendar.Span(calendar.YearRangeOf(y))), nil
	}
	return nil, errors.Wrap(errUnsupported, "period without span")
}

// decade resolves "90年代" style decades. Two-digit decades not later than the base
// year's decade belong to this century, the rest to the previous one.
func (r *PeriodResolver) decade(tok token.Token, base time.Time) ([]calendar.Result, error) {
	d, _ := tok.Int(token.Decade)
	if d < 0 {
		return nil, errors.Wrapf(errInvalid, "decade %d", d)
	}
	switch {
	case tok.Has(token.Century):
		d = (tok.IntOr(token.Century, 0)-1)*100 + d%100
	case d < 100:
		century := base.Year() / 100 * 100
		if d > base.Year()%100 {
			century -= 100
		}
		d += century
	}
	d = d / 10 * 10
	start, _ := calendar.YearRangeOf(d)
	_, end := calendar.YearRangeOf(d + 9)
	return one(calendar.Span(start, end)), nil
}

func (r *PeriodResolver) season(tok token.Token, base time.Time) ([]calendar.Result, error) {
	s, ok := calendar.ParseSeason(tok.Get(token.Season))
	if !ok {
		return nil, errors.Wrapf(errInvalid, "season %q", tok.Get(token.Season))
	}
	y, err := yearOf(tok, base)
	if err != nil {
		return nil, err
	}
	start, end, err := calendar.SeasonRange(y, s)
	if err != nil {
		return nil, err
	}
	return one(calendar.Span(start, end)), nil
}

func (r *PeriodResolver) monthThird(tok token.Token, base time.Time) ([]calendar.Result, error) {
	third, ok := monthPeriods[tok.Get(token.MonthPeriod)]
	if !ok {
		return nil, errors.Wrapf(errInvalid, "month period %q", tok.Get(token.MonthPeriod))
	}
	y, err := yearOf(tok, base)
	if err != nil {
		return nil, err
	}
	first := time.Date(y, base.Month(), 1, 0, 0, 0, 0, time.UTC)
	if m, ok := tok.Int(token.Month); ok {
		if m < 1 || m > 12 {
			return nil, errors.Wrapf(errInvalid, "month %d", m)
		}
		first = time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	}
	first = calendar.AddMonths(first, tok.IntOr(token.OffsetMonth, 0))
	return one(calendar.Span(calendar.MonthThird(first.Year(), first.Month(), third))), nil
}

// unitSpan resolves "两个半月" style spans running from the base in the direction of
// the token (future by default). A zero or missing magnitude is the current unit.
func (r *PeriodResolver) unitSpan(tok token.Token, base time.Time) ([]calendar.Result, error) {
	u, ok := calendar.ParseUnit(tok.Get(token.Unit))
	if !ok {
		return nil, errors.Wrapf(errInvalid, "unit %q", tok.Get(token.Unit))
	}
	v := float64(tok.IntOr(token.Offset, 0))
	if f, ok := tok.Float(token.Fractional); ok {
		v += f
	}
	if v <= 0 {
		return one(spanOf(u, base)), nil
	}
	dir := tok.IntOr(token.Direction, 1)
	if dir != 1 && dir != -1 {
		return nil, errors.Wrapf(errInvalid, "direction %d", dir)
	}
	t := calendar.ApplyOffset(base, calendar.SplitFraction(u, v), dir)
	if dir < 0 {
		return one(calendar.Span(t, base)), nil
	}
	return one(calendar.Span(base, t)), nil
}

func yearHalf(y, half int) ([]calendar.Result, error) {
	switch half {
	case 1:
		start, _ := calendar.MonthRangeOf(y, time.January)
		_, end := calendar.MonthRangeOf(y, time.June)
		return one(calendar.Span(start, end)), nil
	case 2:
		start, _ := calendar.MonthRangeOf(y, time.July)
		_, end := calendar.MonthRangeOf(y, time.December)
		return one(calendar.Span(start, end)), nil
	}
	return nil, errors.Wrapf(errInvalid, "year half %d", half)
}

// around returns the interval between base and base shifted by off in direction dir.
// The far side snaps to its day boundary for day or larger units.
func around(base time.Time, u calendar.Unit, off calendar.Offset, dir int) calendar.Result {
	far := calendar.ApplyOffset(base, off, dir)
	if dir < 0 {
		if !u.SubDay() {
			far = calendar.StartOfDay(far)
		}
		return calendar.Span(far, base)
	}
	if !u.SubDay() {
		far = calendar.EndOfDay(far)
	}
	return calendar.Span(base, far)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
