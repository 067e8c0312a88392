package resolver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/lunar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

var monthPeriods = map[string]int{
	"early": 1, "上旬": 1,
	"mid": 2, "中旬": 2,
	"late": 3, "下旬": 3,
}

// LunarResolver resolves lunar calendar dates, whole lunar months, lunar month thirds
// and solar terms.
type LunarResolver struct {
	lunar lunar.Converter
}

func (r *LunarResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return r.resolve(tok, reference(base))
	})
}

func (r *LunarResolver) resolve(tok token.Token, base time.Time) ([]calendar.Result, error) {
	if term := tok.Get(token.SolarTerm); term != "" {
		y, err := yearOf(tok, base)
		if err != nil {
			return nil, err
		}
		day, err := r.lunar.TermDate(term, y)
		if err != nil {
			return nil, err
		}
		return oneOf(dayOrClock(tok, day))
	}

	today, err := r.lunar.SolarToLunar(base)
	if err != nil {
		return nil, err
	}
	y := today.Year + tok.IntOr(token.OffsetYear, 0)
	if v, ok := tok.Int(token.Year); ok {
		if y, err = calendar.NormalizeYear(v); err != nil {
			return nil, err
		}
	}

	m, hasMonth := tok.Int(token.Month)
	leap := tok.Flag(token.Leap)
	if !hasMonth {
		m, leap = today.Month, today.Leap
	}
	if m < 1 || m > 12 {
		return nil, errors.Wrapf(errInvalid, "lunar month %d", m)
	}

	if d, ok := tok.Int(token.Day); ok {
		day, err := r.date(y, m, d, leap)
		if err != nil {
			return nil, err
		}
		return oneOf(dayOrClock(tok, day))
	}
	if !hasMonth && !tok.Has(token.MonthPeriod) {
		return nil, errors.Wrap(errUnsupported, "lunar token without month or day")
	}

	first, err := r.lunar.LunarToSolar(y, m, 1, leap)
	if err != nil {
		return nil, err
	}
	n, err := r.lunar.DaysInMonth(y, m, leap)
	if err != nil {
		return nil, err
	}

	from, to := 1, n
	if p := tok.Get(token.MonthPeriod); p != "" {
		third, ok := monthPeriods[p]
		if !ok {
			return nil, errors.Wrapf(errInvalid, "month period %q", p)
		}
		from, to = (third-1)*10+1, third*10
		if third == 3 {
			to = n
		}
	}
	start := first.AddDate(0, 0, from-1)
	end := calendar.EndOfDay(first.AddDate(0, 0, to-1))
	return one(calendar.Span(start, end)), nil
}

// date converts a lunar date. A plain month that does not exist is retried as the
// leap month of that number.
func (r *LunarResolver) date(y, m, d int, leap bool) (time.Time, error) {
	day, err := r.lunar.LunarToSolar(y, m, d, leap)
	if err == nil || leap {
		return day, err
	}
	if retry, rerr := r.lunar.LunarToSolar(y, m, d, true); rerr == nil {
		return retry, nil
	}
	return time.Time{}, err
}
