package resolver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// WeekdayResolver resolves day-of-week tokens ("下周三", "这个周末晚上") in the base
// week shifted by offset_week. Weekdays are ISO: 1 is Monday, 7 is Sunday.
type WeekdayResolver struct{}

func (r *WeekdayResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return r.resolve(tok, reference(base))
	})
}

func (r *WeekdayResolver) resolve(tok token.Token, base time.Time) ([]calendar.Result, error) {
	monday := weekOf(base, tok.IntOr(token.OffsetWeek, 0))

	days, hasDays := tok.Ints(token.WeekDay)
	if tok.Flag(token.Weekend) {
		days, hasDays = []int{6, 7}, true
	}
	if !hasDays {
		if tok.Has(token.WeekDay) {
			return nil, errors.Wrapf(errInvalid, "week_day %q", tok.Get(token.WeekDay))
		}
		return one(calendar.Span(calendar.WeekRange(monday))), nil
	}

	out := make([]calendar.Result, 0, len(days))
	for _, wd := range days {
		if wd < 1 || wd > 7 {
			return nil, errors.Wrapf(errInvalid, "week_day %d", wd)
		}
		res, err := dayOrClock(tok, monday.AddDate(0, 0, wd-1))
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
