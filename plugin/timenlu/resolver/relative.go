package resolver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// RelativeResolver resolves relative tokens ("去年", "下个月5号下午3点"): the offsets
// are applied in calendar order, then explicit fields overwrite the shifted instant.
type RelativeResolver struct {
	weekday *WeekdayResolver
}

func (r *RelativeResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return r.resolve(tok, reference(base))
	})
}

func (r *RelativeResolver) resolve(tok token.Token, base time.Time) ([]calendar.Result, error) {
	if tok.Has(token.WeekDay) {
		return r.weekday.resolve(tok.Retype(token.KindWeekday), base)
	}

	off, finest, hasOffset := offsetOf(tok)
	t := calendar.ApplyOffset(base, off, 1)

	f, err := clockFields(tok, true)
	if err != nil {
		return nil, err
	}
	if f.Empty() {
		if !hasOffset {
			return nil, errors.Wrap(errUnsupported, "relative token without offset")
		}
		if tok.Has(token.Noon) && finest >= calendar.UnitDay {
			return oneOf(dayOrClock(tok, t))
		}
		return one(spanOf(finest, t)), nil
	}

	if f.HasTime() {
		day, err := calendar.SetFields(calendar.StartOfDay(t), dateOnly(f))
		if err != nil {
			return nil, err
		}
		res, _, err := clock(tok, day)
		if err != nil {
			return nil, err
		}
		return one(res), nil
	}

	anchor := t
	if !f.Has(calendar.UnitDay) {
		anchor = time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	}
	if m, ok := f.Get(calendar.UnitMonth); ok && (m < 1 || m > 12) {
		return nil, errors.Wrapf(errInvalid, "month %d", m)
	}
	t, err = calendar.SetFields(anchor, f)
	if err != nil {
		return nil, err
	}
	unit, _ := f.Finest()
	if tok.Has(token.Noon) && unit == calendar.UnitDay {
		return oneOf(dayOrClock(tok, t))
	}
	return one(spanOf(unit, t)), nil
}
