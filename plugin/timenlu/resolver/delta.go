package resolver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// deltaUnits maps delta fields to units, coarse to fine.
var deltaUnits = []struct {
	field token.Field
	unit  calendar.Unit
}{
	{token.Year, calendar.UnitYear},
	{token.Quarter, calendar.UnitQuarter},
	{token.Month, calendar.UnitMonth},
	{token.Week, calendar.UnitWeek},
	{token.Day, calendar.UnitDay},
	{token.Hour, calendar.UnitHour},
	{token.Minute, calendar.UnitMinute},
	{token.Second, calendar.UnitSecond},
}

// DeltaResolver resolves duration tokens. With a direction the duration is an offset
// from the base ("3天后"); without one the values are clock fields set on the base.
type DeltaResolver struct{}

func (r *DeltaResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return r.resolve(tok, reference(base))
	})
}

func (r *DeltaResolver) resolve(tok token.Token, base time.Time) ([]calendar.Result, error) {
	off, err := Duration(tok)
	if err != nil {
		return nil, err
	}
	if off.IsZero() && !tok.Has(token.Fractional) {
		return nil, errors.Wrap(errUnsupported, "empty duration")
	}

	dir, ok := tok.Int(token.Direction)
	if !ok {
		return r.set(tok, base)
	}
	if dir != 1 && dir != -1 {
		return nil, errors.Wrapf(errInvalid, "direction %d", dir)
	}
	t := calendar.ApplyOffset(base, off, dir)

	coarsest, _ := off.Coarsest()
	if coarsest.SubDay() {
		// Sub-day deltas keep the base seconds.
		return one(calendar.Point(t)), nil
	}
	return oneOf(dayOrClock(tok.Without(token.Hour, token.Minute, token.Second), t))
}

// set applies the delta values as explicit clock fields on the base.
func (r *DeltaResolver) set(tok token.Token, base time.Time) ([]calendar.Result, error) {
	if tok.HasAny(token.Quarter, token.Week) {
		return nil, errors.Wrap(errUnsupported, "undirected quarter or week delta")
	}
	f, err := clockFields(tok, false)
	if err != nil {
		return nil, err
	}
	if f.HasTime() {
		day, err := calendar.SetFields(calendar.StartOfDay(base), dateOnly(f))
		if err != nil {
			return nil, err
		}
		res, _, err := clock(tok, day)
		if err != nil {
			return nil, err
		}
		return one(res), nil
	}
	t, err := calendar.SetFields(base, f)
	if err != nil {
		return nil, err
	}
	unit, _ := f.Finest()
	return one(spanOf(unit, t)), nil
}

// Duration reads the magnitude of a delta token as an offset. The fractional field
// adds a fraction of the finest unit present, carried into finer units.
func Duration(tok token.Token) (calendar.Offset, error) {
	off := calendar.Offset{}
	finest, found := calendar.UnitYear, false
	for _, du := range deltaUnits {
		v, ok := tok.Int(du.field)
		if !ok {
			if tok.Has(du.field) {
				return nil, errors.Wrapf(errInvalid, "%s %q", du.field, tok.Get(du.field))
			}
			continue
		}
		if v < 0 {
			return nil, errors.Wrapf(errInvalid, "negative %s %d", du.field, v)
		}
		off[du.unit] += v
		finest, found = du.unit, true
	}
	if frac, ok := tok.Float(token.Fractional); ok {
		if !found {
			return nil, errors.Wrap(errUnsupported, "fraction without unit")
		}
		off = off.Add(calendar.SplitFraction(finest, frac))
	}
	return off, nil
}
