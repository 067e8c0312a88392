package resolver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// Idiomatic spans ("最近几天", "这几个月") with their fixed magnitude.
var idioms = map[string]struct {
	unit  calendar.Unit
	value int
}{
	"few_days":   {calendar.UnitDay, 3},
	"few_weeks":  {calendar.UnitWeek, 3},
	"few_months": {calendar.UnitMonth, 3},
	"few_years":  {calendar.UnitYear, 3},
}

// RangeResolver resolves open ranges anchored at the base: "过去3天", "未来两周",
// and the idiomatic spans, which look back unless a direction says otherwise.
type RangeResolver struct{}

func (r *RangeResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return r.resolve(tok, reference(base))
	})
}

func (r *RangeResolver) resolve(tok token.Token, base time.Time) ([]calendar.Result, error) {
	var (
		u   calendar.Unit
		n   int
		dir int
	)
	if idiom := tok.Get(token.Idiom); idiom != "" {
		def, ok := idioms[idiom]
		if !ok {
			return nil, errors.Wrapf(errInvalid, "idiom %q", idiom)
		}
		u, n, dir = def.unit, def.value, tok.IntOr(token.Direction, -1)
	} else {
		var ok bool
		if u, ok = calendar.ParseUnit(tok.Get(token.Unit)); !ok {
			return nil, errors.Wrapf(errInvalid, "unit %q", tok.Get(token.Unit))
		}
		n, dir = tok.IntOr(token.Value, 1), tok.IntOr(token.Direction, 1)
	}
	if n <= 0 {
		return nil, errors.Wrapf(errInvalid, "range magnitude %d", n)
	}
	if dir != 1 && dir != -1 {
		return nil, errors.Wrapf(errInvalid, "direction %d", dir)
	}
	return one(around(base, u, calendar.Offset{u: n}, dir)), nil
}
