// Package resolver turns one semantic token and a base instant into time results.
//
// There is one resolver per token kind. Every resolver swallows its own failures: an
// out-of-domain value or an unsupported field combination is logged at debug level and
// yields an empty result, never an error. Results whose years fall outside
// [calendar.MinYear, calendar.MaxYear] are dropped.
package resolver

import (
	"log/slog"
	"time"

	"github.com/y00281951/fst-time-nlu-sub002/internal/profile"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/lunar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
	"github.com/y00281951/fst-time-nlu-sub002/store"
)

// Resolver resolves one token relative to base.
type Resolver interface {
	Resolve(tok token.Token, base time.Time) []calendar.Result
}

// HolidayTable looks up statutory holiday spans by year and festival name.
type HolidayTable interface {
	Lookup(year int, festival string) (start, end time.Time, ok bool)
}

// Config holds the read-only collaborators shared by every resolver.
type Config struct {
	// Lunar converts lunar dates and solar terms. Defaults to a lunar-go backed calendar.
	Lunar lunar.Converter
	// Holidays is the statutory holiday table. Defaults to the built-in table.
	Holidays HolidayTable
	// Recurrence maps a unit name to its repeat horizon. Missing units use
	// profile.DefaultRecurrence.
	Recurrence map[string]int
}

func (c Config) withDefaults() Config {
	if c.Lunar == nil {
		c.Lunar = lunar.New(4096)
	}
	if c.Holidays == nil {
		c.Holidays = store.DefaultHolidayTable()
	}
	counts := make(map[string]int, len(profile.DefaultRecurrence))
	for k, v := range profile.DefaultRecurrence {
		counts[k] = v
	}
	for k, v := range c.Recurrence {
		if v > 0 {
			counts[k] = v
		}
	}
	c.Recurrence = counts
	return c
}

// Registry dispatches tokens to the resolver of their kind.
type Registry struct {
	Absolute  *AbsoluteResolver
	Special   *SpecialResolver
	Relative  *RelativeResolver
	Delta     *DeltaResolver
	Weekday   *WeekdayResolver
	Holiday   *HolidayResolver
	Lunar     *LunarResolver
	Period    *PeriodResolver
	Range     *RangeResolver
	Between   *BetweenResolver
	Recurring *RecurringResolver

	byKind map[token.Kind]Resolver
}

// NewRegistry wires every resolver to the shared collaborators.
func NewRegistry(cfg Config) *Registry {
	cfg = cfg.withDefaults()

	r := &Registry{}
	r.Absolute = &AbsoluteResolver{}
	r.Special = &SpecialResolver{}
	r.Weekday = &WeekdayResolver{}
	r.Relative = &RelativeResolver{weekday: r.Weekday}
	r.Delta = &DeltaResolver{}
	r.Holiday = &HolidayResolver{lunar: cfg.Lunar, holidays: cfg.Holidays}
	r.Lunar = &LunarResolver{lunar: cfg.Lunar}
	r.Period = &PeriodResolver{}
	r.Range = &RangeResolver{}
	r.Between = &BetweenResolver{absolute: r.Absolute}
	r.Recurring = &RecurringResolver{counts: cfg.Recurrence, holiday: r.Holiday}

	r.byKind = map[token.Kind]Resolver{
		token.KindUTC:       r.Absolute,
		token.KindSpecial:   r.Special,
		token.KindRelative:  r.Relative,
		token.KindDelta:     r.Delta,
		token.KindWeekday:   r.Weekday,
		token.KindHoliday:   r.Holiday,
		token.KindLunar:     r.Lunar,
		token.KindPeriod:    r.Period,
		token.KindRange:     r.Range,
		token.KindBetween:   r.Between,
		token.KindRecurring: r.Recurring,
	}
	return r
}

// For returns the resolver of kind k. Connector kinds have none.
func (r *Registry) For(k token.Kind) (Resolver, bool) {
	res, ok := r.byKind[k]
	return res, ok
}

// Resolve dispatches tok to its resolver. Connector tokens resolve to nothing.
func (r *Registry) Resolve(tok token.Token, base time.Time) []calendar.Result {
	res, ok := r.byKind[tok.Kind]
	if !ok {
		return nil
	}
	return res.Resolve(tok, base)
}

// Resolvable reports whether tok has a resolver of its own.
func (r *Registry) Resolvable(tok token.Token) bool {
	_, ok := r.byKind[tok.Kind]
	return ok
}

// guard runs fn and converts its failure into an empty result at the resolver boundary.
func guard(tok token.Token, fn func() ([]calendar.Result, error)) []calendar.Result {
	rs, err := fn()
	if err != nil {
		slog.Debug("token not resolvable",
			slog.String("kind", string(tok.Kind)),
			slog.String("token", tok.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return calendar.Filter(rs)
}

// one wraps a single result.
func one(r calendar.Result) []calendar.Result {
	return []calendar.Result{r}
}

// reference normalizes a base instant to whole seconds in UTC.
func reference(base time.Time) time.Time {
	return base.UTC().Truncate(time.Second)
}
