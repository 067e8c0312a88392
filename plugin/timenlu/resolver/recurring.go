package resolver

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
	"github.com/y00281951/fst-time-nlu-sub002/server/scheduler/rrule"
)

// Recurring pattern names carried by recurring_type.
const (
	patternWeekDay   = "week_day"
	patternMonthDay  = "month_day"
	patternYearMonth = "year_month"
	patternDayTime   = "day_time"
	patternInterval  = "interval"
	patternHoliday   = "holiday"
	patternSeason    = "season"
	patternUnit      = "unit"
)

var unitFrequency = map[calendar.Unit]rrule.Frequency{
	calendar.UnitYear:    rrule.Yearly,
	calendar.UnitQuarter: rrule.Monthly,
	calendar.UnitMonth:   rrule.Monthly,
	calendar.UnitWeek:    rrule.Weekly,
	calendar.UnitDay:     rrule.Daily,
	calendar.UnitHour:    rrule.Hourly,
	calendar.UnitMinute:  rrule.Minutely,
	calendar.UnitSecond:  rrule.Secondly,
}

// RecurringResolver expands periodic expressions ("每周六", "每月15号", "每年中秋") into
// their future occurrences. Occurrences are kept strictly after the base and before a
// horizon set by the per-unit repeat counts.
type RecurringResolver struct {
	counts  map[string]int
	holiday *HolidayResolver
}

func (r *RecurringResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return r.resolve(tok, reference(base))
	})
}

func (r *RecurringResolver) resolve(tok token.Token, base time.Time) ([]calendar.Result, error) {
	switch pattern := patternOf(tok); pattern {
	case patternHoliday:
		return r.holidays(tok, base)
	case patternSeason:
		return r.seasons(tok, base)
	case patternWeekDay:
		days, ok := tok.Ints(token.WeekDay)
		if !ok {
			return nil, errors.Wrapf(errInvalid, "week_day %q", tok.Get(token.WeekDay))
		}
		rule := &rrule.Rule{Frequency: rrule.Weekly}
		for _, d := range days {
			wd, ok := rrule.WeekdayFromISO(d)
			if !ok {
				return nil, errors.Wrapf(errInvalid, "week_day %d", d)
			}
			rule.ByDay = append(rule.ByDay, wd)
		}
		return r.expand(tok, rule, calendar.StartOfDay(base), base, base.AddDate(0, 0, 7*r.count("week")))
	case patternMonthDay:
		days, ok := tok.Ints(token.Day)
		if !ok {
			return nil, errors.Wrapf(errInvalid, "day %q", tok.Get(token.Day))
		}
		for _, d := range days {
			if d == 0 || d < -31 || d > 31 {
				return nil, errors.Wrapf(errInvalid, "day %d", d)
			}
		}
		rule := &rrule.Rule{Frequency: rrule.Monthly, ByMonthDay: days}
		start := calendar.Floor(base, calendar.UnitMonth)
		return r.expand(tok, rule, start, base, calendar.AddMonths(base, r.count("month")))
	case patternYearMonth:
		return r.yearly(tok, base)
	case patternDayTime:
		if !tok.HasAny(token.Hour, token.Minute, token.Second, token.Noon) {
			return bare(base), nil
		}
		rule := &rrule.Rule{Frequency: rrule.Daily}
		if tok.HasAny(token.Minute) && !tok.HasAny(token.Hour, token.Noon) {
			rule.Frequency = rrule.Hourly
			return r.expand(tok, rule, calendar.Floor(base, calendar.UnitHour), base, base.Add(time.Duration(r.count("hour"))*time.Hour))
		}
		return r.expand(tok, rule, calendar.StartOfDay(base), base, base.AddDate(0, 0, r.count("day")))
	case patternInterval:
		return r.interval(tok, base)
	case patternUnit:
		return r.unit(tok, base)
	default:
		return nil, errors.Wrapf(errUnsupported, "recurring pattern %q", pattern)
	}
}

// patternOf returns recurring_type, or infers it from the fields present.
func patternOf(tok token.Token) string {
	if p := tok.Get(token.RecurringType); p != "" {
		return p
	}
	switch {
	case tok.Has(token.Festival):
		return patternHoliday
	case tok.Has(token.Season):
		return patternSeason
	case tok.Has(token.Interval):
		return patternInterval
	case tok.Has(token.WeekDay):
		return patternWeekDay
	case tok.Has(token.Month):
		return patternYearMonth
	case tok.Has(token.Day):
		return patternMonthDay
	case tok.Has(token.Unit):
		return patternUnit
	}
	return patternDayTime
}

func (r *RecurringResolver) count(unit string) int {
	if n := r.counts[unit]; n > 0 {
		return n
	}
	return 1
}

// yearly resolves "每年3月5号" and "每年3月". A month without a day repeats the whole
// month.
func (r *RecurringResolver) yearly(tok token.Token, base time.Time) ([]calendar.Result, error) {
	months, ok := tok.Ints(token.Month)
	if !ok {
		return nil, errors.Wrapf(errInvalid, "month %q", tok.Get(token.Month))
	}
	for _, m := range months {
		if !validMonth(m) {
			return nil, errors.Wrapf(errInvalid, "month %d", m)
		}
	}
	horizon := base.AddDate(r.count("year"), 0, 0)
	start := calendar.Floor(base, calendar.UnitYear)

	if days, ok := tok.Ints(token.Day); ok {
		rule := &rrule.Rule{Frequency: rrule.Yearly, ByMonth: months, ByMonthDay: days}
		return r.expand(tok, rule, start, base, horizon)
	}

	rule := &rrule.Rule{Frequency: rrule.Yearly, ByMonth: months, ByMonthDay: []int{1}}
	slog.Debug("expanding recurrence", slog.String("rule", rule.String()))
	var out []calendar.Result
	for _, first := range rrule.NewGenerator(rule, start).Between(base, horizon) {
		out = append(out, calendar.Span(calendar.MonthRange(first)))
	}
	return out, nil
}

// interval resolves "每隔3天" style fixed intervals. The horizon is the interval count
// times the interval.
func (r *RecurringResolver) interval(tok token.Token, base time.Time) ([]calendar.Result, error) {
	n := tok.IntOr(token.Interval, 1)
	if n < 1 {
		return nil, errors.Wrapf(errInvalid, "interval %d", n)
	}
	u := calendar.UnitDay
	if s := tok.Get(token.Unit); s != "" {
		var ok bool
		if u, ok = calendar.ParseUnit(s); !ok {
			return nil, errors.Wrapf(errInvalid, "unit %q", s)
		}
	}
	rule := &rrule.Rule{Frequency: unitFrequency[u], Interval: n}
	if u == calendar.UnitQuarter {
		rule.Interval = 3 * n
	}
	horizon := calendar.ApplyOffset(base, calendar.Offset{u: n * r.count("interval")}, 1)
	start := base
	if !u.SubDay() {
		start = calendar.StartOfDay(base)
	}
	return r.expand(tok, rule, start, base, horizon)
}

// unit resolves "每天8点", "每月1号" style patterns named by their unit. Without any
// schedule the pattern only says the expression holds from now on.
func (r *RecurringResolver) unit(tok token.Token, base time.Time) ([]calendar.Result, error) {
	u, ok := calendar.ParseUnit(tok.Get(token.Unit))
	if !ok {
		return nil, errors.Wrapf(errInvalid, "unit %q", tok.Get(token.Unit))
	}
	if !tok.HasAny(token.Day, token.Hour, token.Minute, token.Second, token.Noon) {
		return bare(base), nil
	}
	rule := &rrule.Rule{Frequency: unitFrequency[u]}
	if u == calendar.UnitQuarter {
		rule.Interval = 3
	}
	if days, ok := tok.Ints(token.Day); ok && (u == calendar.UnitMonth || u == calendar.UnitQuarter) {
		rule.ByMonthDay = days
	}
	horizon := calendar.ApplyOffset(base, calendar.Offset{u: r.count(u.String())}, 1)
	return r.expand(tok, rule, calendar.Floor(base, u), base, horizon)
}

// expand runs rule from start and converts the occurrences between after and before
// into results: instants when the token names a clock time, else whole days or the
// span of the period word.
func (r *RecurringResolver) expand(tok token.Token, rule *rrule.Rule, start, after, before time.Time) ([]calendar.Result, error) {
	timed := tok.HasAny(token.Hour, token.Minute, token.Second)
	if timed {
		if err := clockRule(tok, rule); err != nil {
			return nil, err
		}
	}
	slog.Debug("expanding recurrence", slog.String("rule", rule.String()), slog.Time("start", start))

	var out []calendar.Result
	for _, t := range rrule.NewGenerator(rule, start).Between(after, before) {
		if timed {
			out = append(out, calendar.Point(t))
			continue
		}
		res, err := dayOrClock(tok, t)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// clockRule copies the token's clock time (with the period word applied) into rule.
func clockRule(tok token.Token, rule *rrule.Rule) error {
	if h, ok := tok.Int(token.Hour); ok {
		if noon := tok.Get(token.Noon); noon != "" {
			h, _ = calendar.ApplyPeriodHour(noon, h)
		}
		if h < 0 || h > 23 {
			return errors.Wrapf(errInvalid, "hour %d", h)
		}
		rule.ByHour = []int{h}
		rule.ByMinute = []int{tok.IntOr(token.Minute, 0)}
		rule.BySecond = []int{tok.IntOr(token.Second, 0)}
	} else if m, ok := tok.Int(token.Minute); ok {
		rule.ByMinute = []int{m}
		rule.BySecond = []int{tok.IntOr(token.Second, 0)}
	}
	for _, m := range rule.ByMinute {
		if m < 0 || m > 59 {
			return errors.Wrapf(errInvalid, "minute %d", m)
		}
	}
	for _, s := range rule.BySecond {
		if s < 0 || s > 59 {
			return errors.Wrapf(errInvalid, "second %d", s)
		}
	}
	return nil
}

// holidays repeats a festival once a year.
func (r *RecurringResolver) holidays(tok token.Token, base time.Time) ([]calendar.Result, error) {
	name := tok.Get(token.Festival)
	if name == "" {
		return nil, errors.Wrap(errUnsupported, "holiday recurrence without festival")
	}
	years := r.count("year")
	horizon := base.AddDate(years, 0, 0)
	var out []calendar.Result
	for k := 0; k <= years; k++ {
		day, err := r.holiday.Day(name, base.Year()+k)
		if err != nil {
			// Outside the lunar converter range.
			continue
		}
		res, err := dayOrClock(tok, day)
		if err != nil {
			return nil, err
		}
		if res.Start().After(base) && res.Start().Before(horizon) {
			out = append(out, res)
		}
	}
	if len(out) == 0 {
		return nil, errors.Wrapf(errInvalid, "festival %q has no occurrence", name)
	}
	return out, nil
}

// seasons repeats a season once a year.
func (r *RecurringResolver) seasons(tok token.Token, base time.Time) ([]calendar.Result, error) {
	s, ok := calendar.ParseSeason(tok.Get(token.Season))
	if !ok {
		return nil, errors.Wrapf(errInvalid, "season %q", tok.Get(token.Season))
	}
	years := r.count("year")
	horizon := base.AddDate(years, 0, 0)
	var out []calendar.Result
	for k := 0; k <= years; k++ {
		start, end, err := calendar.SeasonRange(base.Year()+k, s)
		if err != nil {
			continue
		}
		if start.After(base) && start.Before(horizon) {
			out = append(out, calendar.Span(start, end))
		}
	}
	return out, nil
}

// bare is the open interval of a periodic expression with no concrete schedule.
func bare(base time.Time) []calendar.Result {
	return one(calendar.Span(base, calendar.FarFuture))
}
