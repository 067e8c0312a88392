package merge

import (
	"time"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/resolver"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// Tier 1 is made of three sub-mergers tried in order, then the "this + count + unit"
// rewrite.
var (
	periodRules = []Rule{
		{Name: "whole-with-year", Apply: wholeWithYear},
		{Name: "whole", Apply: wholeSpan},
		{Name: "begin-mid-end", Apply: spanPortion},
		{Name: "ten-day-range", Apply: tenDayRange},
	}
	unitRules = []Rule{
		{Name: "relative-year-composite", Apply: relativeYearComposite},
		{Name: "relative-month-week", Apply: relativeMonthWeek},
		{Name: "relative-year-month-week", Apply: relativeYearMonthWeek},
	}
	dateComponentRules = []Rule{
		{Name: "delta-run", Apply: deltaRun},
	}
)

func componentTier() []Rule {
	var rules []Rule
	rules = append(rules, periodRules...)
	rules = append(rules, unitRules...)
	rules = append(rules, dateComponentRules...)
	return append(rules, Rule{Name: "this-count-unit", Apply: thisCountUnit})
}

// wholeWithYear resolves "2023年 整个 三月": the whole span of X in the year named before
// the modifier.
func wholeWithYear(c *Context, i int) (Outcome, bool) {
	year, ok := c.at(i)
	if !ok || !yearOnly(year) {
		return Outcome{}, false
	}
	if _, ok := c.modifierAt(i+1, modWhole); !ok {
		return Outcome{}, false
	}
	x, ok := c.at(i+2, token.KindUTC, token.KindPeriod, token.KindLunar, token.KindHoliday)
	if !ok {
		return Outcome{}, false
	}
	r, ok := hull(c.resolve(yearFields(x, year)))
	if !ok {
		return matched(3)
	}
	return matched(3, r)
}

// wholeSpan resolves "整个X" and "X全年" style spans to the hull of X.
func wholeSpan(c *Context, i int) (Outcome, bool) {
	if _, ok := c.modifierAt(i, modWhole); ok {
		x, ok := c.resolvable(i + 1)
		if !ok {
			return Outcome{}, false
		}
		r, ok := hull(c.resolve(x))
		if !ok {
			return matched(2)
		}
		return matched(2, r)
	}
	x, ok := c.at(i, anchorKinds...)
	if !ok {
		return Outcome{}, false
	}
	if _, ok := c.modifierAt(i+1, modWhole); !ok {
		return Outcome{}, false
	}
	r, ok := hull(c.resolve(x))
	if !ok {
		return matched(2)
	}
	return matched(2, r)
}

// spanPortion resolves "X初/X中/X底" over a year, quarter, month or week span.
func spanPortion(c *Context, i int) (Outcome, bool) {
	x, ok := c.at(i, anchorKinds...)
	if !ok {
		return Outcome{}, false
	}
	mod, ok := c.modifierAt(i+1, modBegin, modMid, modEnd)
	if !ok {
		return Outcome{}, false
	}
	r, ok := hull(c.resolve(x))
	if !ok {
		return Outcome{}, false
	}
	p, ok := portion(r, mod)
	if !ok {
		return Outcome{}, false
	}
	return matched(2, p)
}

// tenDayRange resolves "上旬到中旬"; the right side takes the month of the left.
func tenDayRange(c *Context, i int) (Outcome, bool) {
	left, ok := c.at(i, token.KindPeriod, token.KindLunar)
	if !ok || !left.Has(token.MonthPeriod) {
		return Outcome{}, false
	}
	if _, ok := c.at(i+1, token.KindTo); !ok {
		return Outcome{}, false
	}
	right, ok := c.at(i+2, left.Kind)
	if !ok || !right.Has(token.MonthPeriod) {
		return Outcome{}, false
	}
	if !right.HasAny(token.Month, token.OffsetMonth) {
		right = right.Inherit(left, token.Month, token.OffsetMonth, token.Year, token.OffsetYear, token.Leap)
	}
	rs := append(c.resolve(left), c.resolve(right)...)
	r, ok := hull(rs)
	if !ok {
		return matched(3)
	}
	return matched(3, r)
}

// relativeYearComposite resolves "明年 第一季度", "去年 夏天", "今年 上半年".
func relativeYearComposite(c *Context, i int) (Outcome, bool) {
	year, ok := c.at(i, token.KindRelative)
	if !ok || !yearOnly(year) {
		return Outcome{}, false
	}
	p, ok := c.at(i+1, token.KindPeriod)
	if !ok || !p.HasAny(token.Quarter, token.YearHalf, token.Season) || p.HasAny(token.Year, token.OffsetYear) {
		return Outcome{}, false
	}
	return matchedAll(2, c.resolve(yearFields(p, year)))
}

// relativeMonthWeek resolves "下个月 第二周 (周三)".
func relativeMonthWeek(c *Context, i int) (Outcome, bool) {
	rel, ok := c.at(i, token.KindRelative)
	if !ok || !rel.Has(token.OffsetMonth) || !rel.HasOnly(token.OffsetMonth, token.OffsetYear) {
		return Outcome{}, false
	}
	week, ok := c.at(i+1, token.KindUTC)
	if !ok || !week.Has(token.Week) || week.HasAny(token.Year, token.Month) {
		return Outcome{}, false
	}
	first := time.Date(c.Base.Year(), c.Base.Month(), 1, 0, 0, 0, 0, time.UTC)
	first = calendar.AddMonths(first, 12*rel.IntOr(token.OffsetYear, 0)+rel.IntOr(token.OffsetMonth, 0))
	return matchedAll(2, c.resolve(week.WithInt(token.Year, first.Year()).WithInt(token.Month, int(first.Month()))))
}

// relativeYearMonthWeek resolves "明年 三月 第一周".
func relativeYearMonthWeek(c *Context, i int) (Outcome, bool) {
	year, ok := c.at(i, token.KindRelative)
	if !ok || !yearOnly(year) {
		return Outcome{}, false
	}
	week, ok := c.at(i+1, token.KindUTC)
	if !ok || !week.Has(token.Week) || !week.Has(token.Month) || week.Has(token.Year) {
		return Outcome{}, false
	}
	y := c.Base.Year() + year.IntOr(token.OffsetYear, 0)
	return matchedAll(2, c.resolve(week.WithInt(token.Year, y)))
}

// deltaRun fuses a run of duration tokens ("1年" "3个月"), an optional "半", and an
// optional before/after/within marker into one duration.
func deltaRun(c *Context, i int) (Outcome, bool) {
	first, ok := c.at(i, token.KindDelta)
	if !ok {
		return Outcome{}, false
	}
	fused, n := first, 1
	for {
		next, ok := c.at(i+n, token.KindDelta)
		if !ok || next.Has(token.Direction) || fused.Has(token.Direction) {
			break
		}
		merged, ok := addDeltas(fused, next)
		if !ok {
			break
		}
		fused, n = merged, n+1
	}
	if _, ok := c.modifierAt(i+n, modHalf); ok && !fused.Has(token.Fractional) {
		fused, n = fused.With(token.Fractional, "0.5"), n+1
	}

	marker, hasMarker := c.at(i+n)
	switch {
	case !hasMarker:
	case marker.Is(token.KindBefore) && !fused.Has(token.Direction):
		return matchedAll(n+1, c.resolve(fused.WithInt(token.Direction, -1)))
	case marker.Is(token.KindAfter) && !fused.Has(token.Direction):
		return matchedAll(n+1, c.resolve(fused.WithInt(token.Direction, 1)))
	case marker.Is(token.KindModifier) && marker.Get(token.Modifier) == modWithin:
		r, ok := within(fused, c.Base)
		if !ok {
			return matched(n + 1)
		}
		return matched(n+1, r)
	}
	if n == 1 {
		return Outcome{}, false
	}
	return matchedAll(n, c.resolve(fused))
}

// addDeltas sums the unit fields of two delta tokens. Only a, the earlier token, may
// carry a fraction.
func addDeltas(a, b token.Token) (token.Token, bool) {
	if b.Has(token.Fractional) {
		return a, false
	}
	out := a
	for _, f := range []token.Field{token.Year, token.Quarter, token.Month, token.Week, token.Day, token.Hour, token.Minute, token.Second} {
		v, ok := b.Int(f)
		if !ok {
			continue
		}
		out = out.WithInt(f, a.IntOr(f, 0)+v)
	}
	if noon := b.Get(token.Noon); noon != "" {
		out = out.With(token.Noon, noon)
	}
	return out, true
}

// within resolves "3天内": from the base to the end of the duration, closed on the day
// boundary for day or larger durations.
func within(delta token.Token, base time.Time) (calendar.Result, bool) {
	off, err := resolver.Duration(delta)
	if err != nil || off.IsZero() {
		return nil, false
	}
	end := calendar.ApplyOffset(base, off, 1)
	if u, _ := off.Coarsest(); !u.SubDay() {
		end = calendar.EndOfDay(end)
	}
	return calendar.Span(base, end), true
}

// thisCountUnit rewrites "这三天" to the past three days; "这一天" is the current day.
func thisCountUnit(c *Context, i int) (Outcome, bool) {
	if _, ok := c.modifierAt(i, modThis); !ok {
		return Outcome{}, false
	}
	rng, ok := c.at(i+1, token.KindRange)
	if !ok || !rng.Has(token.Unit) || rng.Has(token.Idiom) {
		return Outcome{}, false
	}
	if rng.IntOr(token.Value, 1) == 1 {
		period := token.New(token.KindPeriod, token.Values{token.Unit: rng.Get(token.Unit), token.Offset: "0"})
		return matchedAll(2, c.resolve(period))
	}
	return matchedAll(2, c.resolve(rng.WithInt(token.Direction, -1)))
}
