package merge

import (
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// Tier 3: year-only elaboration, "and" inheritance and relative partial ranges.
var elaborationRules = []Rule{
	{Name: "year-period", Apply: yearPeriod},
	{Name: "year-holiday-range", Apply: yearHolidayRange},
	{Name: "year-holiday-time", Apply: yearHolidayTime},
	{Name: "year-holiday", Apply: yearHoliday},
	{Name: "year-lunar", Apply: yearLunar},
	{Name: "year-month-range", Apply: yearMonthRange},
	{Name: "and-inherit", Apply: andInherit},
	{Name: "relative-partial-range", Apply: relativePartialRange},
}

// yearAt returns the year-only token at i.
func (c *Context) yearAt(i int) (token.Token, bool) {
	tok, ok := c.at(i, token.KindUTC, token.KindRelative)
	if !ok || !yearOnly(tok) {
		return token.Token{}, false
	}
	return tok, true
}

// yearPeriod resolves "2024年 第二季度", "2023年 夏天", "2025年 上半年".
func yearPeriod(c *Context, i int) (Outcome, bool) {
	year, ok := c.yearAt(i)
	if !ok {
		return Outcome{}, false
	}
	p, ok := c.at(i+1, token.KindPeriod)
	if !ok || p.HasAny(token.Year, token.OffsetYear) ||
		!p.HasAny(token.Quarter, token.YearHalf, token.Season, token.MonthPeriod) {
		return Outcome{}, false
	}
	return matchedAll(2, c.resolve(yearFields(p, year)))
}

// yearHolidayRange resolves "2024年春节 到 2025年春节".
func yearHolidayRange(c *Context, i int) (Outcome, bool) {
	y1, ok := c.yearAt(i)
	if !ok {
		return Outcome{}, false
	}
	h1, ok := c.at(i+1, token.KindHoliday)
	if !ok {
		return Outcome{}, false
	}
	if _, ok := c.at(i+2, token.KindTo); !ok {
		return Outcome{}, false
	}
	y2, ok := c.yearAt(i + 3)
	if !ok {
		return Outcome{}, false
	}
	h2, ok := c.at(i+4, token.KindHoliday)
	if !ok {
		return Outcome{}, false
	}
	lr, lok := hull(c.resolve(yearFields(h1, y1)))
	rr, rok := hull(c.resolve(yearFields(h2, y2)))
	if !lok || !rok || rr.End().Before(lr.Start()) {
		return matched(5)
	}
	return matched(5, calendar.Span(lr.Start(), rr.End()))
}

// yearHolidayTime resolves "2025年 除夕 晚上8点".
func yearHolidayTime(c *Context, i int) (Outcome, bool) {
	year, ok := c.yearAt(i)
	if !ok {
		return Outcome{}, false
	}
	h, ok := c.at(i+1, token.KindHoliday)
	if !ok {
		return Outcome{}, false
	}
	clock, ok := c.at(i+2, token.KindUTC)
	if !ok || !clockOnly(clock) {
		return Outcome{}, false
	}
	tok, ok := withClock(yearFields(h, year), clock)
	if !ok {
		return Outcome{}, false
	}
	return matchedAll(3, c.resolve(tok))
}

// yearHoliday resolves "2025年 国庆节".
func yearHoliday(c *Context, i int) (Outcome, bool) {
	year, ok := c.yearAt(i)
	if !ok {
		return Outcome{}, false
	}
	h, ok := c.at(i+1, token.KindHoliday)
	if !ok {
		return Outcome{}, false
	}
	return matchedAll(2, c.resolve(yearFields(h, year)))
}

// yearLunar resolves "2025年 农历八月十五".
func yearLunar(c *Context, i int) (Outcome, bool) {
	year, ok := c.yearAt(i)
	if !ok {
		return Outcome{}, false
	}
	l, ok := c.at(i+1, token.KindLunar)
	if !ok {
		return Outcome{}, false
	}
	return matchedAll(2, c.resolve(yearFields(l, year)))
}

// yearMonthRange resolves "2024年 3到5月".
func yearMonthRange(c *Context, i int) (Outcome, bool) {
	year, ok := c.at(i, token.KindUTC)
	if !ok || !yearOnly(year) {
		return Outcome{}, false
	}
	between, ok := c.at(i+1, token.KindBetween)
	if !ok || !between.Has(token.FromMonth) || between.HasAny(token.Year, token.FromYear) {
		return Outcome{}, false
	}
	return matchedAll(2, c.resolve(between.With(token.Year, year.Get(token.Year))))
}

// andInherit resolves "X 和 Y": both sides resolve, Y taking the coarser fields of X.
func andInherit(c *Context, i int) (Outcome, bool) {
	x, ok := c.resolvable(i)
	if !ok || x.Is(token.KindRecurring) {
		return Outcome{}, false
	}
	if _, ok := c.at(i+1, token.KindAnd); !ok {
		return Outcome{}, false
	}
	y, ok := c.resolvable(i + 2)
	if !ok {
		return Outcome{}, false
	}
	if y.Kind == x.Kind {
		y = y.Inherit(x, token.Noon, token.Year, token.Month, token.OffsetYear, token.OffsetMonth, token.OffsetWeek, token.OffsetDay)
	} else if inherited, ok := inherit(x, y); ok {
		y = inherited
	}
	return matchedAll(3, append(c.resolve(x), c.resolve(y)...))
}

// relativePartialRange resolves "下个月 5号 到 8号": the offsets apply to both ends.
func relativePartialRange(c *Context, i int) (Outcome, bool) {
	rel, ok := c.at(i, token.KindRelative)
	if !ok {
		return Outcome{}, false
	}
	for _, f := range token.ClockFields {
		if rel.Has(f) {
			return Outcome{}, false
		}
	}
	left, ok := c.at(i+1, token.KindUTC)
	if !ok {
		return Outcome{}, false
	}
	if _, ok := c.at(i+2, token.KindTo); !ok {
		return Outcome{}, false
	}
	right, ok := c.at(i+3, token.KindUTC)
	if !ok {
		return Outcome{}, false
	}
	anchored, ok := inherit(rel, left)
	if !ok {
		return Outcome{}, false
	}
	end, _ := inherit(anchored, right)
	lr, lok := hull(c.resolve(anchored))
	rr, rok := hull(c.resolve(end))
	if !lok || !rok || rr.End().Before(lr.Start()) {
		return Outcome{}, false
	}
	return matched(4, calendar.Span(lr.Start(), rr.End()))
}
