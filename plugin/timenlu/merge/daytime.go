package merge

import (
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// Tier 4: a named day followed by a time of day.
var dayTimeRules = []Rule{
	{Name: "holiday-year-time", Apply: dayWithClock(token.KindHoliday, true)},
	{Name: "holiday-time", Apply: dayWithClock(token.KindHoliday, false)},
	{Name: "lunar-time", Apply: dayWithClock(token.KindLunar, false)},
	{Name: "special-time", Apply: dayWithClock(token.KindSpecial, false)},
}

// dayWithClock narrows a token of kind k by the bare time of day after it ("中秋 晚上",
// "农历正月初一 8点"). withYear restricts the rule to tokens carrying a year.
func dayWithClock(k token.Kind, withYear bool) func(c *Context, i int) (Outcome, bool) {
	return func(c *Context, i int) (Outcome, bool) {
		day, ok := c.at(i, k)
		if !ok || (withYear && !day.HasAny(token.Year, token.OffsetYear)) {
			return Outcome{}, false
		}
		clock, ok := c.at(i+1, token.KindUTC)
		if !ok || !clockOnly(clock) {
			return Outcome{}, false
		}
		tok, ok := withClock(day, clock)
		if !ok {
			return Outcome{}, false
		}
		return matchedAll(2, c.resolve(tok))
	}
}
