package merge

import (
	"strings"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// Tier 5: date + time fusion, weekday sets and numeral continuations.
var continuationRules = []Rule{
	{Name: "date-time", Apply: dateTime},
	{Name: "weekday-set", Apply: weekdaySet},
	{Name: "and-numeral", Apply: andNumeral},
}

// dateTime joins a date token and the bare time of day after it: "2024-03-15 10:30",
// "明天 下午3点", "周五 晚上".
func dateTime(c *Context, i int) (Outcome, bool) {
	date, ok := c.at(i, token.KindUTC, token.KindRelative, token.KindWeekday)
	if !ok || date.HasAny(token.Hour, token.Minute, token.Second) || clockOnly(date) {
		return Outcome{}, false
	}
	clock, ok := c.at(i+1, token.KindUTC)
	if !ok || !clockOnly(clock) {
		return Outcome{}, false
	}
	tok, ok := withClock(date, clock)
	if !ok {
		return Outcome{}, false
	}
	return matchedAll(2, c.resolve(tok))
}

// weekdaySet joins "每周六 和 周日" into one recurrence over both weekdays.
func weekdaySet(c *Context, i int) (Outcome, bool) {
	rec, ok := c.at(i, token.KindRecurring)
	if !ok || !rec.Has(token.WeekDay) {
		return Outcome{}, false
	}
	j := i + 1
	if _, ok := c.at(j, token.KindAnd); ok {
		j++
	}
	next, ok := c.at(j, token.KindRecurring, token.KindWeekday)
	if !ok || !next.Has(token.WeekDay) || j == i+1 && next.Is(token.KindWeekday) {
		return Outcome{}, false
	}
	days := rec.Get(token.WeekDay) + "," + next.Get(token.WeekDay)
	fused := rec.With(token.WeekDay, strings.Trim(days, ","))
	if !fused.Has(token.RecurringType) {
		fused = fused.With(token.RecurringType, "week_day")
	}
	for _, f := range []token.Field{token.Hour, token.Minute, token.Second, token.Noon} {
		if !fused.Has(f) && next.Has(f) {
			fused = fused.With(f, next.Get(f))
		}
	}
	return matchedAll(j-i+1, c.resolve(fused))
}

// andNumeral resolves "3月和5月" lexed as "3月" "和" "5": the numeral replaces the finest
// of month, day or hour of the left token and keeps everything else, the period word
// included.
func andNumeral(c *Context, i int) (Outcome, bool) {
	x, ok := c.at(i, token.KindUTC, token.KindRelative)
	if !ok {
		return Outcome{}, false
	}
	if _, ok := c.at(i+1, token.KindAnd); !ok {
		return Outcome{}, false
	}
	num, ok := c.at(i+2, token.KindNumber)
	if !ok {
		return Outcome{}, false
	}
	v := num.Get(token.Value)
	if v == "" {
		return Outcome{}, false
	}
	var field token.Field
	for _, f := range []token.Field{token.Hour, token.Day, token.Month} {
		if x.Has(f) {
			field = f
			break
		}
	}
	if field == "" {
		return Outcome{}, false
	}
	y := x.With(field, v)
	if field == token.Hour {
		y = y.Without(token.Minute, token.Second)
	}
	return matchedAll(3, append(c.resolve(x), c.resolve(y)...))
}
