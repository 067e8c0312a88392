package merge

import (
	"strconv"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// Tier 2: interval building.
var intervalRules = []Rule{
	{Name: "dated-between", Apply: datedBetween},
	{Name: "between-pair", Apply: betweenPair},
	{Name: "hour-as-month", Apply: hourAsMonth},
	{Name: "recurring-between", Apply: recurringBetween},
	{Name: "holiday-range", Apply: holidayRange},
	{Name: "month-count", Apply: monthCount},
	{Name: "split-minute", Apply: splitMinute},
	{Name: "connector-range", Apply: connectorRange},
}

// Plain between fields and the side fields they become.
var (
	fromOf = map[token.Field]token.Field{
		token.Year: token.FromYear, token.Month: token.FromMonth, token.Day: token.FromDay,
		token.Hour: token.FromHour, token.Minute: token.FromMinute,
	}
	toOf = map[token.Field]token.Field{
		token.Year: token.ToYear, token.Month: token.ToMonth, token.Day: token.ToDay,
		token.Hour: token.ToHour, token.Minute: token.ToMinute,
	}
)

// twoSided reports whether a between token already carries both sides.
func twoSided(tok token.Token) bool {
	return tok.HasAny(token.FromYear, token.FromMonth, token.FromDay, token.FromHour, token.FromMinute) &&
		tok.HasAny(token.ToYear, token.ToMonth, token.ToDay, token.ToHour, token.ToMinute)
}

// fragment reports whether tok is a one-sided between fragment ("9点" of "9点到11点").
func fragment(tok token.Token) bool {
	return tok.Is(token.KindBetween) &&
		!tok.HasAny(token.FromYear, token.FromMonth, token.FromDay, token.FromHour, token.FromMinute,
			token.ToYear, token.ToMonth, token.ToDay, token.ToHour, token.ToMinute) &&
		tok.HasAny(token.Year, token.Month, token.Day, token.Hour, token.Minute)
}

// fuseFragments builds one two-sided between token from the fragments at i and j (j is
// i+1 or i+2 with a "到" between). n is the number of tokens used.
func (c *Context) fuseFragments(i int) (tok token.Token, n int, ok bool) {
	left, ok := c.at(i, token.KindBetween)
	if !ok {
		return token.Token{}, 0, false
	}
	if twoSided(left) {
		return left, 1, true
	}
	if !fragment(left) {
		return token.Token{}, 0, false
	}
	j := i + 1
	if _, ok := c.at(j, token.KindTo); ok {
		j++
	}
	right, ok := c.at(j, token.KindBetween)
	if !ok || !fragment(right) {
		return token.Token{}, 0, false
	}
	out := token.New(token.KindBetween, nil)
	for plain, side := range fromOf {
		if v := left.Get(plain); v != "" {
			out = out.With(side, v)
		}
	}
	for plain, side := range toOf {
		if v := right.Get(plain); v != "" {
			out = out.With(side, v)
		}
	}
	// A lone period word covers both sides; two different ones stay with their own hour.
	ln, rn := left.Get(token.Noon), right.Get(token.Noon)
	switch {
	case ln != "" && rn != "" && ln != rn:
		out = out.With(token.FromNoon, ln).With(token.ToNoon, rn)
	case ln != "":
		out = out.With(token.Noon, ln)
	case rn != "":
		out = out.With(token.Noon, rn)
	}
	return out, j - i + 1, true
}

// datedBetween resolves a between range under a date context: "周一 9点 到 11点",
// "明天 9点到11点". The context must resolve to a single day.
func datedBetween(c *Context, i int) (Outcome, bool) {
	ctx, ok := c.at(i, token.KindWeekday, token.KindRelative, token.KindUTC, token.KindHoliday, token.KindLunar, token.KindSpecial)
	if !ok {
		return Outcome{}, false
	}
	between, n, ok := c.fuseFragments(i + 1)
	if !ok || between.HasAny(token.FromYear, token.FromMonth, token.FromDay, token.ToYear, token.ToMonth, token.ToDay) {
		return Outcome{}, false
	}
	rs := c.resolve(ctx.Without(token.Hour, token.Minute, token.Second, token.Noon))
	if len(rs) != 1 {
		return Outcome{}, false
	}
	day, ok := dayOf(rs[0])
	if !ok {
		return Outcome{}, false
	}
	between = withDay(between, day)
	if noon := ctx.Get(token.Noon); noon != "" && !between.HasAny(token.Noon, token.FromNoon, token.ToNoon) {
		between = between.With(token.Noon, noon)
	}
	return matchedAll(n+1, c.resolve(between))
}

// betweenPair fuses two adjacent between fragments into one range.
func betweenPair(c *Context, i int) (Outcome, bool) {
	left, ok := c.at(i, token.KindBetween)
	if !ok || !fragment(left) {
		return Outcome{}, false
	}
	between, n, ok := c.fuseFragments(i)
	if !ok || n < 2 {
		return Outcome{}, false
	}
	return matchedAll(n, c.resolve(between))
}

// hourAsMonth repairs "3到5月" where the lexer read the bare 3 as an hour: a number or
// bare hour followed by "到" and a month is a month range.
func hourAsMonth(c *Context, i int) (Outcome, bool) {
	left, ok := c.at(i, token.KindNumber, token.KindUTC)
	if !ok {
		return Outcome{}, false
	}
	var from int
	switch {
	case left.Is(token.KindNumber):
		from, ok = left.Int(token.Value)
	case left.HasOnly(token.Hour):
		from, ok = left.Int(token.Hour)
	default:
		ok = false
	}
	if !ok || from < 1 || from > 12 {
		return Outcome{}, false
	}
	if _, ok := c.at(i+1, token.KindTo); !ok {
		return Outcome{}, false
	}
	month, ok := c.at(i+2, token.KindUTC)
	if !ok || !month.Has(token.Month) || !month.HasOnly(token.Month, token.Year) {
		return Outcome{}, false
	}
	between := token.New(token.KindBetween, token.Values{
		token.FromMonth: strconv.Itoa(from),
		token.ToMonth:   month.Get(token.Month),
	})
	if y := month.Get(token.Year); y != "" {
		between = between.With(token.Year, y)
	}
	return matchedAll(3, c.resolve(between))
}

// recurringBetween drops a between range attached to a periodic expression
// ("每天 9点到11点"): it names no concrete instant.
func recurringBetween(c *Context, i int) (Outcome, bool) {
	if _, ok := c.at(i, token.KindRecurring); !ok {
		return Outcome{}, false
	}
	_, n, ok := c.fuseFragments(i + 1)
	if !ok {
		return Outcome{}, false
	}
	return matched(n + 1)
}

// holidayRange resolves "圣诞节到元旦". A right festival falling before the left one
// moves to the next year.
func holidayRange(c *Context, i int) (Outcome, bool) {
	left, ok := c.at(i, token.KindHoliday)
	if !ok {
		return Outcome{}, false
	}
	if _, ok := c.at(i+1, token.KindTo); !ok {
		return Outcome{}, false
	}
	rightTok, ok := c.at(i+2, token.KindHoliday)
	if !ok {
		return Outcome{}, false
	}
	explicit := rightTok.HasAny(token.Year, token.OffsetYear)
	if !explicit {
		rightTok = rightTok.Inherit(left, token.Year, token.OffsetYear)
	}
	lr, ok := hull(c.resolve(left))
	if !ok {
		return matched(3)
	}
	rr, ok := hull(c.resolve(rightTok))
	if ok && !explicit && rr.End().Before(lr.Start()) {
		next := rightTok.WithInt(token.OffsetYear, rightTok.IntOr(token.OffsetYear, 0)+1)
		if y, has := rightTok.Int(token.Year); has {
			next = rightTok.WithInt(token.Year, y+1)
		}
		rr, ok = hull(c.resolve(next))
	}
	if !ok || rr.End().Before(lr.Start()) {
		return matched(3, lr)
	}
	return matched(3, calendar.Span(lr.Start(), rr.End()))
}

// monthCount suppresses "3到5个月", which the lexer splits into a month range plus a
// month duration: it is a length, not a time.
func monthCount(c *Context, i int) (Outcome, bool) {
	between, ok := c.at(i, token.KindBetween)
	if !ok || !between.Has(token.FromMonth) || !between.Has(token.ToMonth) {
		return Outcome{}, false
	}
	delta, ok := c.at(i+1, token.KindDelta)
	if !ok || !delta.Has(token.Month) {
		return Outcome{}, false
	}
	return matched(2)
}

// splitMinute repairs "10点到11点30" lexed as an hour range with a stray month digit
// followed by a day digit: the two digits are the end minute.
func splitMinute(c *Context, i int) (Outcome, bool) {
	between, ok := c.at(i, token.KindBetween)
	if !ok || !between.Has(token.FromHour) || !between.Has(token.ToHour) || !between.Has(token.Month) || between.Has(token.Day) {
		return Outcome{}, false
	}
	stray, ok := c.at(i+1, token.KindUTC)
	if !ok || !stray.Has(token.Day) || !stray.HasOnly(token.Day) {
		return Outcome{}, false
	}
	minute, err := strconv.Atoi(between.Get(token.Month) + stray.Get(token.Day))
	if err != nil || minute < 0 || minute > 59 {
		return Outcome{}, false
	}
	return matchedAll(2, c.resolve(between.Without(token.Month).WithInt(token.ToMinute, minute)))
}

// connectorRange resolves the generic "X 到 Y": Y takes the coarser fields of X unless
// Y is relative, and the range runs from the start of X to the end of Y. A clock range
// whose end precedes its start runs into the next day.
func connectorRange(c *Context, i int) (Outcome, bool) {
	x, ok := c.resolvable(i)
	if !ok || x.Is(token.KindRecurring) {
		return Outcome{}, false
	}
	if _, ok := c.at(i+1, token.KindTo); !ok {
		return Outcome{}, false
	}
	y, ok := c.resolvable(i + 2)
	if !ok || y.Is(token.KindRecurring) {
		return Outcome{}, false
	}
	y, inherited := inherit(x, y)

	xr, ok := hull(c.resolve(x))
	if !ok {
		return Outcome{}, false
	}
	yr, ok := hull(c.resolve(y))
	if !ok {
		return Outcome{}, false
	}
	if yr.End().Before(xr.Start()) {
		u, _ := coarsestClock(y)
		if !inherited || !u.SubDay() {
			return Outcome{}, false
		}
		yr = calendar.Span(yr.Start().AddDate(0, 0, 1), yr.End().AddDate(0, 0, 1))
	}
	return matched(3, calendar.Span(xr.Start(), yr.End()))
}
