package merge

import (
	"time"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// pastFloor opens "X以前" when X is not in the future.
var pastFloor = time.Date(calendar.MinYear, 1, 1, 0, 0, 0, 0, time.UTC)

// Tier 0: before/after qualifiers.
var qualifierRules = []Rule{
	{Name: "prefix", Apply: stripPrefix},
	{Name: "delta-direction", Apply: deltaDirection},
	{Name: "before", Apply: beforeMarker},
	{Name: "after", Apply: afterMarker},
}

// stripPrefix drops a leading qualifier ("在", "于") so the expression after it
// resolves on its own.
func stripPrefix(c *Context, i int) (Outcome, bool) {
	if _, ok := c.at(i, token.KindPrefix); !ok {
		return Outcome{}, false
	}
	if _, ok := c.at(i + 1); !ok {
		return Outcome{}, false
	}
	return matched(1)
}

// deltaDirection turns "3天" + "之前/之后" into a directed delta.
func deltaDirection(c *Context, i int) (Outcome, bool) {
	delta, ok := c.at(i, token.KindDelta)
	if !ok || delta.Has(token.Direction) {
		return Outcome{}, false
	}
	marker, ok := c.at(i+1, token.KindBefore, token.KindAfter)
	if !ok {
		return Outcome{}, false
	}
	dir := 1
	if marker.Is(token.KindBefore) {
		dir = -1
	}
	return matchedAll(2, c.resolve(delta.WithInt(token.Direction, dir)))
}

// beforeMarker resolves "X之前". A future X gives the interval from the base up to X; a
// past or current X gives everything up to X.
func beforeMarker(c *Context, i int) (Outcome, bool) {
	x, ok := c.at(i, anchorKinds...)
	if !ok {
		return Outcome{}, false
	}
	if _, ok := c.at(i+1, token.KindBefore); !ok {
		return Outcome{}, false
	}
	r, ok := hull(c.resolve(x))
	if !ok {
		return matched(2)
	}
	if r.Start().After(c.Base) {
		return matched(2, calendar.Span(c.Base, r.Start()))
	}
	return matched(2, calendar.Span(pastFloor, r.Start()))
}

// afterMarker resolves "X之后" to the interval from the start of X on.
func afterMarker(c *Context, i int) (Outcome, bool) {
	x, ok := c.at(i, anchorKinds...)
	if !ok {
		return Outcome{}, false
	}
	if _, ok := c.at(i+1, token.KindAfter); !ok {
		return Outcome{}, false
	}
	r, ok := hull(c.resolve(x))
	if !ok {
		return matched(2)
	}
	return matched(2, calendar.Span(r.Start(), calendar.FarFuture))
}
