// Package merge fuses adjacent tokens into single time results.
//
// The ContextMerger scans a token sequence left to right. At every position it asks six
// rule tiers in priority order; the first rule of the first tier that matches decides
// the results and how many tokens are consumed. A position no rule claims resolves its
// token on its own. There is no backtracking.
package merge

import (
	"log/slog"
	"time"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/resolver"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// Outcome is the product of one merge step.
type Outcome struct {
	Results  []calendar.Result
	Consumed int
}

// Rule is one merge rule. Apply reports false when the tokens at i do not match; a
// match consumes at least one token, with or without results.
type Rule struct {
	Name  string
	Apply func(c *Context, i int) (Outcome, bool)
}

// Tier is an ordered rule table.
type Tier struct {
	Name  string
	Rules []Rule
}

// Match runs the rules of t in order and returns the first match.
func (t Tier) Match(c *Context, i int) (Outcome, string, bool) {
	for _, r := range t.Rules {
		if out, ok := r.Apply(c, i); ok && out.Consumed > 0 {
			return out, r.Name, true
		}
	}
	return Outcome{}, "", false
}

// Context is the read-only input of one scan.
type Context struct {
	Tokens []token.Token
	Base   time.Time

	registry *resolver.Registry
}

// at returns the token at i when it is one of kinds (any kind when none are given).
func (c *Context) at(i int, kinds ...token.Kind) (token.Token, bool) {
	if i < 0 || i >= len(c.Tokens) {
		return token.Token{}, false
	}
	tok := c.Tokens[i]
	if len(kinds) > 0 && !tok.Is(kinds...) {
		return token.Token{}, false
	}
	return tok, true
}

// resolvable returns the token at i when it has a resolver of its own.
func (c *Context) resolvable(i int) (token.Token, bool) {
	tok, ok := c.at(i)
	if !ok || !c.registry.Resolvable(tok) {
		return token.Token{}, false
	}
	return tok, true
}

func (c *Context) resolve(tok token.Token) []calendar.Result {
	return c.registry.Resolve(tok, c.Base)
}

// ContextMerger is the greedy scanner over the rule tiers.
type ContextMerger struct {
	registry *resolver.Registry
	tiers    []Tier
}

// New returns a merger resolving through registry.
func New(registry *resolver.Registry) *ContextMerger {
	return &ContextMerger{
		registry: registry,
		tiers: []Tier{
			{Name: "qualifier", Rules: qualifierRules},
			{Name: "component", Rules: componentTier()},
			{Name: "interval", Rules: intervalRules},
			{Name: "elaboration", Rules: elaborationRules},
			{Name: "day-time", Rules: dayTimeRules},
			{Name: "continuation", Rules: continuationRules},
		},
	}
}

// TryMerge asks the tiers in order for a merge at position i.
func (m *ContextMerger) TryMerge(i int, toks []token.Token, base time.Time) (Outcome, bool) {
	c := &Context{Tokens: toks, Base: base.UTC().Truncate(time.Second), registry: m.registry}
	return m.try(c, i)
}

func (m *ContextMerger) try(c *Context, i int) (Outcome, bool) {
	for _, tier := range m.tiers {
		out, rule, ok := tier.Match(c, i)
		if !ok {
			continue
		}
		if i+out.Consumed > len(c.Tokens) {
			out.Consumed = len(c.Tokens) - i
		}
		out.Results = calendar.Filter(out.Results)
		slog.Debug("tokens merged",
			slog.Int("index", i),
			slog.String("tier", tier.Name),
			slog.String("rule", rule),
			slog.Int("consumed", out.Consumed),
		)
		return out, true
	}
	return Outcome{}, false
}

// Merge scans toks from the start and returns one outcome per step.
func (m *ContextMerger) Merge(toks []token.Token, base time.Time) []Outcome {
	c := &Context{Tokens: toks, Base: base.UTC().Truncate(time.Second), registry: m.registry}
	var steps []Outcome
	for i := 0; i < len(toks); {
		out, ok := m.try(c, i)
		if !ok {
			out = Outcome{Results: c.resolve(toks[i]), Consumed: 1}
		}
		steps = append(steps, out)
		i += out.Consumed
	}
	return steps
}

// Results flattens the results of steps.
func Results(steps []Outcome) []calendar.Result {
	var out []calendar.Result
	for _, s := range steps {
		out = append(out, s.Results...)
	}
	return out
}
