// Package token defines the typed semantic tokens emitted by the upstream time lexer.
//
// A token is a discriminator (Kind) plus a set of optional string fields. Which fields a
// kind may carry is fixed by the legal-field table in legal.go, so a decoded token never
// holds a combination its resolver does not understand.
package token

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Kind is the token discriminator, serialized as the "type" field.
type Kind string

const (
	KindUTC       Kind = "utc"
	KindSpecial   Kind = "special"
	KindRelative  Kind = "relative"
	KindDelta     Kind = "delta"
	KindWeekday   Kind = "weekday"
	KindHoliday   Kind = "holiday"
	KindLunar     Kind = "lunar"
	KindPeriod    Kind = "period"
	KindRange     Kind = "range"
	KindBetween   Kind = "between"
	KindRecurring Kind = "recurring"

	// Connectors and markers. They never resolve on their own.
	KindTo       Kind = "to"
	KindAnd      Kind = "and"
	KindBefore   Kind = "before"
	KindAfter    Kind = "after"
	KindPrefix   Kind = "prefix"
	KindModifier Kind = "modifier"
	KindNumber   Kind = "number"
)

// Field is an optional token field key.
type Field string

const (
	Year   Field = "year"
	Month  Field = "month"
	Day    Field = "day"
	Hour   Field = "hour"
	Minute Field = "minute"
	Second Field = "second"

	Noon      Field = "noon"
	Week      Field = "week"
	WeekDay   Field = "week_day"
	Weekend   Field = "weekend"
	Quarter   Field = "quarter"
	Date      Field = "date"
	DayOfYear Field = "day_of_year"

	OffsetYear    Field = "offset_year"
	OffsetQuarter Field = "offset_quarter"
	OffsetMonth   Field = "offset_month"
	OffsetWeek    Field = "offset_week"
	OffsetDay     Field = "offset_day"
	OffsetHour    Field = "offset_hour"
	OffsetMinute  Field = "offset_minute"
	OffsetSecond  Field = "offset_second"

	Direction  Field = "direction"
	Fractional Field = "fractional"

	Festival Field = "festival"
	Vacation Field = "vacation"

	Leap        Field = "leap"
	SolarTerm   Field = "solar_term"
	MonthPeriod Field = "month_period"

	Unit     Field = "unit"
	Offset   Field = "offset"
	YearHalf Field = "year_half"
	Season   Field = "season"
	Decade   Field = "decade"
	Century  Field = "century"
	Fuzzy    Field = "fuzzy"

	Value Field = "value"
	Idiom Field = "idiom"

	FromYear   Field = "from_year"
	FromMonth  Field = "from_month"
	FromDay    Field = "from_day"
	FromHour   Field = "from_hour"
	FromMinute Field = "from_minute"
	FromNoon   Field = "from_noon"
	ToYear     Field = "to_year"
	ToMonth    Field = "to_month"
	ToDay      Field = "to_day"
	ToHour     Field = "to_hour"
	ToMinute   Field = "to_minute"
	ToNoon     Field = "to_noon"

	RecurringType Field = "recurring_type"
	Interval      Field = "interval"

	Word     Field = "word"
	Modifier Field = "modifier"
)

// Commonly grouped fields.
var (
	DateFields   = []Field{Year, Month, Day}
	TimeFields   = []Field{Hour, Minute, Second}
	ClockFields  = []Field{Year, Month, Day, Hour, Minute, Second}
	OffsetFields = []Field{OffsetYear, OffsetQuarter, OffsetMonth, OffsetWeek, OffsetDay, OffsetHour, OffsetMinute, OffsetSecond}
)

// Values is a literal field set used to construct tokens.
type Values map[Field]string

// Token is a typed, immutable field record. The zero value is an invalid token.
type Token struct {
	Kind   Kind
	fields map[Field]string
}

// New returns a token of the given kind holding a copy of vals.
func New(kind Kind, vals Values) Token {
	t := Token{Kind: kind, fields: make(map[Field]string, len(vals))}
	for k, v := range vals {
		t.fields[k] = v
	}
	return t
}

// Is reports whether the token is one of kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// Has reports whether f is present.
func (t Token) Has(f Field) bool {
	_, ok := t.fields[f]
	return ok
}

// HasAny reports whether any of fs is present.
func (t Token) HasAny(fs ...Field) bool {
	for _, f := range fs {
		if t.Has(f) {
			return true
		}
	}
	return false
}

// HasOnly reports whether every present field is one of fs and at least one is present.
func (t Token) HasOnly(fs ...Field) bool {
	if len(t.fields) == 0 {
		return false
	}
	allowed := make(map[Field]bool, len(fs))
	for _, f := range fs {
		allowed[f] = true
	}
	for f := range t.fields {
		if !allowed[f] {
			return false
		}
	}
	return true
}

// Get returns the raw value of f, or "" when absent.
func (t Token) Get(f Field) string {
	return t.fields[f]
}

// Int parses f as a decimal integer. Full-width digits are accepted.
func (t Token) Int(f Field) (int, bool) {
	v, ok := t.fields[f]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(normalizeNumeral(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// IntOr returns the integer value of f, or def when it is absent or malformed.
func (t Token) IntOr(f Field, def int) int {
	if n, ok := t.Int(f); ok {
		return n
	}
	return def
}

// Float parses f as a decimal number.
func (t Token) Float(f Field) (float64, bool) {
	v, ok := t.fields[f]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(normalizeNumeral(v), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Ints parses f as a comma separated integer list ("6,7").
func (t Token) Ints(f Field) ([]int, bool) {
	v, ok := t.fields[f]
	if !ok {
		return nil, false
	}
	parts := strings.FieldsFunc(normalizeNumeral(v), func(r rune) bool {
		return r == ',' || r == '、' || r == ' '
	})
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, len(out) > 0
}

// Flag reports whether f is present and set to "1" or "true".
func (t Token) Flag(f Field) bool {
	v := t.fields[f]
	return v == "1" || v == "true"
}

// With returns a copy of t with f set to v.
func (t Token) With(f Field, v string) Token {
	out := t.clone()
	out.fields[f] = v
	return out
}

// WithInt returns a copy of t with f set to n.
func (t Token) WithInt(f Field, n int) Token {
	return t.With(f, strconv.Itoa(n))
}

// Without returns a copy of t with fs removed.
func (t Token) Without(fs ...Field) Token {
	out := t.clone()
	for _, f := range fs {
		delete(out.fields, f)
	}
	return out
}

// Retype returns a copy of t as kind k, keeping only the fields legal for k.
func (t Token) Retype(k Kind) Token {
	out := Token{Kind: k, fields: make(map[Field]string, len(t.fields))}
	for f, v := range t.fields {
		if IsLegal(k, f) {
			out.fields[f] = v
		}
	}
	return out
}

// Inherit returns a copy of t in which every field of fs that t lacks and src has is
// copied from src.
func (t Token) Inherit(src Token, fs ...Field) Token {
	out := t.clone()
	for _, f := range fs {
		if _, ok := out.fields[f]; ok {
			continue
		}
		if v, ok := src.fields[f]; ok {
			out.fields[f] = v
		}
	}
	return out
}

// Fields returns the present field keys in sorted order.
func (t Token) Fields() []Field {
	out := make([]Field, 0, len(t.fields))
	for f := range t.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of present fields.
func (t Token) Len() int {
	return len(t.fields)
}

// String renders the token for logs.
func (t Token) String() string {
	var b strings.Builder
	b.WriteString(string(t.Kind))
	b.WriteByte('{')
	for i, f := range t.Fields() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s:%s", f, t.fields[f])
	}
	b.WriteByte('}')
	return b.String()
}

func (t Token) clone() Token {
	out := Token{Kind: t.Kind, fields: make(map[Field]string, len(t.fields)+1)}
	for k, v := range t.fields {
		out.fields[k] = v
	}
	return out
}

// normalizeNumeral folds full-width digits and signs to ASCII and trims spaces.
func normalizeNumeral(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}
