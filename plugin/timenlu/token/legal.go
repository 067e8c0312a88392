package token

import (
	"github.com/pkg/errors"
)

var legalFields = map[Kind][]Field{
	KindUTC:      {Year, Month, Day, Hour, Minute, Second, Noon, Week, WeekDay, Date, DayOfYear},
	KindSpecial:  {Year, OffsetYear, DayOfYear, Noon, Hour, Minute, Second},
	KindRelative: {OffsetYear, OffsetQuarter, OffsetMonth, OffsetWeek, OffsetDay, OffsetHour, OffsetMinute, OffsetSecond, Year, Month, Day, Hour, Minute, Second, Noon, WeekDay},
	KindDelta:    {Year, Quarter, Month, Week, Day, Hour, Minute, Second, Direction, Noon, Fractional},
	KindWeekday:  {WeekDay, OffsetWeek, Noon, Hour, Minute, Second, Weekend},
	KindHoliday:  {Festival, Year, OffsetYear, OffsetDay, Noon, Hour, Minute, Second, Vacation},
	KindLunar:    {Year, OffsetYear, Month, Day, Leap, SolarTerm, MonthPeriod, Noon, Hour, Minute, Second},
	KindPeriod:   {Unit, Offset, Fractional, Direction, MonthPeriod, YearHalf, Quarter, Season, Decade, Century, Fuzzy, Year, Month, OffsetYear, OffsetMonth},
	KindRange:    {Unit, Value, Direction, Idiom},
	KindBetween: {Year, Month, Day, Hour, Minute, Second, Noon,
		FromYear, FromMonth, FromDay, FromHour, FromMinute, FromNoon, ToYear, ToMonth, ToDay, ToHour, ToMinute, ToNoon},
	KindRecurring: {RecurringType, WeekDay, Day, Month, Hour, Minute, Second, Noon, Interval, Unit, Festival, Season},
	KindTo:        {Word},
	KindAnd:       {Word},
	KindBefore:    {Word},
	KindAfter:     {Word},
	KindPrefix:    {Word},
	KindModifier:  {Modifier, Word},
	KindNumber:    {Value},
}

var legalIndex = func() map[Kind]map[Field]bool {
	idx := make(map[Kind]map[Field]bool, len(legalFields))
	for k, fs := range legalFields {
		m := make(map[Field]bool, len(fs))
		for _, f := range fs {
			m[f] = true
		}
		idx[k] = m
	}
	return idx
}()

// integer-valued fields; everything else is free text.
var numericFields = map[Field]bool{
	Year: true, Month: true, Day: true, Hour: true, Minute: true, Second: true,
	Week: true, Quarter: true, DayOfYear: true,
	OffsetYear: true, OffsetQuarter: true, OffsetMonth: true, OffsetWeek: true,
	OffsetDay: true, OffsetHour: true, OffsetMinute: true, OffsetSecond: true,
	Direction: true, Offset: true, YearHalf: true, Decade: true, Century: true,
	Value: true, Interval: true,
	FromYear: true, FromMonth: true, FromDay: true, FromHour: true, FromMinute: true,
	ToYear: true, ToMonth: true, ToDay: true, ToHour: true, ToMinute: true,
}

// Known reports whether k is a kind the resolver understands.
func Known(k Kind) bool {
	_, ok := legalFields[k]
	return ok
}

// IsLegal reports whether kind k may carry field f.
func IsLegal(k Kind, f Field) bool {
	return legalIndex[k][f]
}

// Validate checks the discriminator, the field set and the integer syntax of numeric
// fields.
func Validate(t Token) error {
	if !Known(t.Kind) {
		return errors.Errorf("unknown token type %q", t.Kind)
	}
	for f, v := range t.fields {
		if !IsLegal(t.Kind, f) {
			return errors.Errorf("field %q is not valid for %s tokens", f, t.Kind)
		}
		if numericFields[f] {
			if _, ok := t.Int(f); !ok {
				return errors.Errorf("field %q of %s token is not an integer: %q", f, t.Kind, v)
			}
		}
	}
	return nil
}

// ValidateAll validates a token sequence, reporting the first offending index.
func ValidateAll(toks []Token) error {
	for i, t := range toks {
		if err := Validate(t); err != nil {
			return errors.Wrapf(err, "token %d", i)
		}
	}
	return nil
}
