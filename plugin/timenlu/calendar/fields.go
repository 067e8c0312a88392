package calendar

import (
	"time"

	"github.com/pkg/errors"
)

// Fields is a set of explicit clock fields (year through second). Unset fields keep
// the value of the instant they are applied to.
type Fields struct {
	vals [6]int
	set  [6]bool
}

func fieldIndex(u Unit) (int, bool) {
	switch u {
	case UnitYear:
		return 0, true
	case UnitMonth:
		return 1, true
	case UnitDay:
		return 2, true
	case UnitHour:
		return 3, true
	case UnitMinute:
		return 4, true
	case UnitSecond:
		return 5, true
	}
	return 0, false
}

var fieldUnits = [6]Unit{UnitYear, UnitMonth, UnitDay, UnitHour, UnitMinute, UnitSecond}

// Set stores v for u. Week and quarter are not clock fields and are ignored.
func (f *Fields) Set(u Unit, v int) {
	if i, ok := fieldIndex(u); ok {
		f.vals[i] = v
		f.set[i] = true
	}
}

// Unset clears u.
func (f *Fields) Unset(u Unit) {
	if i, ok := fieldIndex(u); ok {
		f.vals[i] = 0
		f.set[i] = false
	}
}

// Get returns the value of u and whether it is set.
func (f Fields) Get(u Unit) (int, bool) {
	i, ok := fieldIndex(u)
	if !ok || !f.set[i] {
		return 0, false
	}
	return f.vals[i], true
}

// Has reports whether u is set.
func (f Fields) Has(u Unit) bool {
	_, ok := f.Get(u)
	return ok
}

// Empty reports whether no field is set.
func (f Fields) Empty() bool {
	for _, s := range f.set {
		if s {
			return false
		}
	}
	return true
}

// HasTime reports whether any of hour, minute or second is set.
func (f Fields) HasTime() bool {
	return f.Has(UnitHour) || f.Has(UnitMinute) || f.Has(UnitSecond)
}

// Finest returns the finest set unit.
func (f Fields) Finest() (Unit, bool) {
	for i := len(fieldUnits) - 1; i >= 0; i-- {
		if f.set[i] {
			return fieldUnits[i], true
		}
	}
	return 0, false
}

// Coarsest returns the coarsest set unit.
func (f Fields) Coarsest() (Unit, bool) {
	for i := range fieldUnits {
		if f.set[i] {
			return fieldUnits[i], true
		}
	}
	return 0, false
}

type setOrder [3]Unit

var (
	monthThenDay = setOrder{UnitYear, UnitMonth, UnitDay}
	dayThenMonth = setOrder{UnitDay, UnitMonth, UnitYear}
)

// SetFields overwrites the set fields of t. The date part is applied month-then-day
// first; if an intermediate date is invalid (day 31 landing on a 30-day month before the
// day override) it is retried day-then-month. Hour 24 is legal and becomes 00 of the
// following day; hours above 24 fail with ErrHourOutOfRange.
func SetFields(t time.Time, f Fields) (time.Time, error) {
	rollover := false
	if h, ok := f.Get(UnitHour); ok {
		switch {
		case h < 0 || h > 24:
			return time.Time{}, errors.Wrapf(ErrHourOutOfRange, "hour %d", h)
		case h == 24:
			rollover = true
			f.Set(UnitHour, 0)
		}
	}
	if m, ok := f.Get(UnitMinute); ok && (m < 0 || m > 59) {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "minute %d", m)
	}
	if s, ok := f.Get(UnitSecond); ok && (s < 0 || s > 59) {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "second %d", s)
	}

	out, err := trySet(t, f, monthThenDay)
	if err != nil {
		out, err = trySet(t, f, dayThenMonth)
		if err != nil {
			return time.Time{}, err
		}
	}
	if rollover {
		out = out.AddDate(0, 0, 1)
	}
	return out, nil
}

func trySet(t time.Time, f Fields, order setOrder) (time.Time, error) {
	y, mo, d := t.Date()
	m := int(mo)
	for _, u := range order {
		v, ok := f.Get(u)
		if !ok {
			continue
		}
		switch u {
		case UnitYear:
			y = v
		case UnitMonth:
			m = v
		case UnitDay:
			d = v
		}
		if !ValidDate(y, m, d) {
			return time.Time{}, errors.Wrapf(ErrInvalidDate, "%04d-%02d-%02d", y, m, d)
		}
	}
	h, mi, s := t.Clock()
	if v, ok := f.Get(UnitHour); ok {
		h = v
	}
	if v, ok := f.Get(UnitMinute); ok {
		mi = v
	}
	if v, ok := f.Get(UnitSecond); ok {
		s = v
	}
	return time.Date(y, time.Month(m), d, h, mi, s, 0, time.UTC), nil
}

// Floor zeroes every clock field finer than u (day start for UnitDay, minute start for
// UnitMinute and so on).
func Floor(t time.Time, u Unit) time.Time {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	switch u {
	case UnitYear:
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	case UnitQuarter:
		start, _ := QuarterRange(t)
		return start
	case UnitMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case UnitWeek:
		start, _ := WeekRange(t)
		return start
	case UnitDay:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case UnitHour:
		return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
	case UnitMinute:
		return time.Date(y, m, d, h, mi, 0, 0, time.UTC)
	}
	return time.Date(y, m, d, h, mi, s, 0, time.UTC)
}
