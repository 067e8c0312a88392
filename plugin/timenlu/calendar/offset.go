package calendar

import (
	"math"
	"time"
)

// Unit is a calendar or clock unit.
type Unit int

const (
	UnitYear Unit = iota
	UnitQuarter
	UnitMonth
	UnitWeek
	UnitDay
	UnitHour
	UnitMinute
	UnitSecond
)

var unitNames = map[Unit]string{
	UnitYear:    "year",
	UnitQuarter: "quarter",
	UnitMonth:   "month",
	UnitWeek:    "week",
	UnitDay:     "day",
	UnitHour:    "hour",
	UnitMinute:  "minute",
	UnitSecond:  "second",
}

var unitAliases = map[string]Unit{
	"year": UnitYear, "years": UnitYear, "年": UnitYear,
	"quarter": UnitQuarter, "quarters": UnitQuarter, "季度": UnitQuarter, "季": UnitQuarter,
	"month": UnitMonth, "months": UnitMonth, "月": UnitMonth,
	"week": UnitWeek, "weeks": UnitWeek, "周": UnitWeek, "星期": UnitWeek, "礼拜": UnitWeek,
	"day": UnitDay, "days": UnitDay, "天": UnitDay, "日": UnitDay,
	"hour": UnitHour, "hours": UnitHour, "小时": UnitHour, "钟头": UnitHour,
	"minute": UnitMinute, "minutes": UnitMinute, "分钟": UnitMinute, "分": UnitMinute,
	"second": UnitSecond, "seconds": UnitSecond, "秒": UnitSecond, "秒钟": UnitSecond,
}

// ParseUnit maps a unit name (English or Chinese) to a Unit.
func ParseUnit(s string) (Unit, bool) {
	u, ok := unitAliases[s]
	return u, ok
}

func (u Unit) String() string {
	if s, ok := unitNames[u]; ok {
		return s
	}
	return "unknown"
}

// SubDay reports whether u is finer than a day.
func (u Unit) SubDay() bool {
	return u >= UnitHour
}

// offsetOrder is the application order of ApplyOffset: calendar units first, then clock
// units, quarter last.
var offsetOrder = []Unit{UnitYear, UnitMonth, UnitWeek, UnitDay, UnitHour, UnitMinute, UnitSecond, UnitQuarter}

// Offset maps units to unsigned or signed magnitudes.
type Offset map[Unit]int

// IsZero reports whether every magnitude is zero.
func (o Offset) IsZero() bool {
	for _, v := range o {
		if v != 0 {
			return false
		}
	}
	return true
}

// Finest returns the finest unit with a non-zero magnitude.
func (o Offset) Finest() (Unit, bool) {
	found := false
	var finest Unit
	for u, v := range o {
		if v == 0 {
			continue
		}
		if !found || u > finest {
			finest, found = u, true
		}
	}
	return finest, found
}

// Coarsest returns the coarsest unit with a non-zero magnitude.
func (o Offset) Coarsest() (Unit, bool) {
	found := false
	var coarsest Unit
	for u, v := range o {
		if v == 0 {
			continue
		}
		if !found || u < coarsest {
			coarsest, found = u, true
		}
	}
	return coarsest, found
}

// Add merges other into o.
func (o Offset) Add(other Offset) Offset {
	out := make(Offset, len(o)+len(other))
	for u, v := range o {
		out[u] += v
	}
	for u, v := range other {
		out[u] += v
	}
	return out
}

// ApplyOffset applies every unit of off to t, multiplied by dir (+1 future, -1 past), as
// sequential calendar arithmetic in the fixed order year, month, week, day, hour, minute,
// second, quarter.
func ApplyOffset(t time.Time, off Offset, dir int) time.Time {
	if dir == 0 {
		dir = 1
	}
	for _, u := range offsetOrder {
		v := off[u] * dir
		if v == 0 {
			continue
		}
		switch u {
		case UnitYear:
			t = AddMonths(t, 12*v)
		case UnitQuarter:
			t = AddMonths(t, 3*v)
		case UnitMonth:
			t = AddMonths(t, v)
		case UnitWeek:
			t = t.AddDate(0, 0, 7*v)
		case UnitDay:
			t = t.AddDate(0, 0, v)
		case UnitHour:
			t = t.Add(time.Duration(v) * time.Hour)
		case UnitMinute:
			t = t.Add(time.Duration(v) * time.Minute)
		case UnitSecond:
			t = t.Add(time.Duration(v) * time.Second)
		}
	}
	return t
}

// AddMonths adds n months, clamping the day to the last day of the target month.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	ty := y + floorDiv(total, 12)
	tm := time.Month(total - floorDiv(total, 12)*12 + 1)
	if last := DaysIn(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// finer returns the next finer unit and the conversion factor from u.
func finer(u Unit) (Unit, float64, bool) {
	switch u {
	case UnitYear:
		return UnitMonth, 12, true
	case UnitQuarter:
		return UnitMonth, 3, true
	case UnitMonth:
		return UnitDay, 30, true
	case UnitWeek:
		return UnitDay, 7, true
	case UnitDay:
		return UnitHour, 24, true
	case UnitHour:
		return UnitMinute, 60, true
	case UnitMinute:
		return UnitSecond, 60, true
	}
	return u, 0, false
}

// SplitFraction converts a possibly fractional magnitude of unit u into whole units:
// the integer part stays in u, the fractional remainder moves to the next finer unit
// (half a month is 15 days, half a day 12 hours), carried one level further.
func SplitFraction(u Unit, v float64) Offset {
	const eps = 1e-9
	off := Offset{}
	whole := math.Floor(v + eps)
	off[u] += int(whole)
	frac := v - whole
	for level := 0; level < 2 && frac > eps; level++ {
		next, factor, ok := finer(u)
		if !ok {
			break
		}
		x := frac * factor
		w := math.Floor(x + eps)
		off[next] += int(w)
		frac = x - w
		u = next
	}
	return off
}
