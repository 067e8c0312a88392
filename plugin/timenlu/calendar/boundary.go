package calendar

import (
	"time"
)

// DaysIn returns the number of days in month m of year y.
func DaysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeap reports whether y is a Gregorian leap year.
func IsLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// ValidDate reports whether y-m-d names a real calendar day.
func ValidDate(y, m, d int) bool {
	if m < 1 || m > 12 || d < 1 {
		return false
	}
	return d <= DaysIn(y, time.Month(m))
}

// StartOfDay returns 00:00:00 of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59 of t's day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

// DayRange returns the bounds of t's day.
func DayRange(t time.Time) (time.Time, time.Time) {
	return StartOfDay(t), EndOfDay(t)
}

// ISOWeekday returns 1 for Monday through 7 for Sunday.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// WeekRange returns the bounds of the Monday-start week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	monday := StartOfDay(t).AddDate(0, 0, 1-ISOWeekday(t))
	return monday, EndOfDay(monday.AddDate(0, 0, 6))
}

// MonthRange returns the bounds of t's month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	return MonthRangeOf(t.Year(), t.Month())
}

// MonthRangeOf returns the bounds of month m in year y.
func MonthRangeOf(y int, m time.Month) (time.Time, time.Time) {
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, m, DaysIn(y, m), 23, 59, 59, 0, time.UTC)
	return start, end
}

// QuarterOf returns the 1-based quarter of t.
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// QuarterRange returns the bounds of t's quarter.
func QuarterRange(t time.Time) (time.Time, time.Time) {
	return QuarterRangeOf(t.Year(), QuarterOf(t))
}

// QuarterRangeOf returns the bounds of quarter q (1..4) of year y.
func QuarterRangeOf(y, q int) (time.Time, time.Time) {
	first := time.Month((q-1)*3 + 1)
	start, _ := MonthRangeOf(y, first)
	_, end := MonthRangeOf(y, first+2)
	return start, end
}

// YearRange returns the bounds of t's year.
func YearRange(t time.Time) (time.Time, time.Time) {
	return YearRangeOf(t.Year())
}

// YearRangeOf returns the bounds of year y.
func YearRangeOf(y int) (time.Time, time.Time) {
	return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(y, 12, 31, 23, 59, 59, 0, time.UTC)
}

// RangeOf returns the bounds of the unit containing t. Sub-day units return t itself.
func RangeOf(u Unit, t time.Time) (time.Time, time.Time) {
	switch u {
	case UnitYear:
		return YearRange(t)
	case UnitQuarter:
		return QuarterRange(t)
	case UnitMonth:
		return MonthRange(t)
	case UnitWeek:
		return WeekRange(t)
	case UnitDay:
		return DayRange(t)
	}
	t = t.Truncate(time.Second)
	return t, t
}

// MonthThird returns the early (1..10), mid (11..20) or late (21..end) span of a month.
// third is 1, 2 or 3.
func MonthThird(y int, m time.Month, third int) (time.Time, time.Time) {
	switch third {
	case 1:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), time.Date(y, m, 10, 23, 59, 59, 0, time.UTC)
	case 2:
		return time.Date(y, m, 11, 0, 0, 0, 0, time.UTC), time.Date(y, m, 20, 23, 59, 59, 0, time.UTC)
	default:
		_, end := MonthRangeOf(y, m)
		return time.Date(y, m, 21, 0, 0, 0, 0, time.UTC), end
	}
}

// NthWeekday returns the nth (1-based) ISO weekday wd of month m. A negative n counts
// from the end of the month. ok is false when the month has no such day.
func NthWeekday(y int, m time.Month, n, wd int) (time.Time, bool) {
	if n == 0 || wd < 1 || wd > 7 {
		return time.Time{}, false
	}
	if n > 0 {
		first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		shift := (wd - ISOWeekday(first) + 7) % 7
		day := first.AddDate(0, 0, shift+(n-1)*7)
		if day.Month() != m {
			return time.Time{}, false
		}
		return day, true
	}
	last := time.Date(y, m, DaysIn(y, m), 0, 0, 0, 0, time.UTC)
	shift := (ISOWeekday(last) - wd + 7) % 7
	day := last.AddDate(0, 0, -shift+(n+1)*7)
	if day.Month() != m {
		return time.Time{}, false
	}
	return day, true
}
