// Package lunar converts between the Chinese lunisolar calendar and the Gregorian
// calendar and looks up the 24 solar terms. It wraps github.com/6tail/lunar-go and
// memoises every conversion, so a single Calendar can be shared by concurrent resolvers.
package lunar

import (
	"fmt"
	"time"

	"github.com/6tail/lunar-go/calendar"
	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/cache"
)

var (
	// ErrNoSuchDate is returned when a lunar date does not exist in the requested year.
	ErrNoSuchDate = errors.New("lunar date does not exist")
	// ErrUnknownTerm is returned for names outside the 24 solar terms.
	ErrUnknownTerm = errors.New("unknown solar term")
)

// Supported conversion range of the underlying tables.
const (
	MinYear = 1901
	MaxYear = 2099
)

// Date is a lunar calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
	Leap  bool
}

// Converter is the lunar-solar collaborator consumed by the resolvers.
type Converter interface {
	// LunarToSolar returns the Gregorian day of a lunar date. leap selects the
	// intercalary month of that number.
	LunarToSolar(year, month, day int, leap bool) (time.Time, error)
	// SolarToLunar returns the lunar date of t's day.
	SolarToLunar(t time.Time) (Date, error)
	// TermDate returns the day of a solar term in Gregorian year.
	TermDate(name string, year int) (time.Time, error)
	// DaysInMonth returns the length (29 or 30) of a lunar month.
	DaysInMonth(year, month int, leap bool) (int, error)
}

// Terms lists the 24 solar terms in Gregorian-year order.
var Terms = []string{
	"小寒", "大寒", "立春", "雨水", "惊蛰", "春分",
	"清明", "谷雨", "立夏", "小满", "芒种", "夏至",
	"小暑", "大暑", "立秋", "处暑", "白露", "秋分",
	"寒露", "霜降", "立冬", "小雪", "大雪", "冬至",
}

var termSet = func() map[string]bool {
	m := make(map[string]bool, len(Terms))
	for _, t := range Terms {
		m[t] = true
	}
	return m
}()

// IsTerm reports whether name is one of the 24 solar terms.
func IsTerm(name string) bool {
	return termSet[name]
}

// Calendar is the lunar-go backed Converter.
type Calendar struct {
	solar *cache.LRU[string, time.Time]
	lunar *cache.LRU[string, Date]
	days  *cache.LRU[string, int]
}

var _ Converter = (*Calendar)(nil)

// New returns a Calendar whose caches hold up to capacity entries each.
func New(capacity int) *Calendar {
	return &Calendar{
		solar: cache.NewLRU[string, time.Time](capacity),
		lunar: cache.NewLRU[string, Date](capacity),
		days:  cache.NewLRU[string, int](capacity),
	}
}

// LunarToSolar implements Converter.
func (c *Calendar) LunarToSolar(year, month, day int, leap bool) (time.Time, error) {
	key := fmt.Sprintf("l2s:%d:%d:%d:%t", year, month, day, leap)
	return c.solar.GetOrCompute(key, func() (time.Time, error) {
		return lunarToSolar(year, month, day, leap)
	})
}

// SolarToLunar implements Converter.
func (c *Calendar) SolarToLunar(t time.Time) (Date, error) {
	y, m, d := t.Date()
	if y < MinYear || y > MaxYear {
		return Date{}, errors.Wrapf(ErrNoSuchDate, "solar year %d outside %d-%d", y, MinYear, MaxYear)
	}
	key := fmt.Sprintf("%04d-%02d-%02d", y, m, d)
	return c.lunar.GetOrCompute(key, func() (Date, error) {
		return solarToLunar(y, int(m), d)
	})
}

// TermDate implements Converter.
func (c *Calendar) TermDate(name string, year int) (time.Time, error) {
	if !IsTerm(name) {
		return time.Time{}, errors.Wrapf(ErrUnknownTerm, "%q", name)
	}
	key := fmt.Sprintf("term:%s:%d", name, year)
	return c.solar.GetOrCompute(key, func() (time.Time, error) {
		return termDate(name, year)
	})
}

// DaysInMonth implements Converter.
func (c *Calendar) DaysInMonth(year, month int, leap bool) (int, error) {
	key := fmt.Sprintf("%d:%d:%t", year, month, leap)
	return c.days.GetOrCompute(key, func() (int, error) {
		if _, err := lunarToSolar(year, month, 30, leap); err == nil {
			return 30, nil
		}
		if _, err := lunarToSolar(year, month, 29, leap); err != nil {
			return 0, err
		}
		return 29, nil
	})
}

// lunarToSolar converts through lunar-go. The library panics on dates it cannot build
// and silently rolls day 30 of a short month into the next month, so the result is
// converted back and compared.
func lunarToSolar(year, month, day int, leap bool) (t time.Time, err error) {
	if year < MinYear || year > MaxYear || month < 1 || month > 12 || day < 1 || day > 30 {
		return time.Time{}, errors.Wrapf(ErrNoSuchDate, "%d-%d-%d leap=%t", year, month, day, leap)
	}
	defer func() {
		if r := recover(); r != nil {
			t = time.Time{}
			err = errors.Wrapf(ErrNoSuchDate, "%d-%d-%d leap=%t: %v", year, month, day, leap, r)
		}
	}()

	lm := month
	if leap {
		lm = -month
	}
	s := calendar.NewLunarFromYmd(year, lm, day).GetSolar()
	back := s.GetLunar()
	if back.GetYear() != year || back.GetMonth() != lm || back.GetDay() != day {
		return time.Time{}, errors.Wrapf(ErrNoSuchDate, "%d-%d-%d leap=%t", year, month, day, leap)
	}
	return time.Date(s.GetYear(), time.Month(s.GetMonth()), s.GetDay(), 0, 0, 0, 0, time.UTC), nil
}

func solarToLunar(y, m, d int) (out Date, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = Date{}
			err = errors.Wrapf(ErrNoSuchDate, "solar %04d-%02d-%02d: %v", y, m, d, r)
		}
	}()

	l := calendar.NewSolarFromYmd(y, m, d).GetLunar()
	lm := l.GetMonth()
	out = Date{Year: l.GetYear(), Month: lm, Day: l.GetDay()}
	if lm < 0 {
		out.Month, out.Leap = -lm, true
	}
	return out, nil
}

// termDate reads the term table of the lunar year that overlaps most of the Gregorian
// year. That table starts at the previous December, so the December 冬至 of year lives
// under the library's "DONG_ZHI" key.
func termDate(name string, year int) (t time.Time, err error) {
	if year < MinYear || year > MaxYear {
		return time.Time{}, errors.Wrapf(ErrNoSuchDate, "term %s in %d", name, year)
	}
	defer func() {
		if r := recover(); r != nil {
			t = time.Time{}
			err = errors.Wrapf(ErrNoSuchDate, "term %s in %d: %v", name, year, r)
		}
	}()

	key := name
	if name == "冬至" {
		key = "DONG_ZHI"
	}
	table := calendar.NewLunarFromYmd(year, 6, 1).GetJieQiTable()
	s, ok := table[key]
	if !ok || s == nil {
		return time.Time{}, errors.Wrapf(ErrUnknownTerm, "%q in %d", name, year)
	}
	return time.Date(s.GetYear(), time.Month(s.GetMonth()), s.GetDay(), 0, 0, 0, 0, time.UTC), nil
}
