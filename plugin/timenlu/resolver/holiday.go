package resolver

import (
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/lunar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

type monthDay struct {
	month time.Month
	day   int
}

var solarFestivals = map[string]monthDay{
	"元旦":  {time.January, 1},
	"情人节": {time.February, 14},
	"妇女节": {time.March, 8},
	"植树节": {time.March, 12},
	"愚人节": {time.April, 1},
	"劳动节": {time.May, 1},
	"五一":  {time.May, 1},
	"青年节": {time.May, 4},
	"儿童节": {time.June, 1},
	"建党节": {time.July, 1},
	"建军节": {time.August, 1},
	"教师节": {time.September, 10},
	"国庆":  {time.October, 1},
	"国庆节": {time.October, 1},
	"万圣节": {time.October, 31},
	"光棍节": {time.November, 11},
	"平安夜": {time.December, 24},
	"圣诞":  {time.December, 25},
	"圣诞节": {time.December, 25},
}

var nthWeekdayFestivals = map[string]struct {
	month   time.Month
	n       int
	weekday int
}{
	"母亲节": {time.May, 2, 7},
	"父亲节": {time.June, 3, 7},
	"感恩节": {time.November, 4, 4},
}

// Lunar month/day of lunar festivals. 除夕 is the day before the next lunar new year
// and handled separately.
var lunarFestivals = map[string]monthDay{
	"春节":  {1, 1},
	"元宵":  {1, 15},
	"元宵节": {1, 15},
	"龙抬头": {2, 2},
	"端午":  {5, 5},
	"端午节": {5, 5},
	"七夕":  {7, 7},
	"七夕节": {7, 7},
	"中元":  {7, 15},
	"中元节": {7, 15},
	"中秋":  {8, 15},
	"中秋节": {8, 15},
	"重阳":  {9, 9},
	"重阳节": {9, 9},
	"腊八":  {12, 8},
	"腊八节": {12, 8},
	"小年":  {12, 23},
}

const newYearsEve = "除夕"

// Festivals named after a solar term.
var termFestivals = map[string]string{
	"清明节": "清明",
	"冬至节": "冬至",
}

// Statutory holiday table keys of festival aliases.
var statutoryNames = map[string]string{
	"国庆节": "国庆",
	"五一":  "劳动节",
	"端午节": "端午",
	"中秋节": "中秋",
	"清明节": "清明",
	"新年":  "元旦",
}

// IsFestival reports whether name is a festival the holiday resolver knows.
func IsFestival(name string) bool {
	if _, ok := solarFestivals[name]; ok {
		return true
	}
	if _, ok := nthWeekdayFestivals[name]; ok {
		return true
	}
	if _, ok := lunarFestivals[name]; ok {
		return true
	}
	if _, ok := termFestivals[name]; ok {
		return true
	}
	return name == newYearsEve || lunar.IsTerm(name)
}

// HolidayResolver resolves festival tokens through the fixed solar table, the
// nth-weekday table, the lunar calendar, the solar-term ephemeris, and, for
// statutory vacation spans, the holiday table.
type HolidayResolver struct {
	lunar    lunar.Converter
	holidays HolidayTable
}

func (r *HolidayResolver) Resolve(tok token.Token, base time.Time) []calendar.Result {
	return guard(tok, func() ([]calendar.Result, error) {
		return r.resolve(tok, reference(base))
	})
}

func (r *HolidayResolver) resolve(tok token.Token, base time.Time) ([]calendar.Result, error) {
	name := tok.Get(token.Festival)
	if name == "" {
		return nil, errors.Wrap(errUnsupported, "holiday without festival")
	}
	y, err := yearOf(tok, base)
	if err != nil {
		return nil, err
	}

	if tok.Flag(token.Vacation) {
		key := name
		if canonical, ok := statutoryNames[name]; ok {
			key = canonical
		}
		if start, end, ok := r.holidays.Lookup(y, key); ok {
			return one(calendar.Span(calendar.StartOfDay(start), calendar.EndOfDay(end))), nil
		}
	}

	day, err := r.Day(name, y)
	if err != nil {
		return nil, err
	}
	day = day.AddDate(0, 0, tok.IntOr(token.OffsetDay, 0))
	return oneOf(dayOrClock(tok, day))
}

// Day returns the day festival name falls on in year y. Lunar festivals use lunar year
// y.
func (r *HolidayResolver) Day(name string, y int) (time.Time, error) {
	if md, ok := solarFestivals[name]; ok {
		return time.Date(y, md.month, md.day, 0, 0, 0, 0, time.UTC), nil
	}
	if nw, ok := nthWeekdayFestivals[name]; ok {
		day, ok := calendar.NthWeekday(y, nw.month, nw.n, nw.weekday)
		if !ok {
			return time.Time{}, errors.Wrapf(errInvalid, "%s in %d", name, y)
		}
		return day, nil
	}
	if md, ok := lunarFestivals[name]; ok {
		return r.lunar.LunarToSolar(y, int(md.month), md.day, false)
	}
	if name == newYearsEve {
		next, err := r.lunar.LunarToSolar(y+1, 1, 1, false)
		if err != nil {
			return time.Time{}, err
		}
		return next.AddDate(0, 0, -1), nil
	}
	term := name
	if t, ok := termFestivals[name]; ok {
		term = t
	}
	if lunar.IsTerm(term) {
		return r.lunar.TermDate(term, y)
	}
	return time.Time{}, errors.Wrapf(errUnsupported, "unknown festival %q", name)
}
