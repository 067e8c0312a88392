package calendar

import (
	"time"

	"github.com/pkg/errors"
)

// Season is one of the four astronomical seasons.
type Season int

const (
	Spring Season = iota + 1
	Summer
	Autumn
	Winter
)

var seasonNames = map[string]Season{
	"spring": Spring, "春": Spring, "春天": Spring, "春季": Spring,
	"summer": Summer, "夏": Summer, "夏天": Summer, "夏季": Summer,
	"autumn": Autumn, "fall": Autumn, "秋": Autumn, "秋天": Autumn, "秋季": Autumn,
	"winter": Winter, "冬": Winter, "冬天": Winter, "冬季": Winter,
}

// ParseSeason maps a season name to a Season.
func ParseSeason(s string) (Season, bool) {
	v, ok := seasonNames[s]
	return v, ok
}

// 21st-century C constants of the equinox/solstice approximation, indexed by the season
// that term opens.
var seasonTerms = map[Season]struct {
	month time.Month
	c     float64
}{
	Spring: {time.March, 20.646},
	Summer: {time.June, 21.37},
	Autumn: {time.September, 23.042},
	Winter: {time.December, 21.94},
}

// SeasonStart returns the equinox or solstice opening season s in year y using
// floor(Y*0.2422 + C) - floor(Y/4) with Y = y mod 100, valid for 2000..2099.
func SeasonStart(y int, s Season) (time.Time, error) {
	if y < 2000 || y > 2099 {
		return time.Time{}, errors.Wrapf(ErrSeasonOutOfRange, "year %d", y)
	}
	term, ok := seasonTerms[s]
	if !ok {
		return time.Time{}, errors.Errorf("unknown season %d", s)
	}
	yy := y % 100
	day := int(float64(yy)*0.2422+term.c) - yy/4
	return time.Date(y, term.month, day, 0, 0, 0, 0, time.UTC), nil
}

// SeasonRange returns the bounds of season s of year y. Winter runs into the next year.
func SeasonRange(y int, s Season) (time.Time, time.Time, error) {
	start, err := SeasonStart(y, s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	nextYear, next := y, s+1
	if s == Winter {
		nextYear, next = y+1, Spring
	}
	nextStart, err := SeasonStart(nextYear, next)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, EndOfDay(nextStart.AddDate(0, 0, -1)), nil
}

// SeasonOf returns the season containing t and the year it is attributed to (January
// and early March belong to the previous year's winter).
func SeasonOf(t time.Time) (Season, int, error) {
	y := t.Year()
	for _, s := range []Season{Winter, Autumn, Summer, Spring} {
		start, err := SeasonStart(y, s)
		if err != nil {
			return 0, 0, err
		}
		if !t.Before(start) {
			return s, y, nil
		}
	}
	return Winter, y - 1, nil
}
