package calendar

import (
	"github.com/pkg/errors"
)

var (
	// ErrYearOutOfRange is returned when a normalized year falls outside [1000, 2099].
	ErrYearOutOfRange = errors.New("year out of range")
	// ErrHourOutOfRange is returned for hours above 24.
	ErrHourOutOfRange = errors.New("hour out of range")
	// ErrInvalidDate is returned when fields do not name a real calendar day or clock time.
	ErrInvalidDate = errors.New("invalid date")
	// ErrSeasonOutOfRange is returned for season bounds outside 2000..2099.
	ErrSeasonOutOfRange = errors.New("season formula only covers 2000-2099")
)

// NormalizeYear expands two-digit years: y < 49 maps to 20yy, y < 100 to 19yy, anything
// else is kept. The result must lie in [1000, 2099].
func NormalizeYear(y int) (int, error) {
	switch {
	case y < 0:
		return 0, errors.Wrapf(ErrYearOutOfRange, "year %d", y)
	case y < 49:
		y += 2000
	case y < 100:
		y += 1900
	}
	if y < 1000 || y > 2099 {
		return 0, errors.Wrapf(ErrYearOutOfRange, "year %d", y)
	}
	return y, nil
}
