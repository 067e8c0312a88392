package store

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/internal/profile"
)

// Store provides database access to the holiday table.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) UpsertHoliday(ctx context.Context, upsert *Holiday) (*Holiday, error) {
	return s.driver.UpsertHoliday(ctx, upsert)
}

func (s *Store) ListHolidays(ctx context.Context, find *FindHoliday) ([]*Holiday, error) {
	return s.driver.ListHolidays(ctx, find)
}

// ImportHolidays replaces the stored rows of every year present in f.
func (s *Store) ImportHolidays(ctx context.Context, f HolidayFile) error {
	for year := range f {
		if err := s.driver.DeleteHolidays(ctx, year); err != nil {
			return errors.Wrapf(err, "failed to clear holidays of %s", year)
		}
	}
	for _, row := range f.Rows() {
		if _, err := s.driver.UpsertHoliday(ctx, row); err != nil {
			return errors.Wrapf(err, "failed to import %s/%s", row.Year, row.Festival)
		}
	}
	return nil
}

// LoadHolidayTable reads every stored row into an immutable table. An empty database
// yields the built-in table.
func (s *Store) LoadHolidayTable(ctx context.Context) (*HolidayTable, error) {
	rows, err := s.driver.ListHolidays(ctx, &FindHoliday{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list holidays")
	}
	if len(rows) == 0 {
		slog.Warn("holiday table is empty, using built-in table", slog.String("driver", s.driver.Name()))
		return DefaultHolidayTable(), nil
	}
	return NewHolidayTable(rows)
}
