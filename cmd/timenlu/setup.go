package main

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/y00281951/fst-time-nlu-sub002/internal/profile"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/lunar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/resolver"
	"github.com/y00281951/fst-time-nlu-sub002/server/timezone"
	"github.com/y00281951/fst-time-nlu-sub002/store"
	"github.com/y00281951/fst-time-nlu-sub002/store/db"
)

// loadHolidays reads the configured holiday table. Any failure falls back to the
// built-in table.
func loadHolidays(ctx context.Context, p *profile.Profile) *store.HolidayTable {
	table, err := readHolidays(ctx, p)
	if err != nil {
		slog.Warn("failed to load holiday table, using built-in table",
			slog.String("source", p.HolidaySource),
			slog.String("error", err.Error()),
		)
		return store.DefaultHolidayTable()
	}
	return table
}

func readHolidays(ctx context.Context, p *profile.Profile) (*store.HolidayTable, error) {
	switch p.HolidaySource {
	case "file":
		return store.LoadHolidayFile(p.HolidayFile)
	case "sqlite", "postgres":
		s, err := openStore(ctx, p)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.LoadHolidayTable(ctx)
	default:
		return store.DefaultHolidayTable(), nil
	}
}

// openStore opens and migrates the holiday database.
func openStore(ctx context.Context, p *profile.Profile) (*store.Store, error) {
	driver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, err
	}
	s := store.New(driver, p)
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, errors.Wrap(err, "failed to migrate")
	}
	return s, nil
}

// newService wires the resolver registry and the service from the profile.
func newService(ctx context.Context, p *profile.Profile) (*timenlu.Service, error) {
	loc, err := timezone.ParseTimezone(viper.GetString("timezone"))
	if err != nil {
		return nil, err
	}
	holidays := loadHolidays(ctx, p)
	if first, last, ok := holidays.Years(); ok {
		slog.Debug("holiday table loaded", slog.Int("first_year", first), slog.Int("last_year", last))
	}

	registry := resolver.NewRegistry(resolver.Config{
		Lunar:      lunar.New(p.LunarCacheSize),
		Holidays:   holidays,
		Recurrence: p.Recurrence,
	})
	return timenlu.NewService(registry,
		timenlu.WithLogger(slog.Default()),
		timenlu.WithTimezone(loc),
		timenlu.WithConcurrency(p.BatchConcurrency),
	), nil
}
