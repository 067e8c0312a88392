package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y00281951/fst-time-nlu-sub002/internal/profile"
	"github.com/y00281951/fst-time-nlu-sub002/store"
)

func newTestStore(t *testing.T, mode string) *store.Store {
	t.Helper()
	p := profile.Default()
	p.Mode = mode
	p.Driver = "sqlite"
	p.DSN = filepath.Join(t.TempDir(), "holiday.db")

	driver, err := NewDB(p)
	require.NoError(t, err)
	s := store.New(driver, p)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestHolidayRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "dev")

	require.NoError(t, s.ImportHolidays(ctx, store.HolidayFile{
		"2024": {
			"春节": {StartTime: "2024-02-10", EndTime: "2024-02-17"},
			"国庆": {StartTime: "2024-10-01", EndTime: "2024-10-07"},
		},
		store.NormalYear: {
			"劳动节": {StartTime: "05-01", EndTime: "05-05"},
		},
	}))

	year := "2024"
	rows, err := s.ListHolidays(ctx, &store.FindHoliday{Year: &year})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "国庆", rows[0].Festival)

	// Upsert overwrites the span.
	_, err = s.UpsertHoliday(ctx, &store.Holiday{Year: "2024", Festival: "国庆", StartTime: "2024-10-01", EndTime: "2024-10-08"})
	require.NoError(t, err)

	table, err := s.LoadHolidayTable(ctx)
	require.NoError(t, err)
	_, end, ok := table.Lookup(2024, "国庆")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 10, 8, 0, 0, 0, 0, time.UTC), end)

	start, _, ok := table.Lookup(2040, "劳动节")
	require.True(t, ok)
	assert.Equal(t, time.Date(2040, 5, 1, 0, 0, 0, 0, time.UTC), start)

	_, _, ok = table.Lookup(2024, "劳动节")
	assert.False(t, ok, "populated year does not use the template")
}

func TestHolidayEmptyDatabaseUsesBuiltin(t *testing.T) {
	s := newTestStore(t, "dev")

	table, err := s.LoadHolidayTable(context.Background())
	require.NoError(t, err)
	_, _, ok := table.Lookup(2025, "春节")
	assert.True(t, ok)
}

func TestHolidayDemoSeed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "demo")

	rows, err := s.ListHolidays(ctx, &store.FindHoliday{})
	require.NoError(t, err)
	assert.NotEmpty(t, rows)

	// Migrating again neither fails nor duplicates rows.
	require.NoError(t, s.Migrate(ctx))
	again, err := s.ListHolidays(ctx, &store.FindHoliday{})
	require.NoError(t, err)
	assert.Len(t, again, len(rows))
}
