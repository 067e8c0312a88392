package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y00281951/fst-time-nlu-sub002/internal/profile"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu"
)

func TestResolveCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(`[{"type":"relative","offset_day":"1"}]`))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"resolve", "--base", "2024-03-15T10:00:00Z", "--log-level", "error"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	var resp timenlu.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "2024-03-15T10:00:00Z", resp.Base)
	assert.Equal(t, [][]string{{"2024-03-16T00:00:00Z", "2024-03-16T23:59:59Z"}}, resp.Results)
}

func TestLoadHolidays_FallsBack(t *testing.T) {
	p := profile.Default()
	p.HolidaySource = "file"
	p.HolidayFile = filepath.Join(t.TempDir(), "missing.yaml")

	table := loadHolidays(context.Background(), p)
	_, _, ok := table.Lookup(2024, "国庆")
	assert.True(t, ok, "built-in table is used")
}

func TestLoadHolidays_SQLite(t *testing.T) {
	p := profile.Default()
	p.Mode = "demo"
	p.HolidaySource = "sqlite"
	p.DSN = filepath.Join(t.TempDir(), "holidays.db")
	require.NoError(t, p.Validate())

	table, err := readHolidays(context.Background(), p)
	require.NoError(t, err)
	start, end, ok := table.Lookup(2025, "国庆")
	require.True(t, ok)
	assert.Equal(t, 10, int(start.Month()))
	assert.False(t, end.Before(start))
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, newLogger("debug", "json"))
	assert.NotNil(t, newLogger("nonsense", "text"))
}
