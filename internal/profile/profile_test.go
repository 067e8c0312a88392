package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProfileDefaults 测试默认配置
func TestProfileDefaults(t *testing.T) {
	p := Default()

	assert.Equal(t, "embedded", p.HolidaySource)
	assert.Equal(t, 30, p.RecurrenceCount("day"))
	assert.Equal(t, 52, p.RecurrenceCount("week"))
	assert.Equal(t, 36, p.RecurrenceCount("month"))
	assert.Equal(t, 12, p.RecurrenceCount("quarter"))
	assert.Equal(t, 10, p.RecurrenceCount("year"))
	assert.Equal(t, 24, p.RecurrenceCount("hour"))
	assert.Equal(t, 30, p.RecurrenceCount("interval"))
	assert.Equal(t, 0, p.RecurrenceCount("fortnight"))
}

// TestProfileFromEnv 测试从环境变量读取配置
func TestProfileFromEnv(t *testing.T) {
	t.Setenv("TIMENLU_PORT", "9000")
	t.Setenv("TIMENLU_HOLIDAY_SOURCE", "sqlite")
	t.Setenv("TIMENLU_DSN", "/tmp/holiday.db")
	t.Setenv("TIMENLU_RECURRENCE_WEEK", "10")
	t.Setenv("TIMENLU_RECURRENCE_DAY", "oops")
	t.Setenv("TIMENLU_RATE_LIMIT", "2.5")

	p := Default()
	p.FromEnv()

	assert.Equal(t, 9000, p.Port)
	assert.Equal(t, "sqlite", p.HolidaySource)
	assert.Equal(t, 10, p.RecurrenceCount("week"))
	assert.Equal(t, 30, p.RecurrenceCount("day"), "malformed values keep the default")
	assert.InDelta(t, 2.5, p.RateLimit, 1e-9)

	require.NoError(t, p.Validate())
	assert.Equal(t, "sqlite", p.Driver)
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr bool
	}{
		{"defaults", func(*Profile) {}, false},
		{"file without path", func(p *Profile) { p.HolidaySource = "file" }, true},
		{"file with path", func(p *Profile) { p.HolidaySource = "file"; p.HolidayFile = "holidays.yaml" }, false},
		{"postgres without dsn", func(p *Profile) { p.HolidaySource = "postgres" }, true},
		{"unknown source", func(p *Profile) { p.HolidaySource = "redis" }, true},
		{"unknown recurrence unit", func(p *Profile) { p.Recurrence["fortnight"] = 2 }, true},
		{"bad port", func(p *Profile) { p.Port = 70000 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProfileValidate_FixesNonPositiveCounts(t *testing.T) {
	p := Default()
	p.Recurrence["year"] = 0
	p.Mode = "weird"
	require.NoError(t, p.Validate())
	assert.Equal(t, 10, p.Recurrence["year"])
	assert.Equal(t, "demo", p.Mode)
}
