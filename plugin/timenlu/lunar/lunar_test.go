package lunar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLunarToSolar(t *testing.T) {
	c := New(64)

	tests := []struct {
		name              string
		year, month, date int
		want              time.Time
	}{
		{"spring festival 2024", 2024, 1, 1, day(2024, 2, 10)},
		{"mid-autumn 2024", 2024, 8, 15, day(2024, 9, 17)},
		{"spring festival 2025", 2025, 1, 1, day(2025, 1, 29)},
		{"dragon boat 2024", 2024, 5, 5, day(2024, 6, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.LunarToSolar(tt.year, tt.month, tt.date, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLunarToSolar_Invalid(t *testing.T) {
	c := New(64)

	_, err := c.LunarToSolar(2024, 13, 1, false)
	assert.ErrorIs(t, err, ErrNoSuchDate)

	_, err = c.LunarToSolar(2024, 3, 1, true)
	assert.ErrorIs(t, err, ErrNoSuchDate, "2024 has no leap third month")

	_, err = c.LunarToSolar(1800, 1, 1, false)
	assert.ErrorIs(t, err, ErrNoSuchDate)
}

func TestLunarToSolar_LeapMonth(t *testing.T) {
	c := New(64)

	plain, err := c.LunarToSolar(2023, 2, 1, false)
	require.NoError(t, err)
	leap, err := c.LunarToSolar(2023, 2, 1, true)
	require.NoError(t, err, "2023 has a leap second month")
	assert.True(t, leap.After(plain))
}

func TestSolarToLunar(t *testing.T) {
	c := New(64)

	got, err := c.SolarToLunar(time.Date(2024, 9, 17, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: 8, Day: 15}, got)

	got, err = c.SolarToLunar(day(2024, 2, 9))
	require.NoError(t, err)
	assert.Equal(t, 2023, got.Year, "new year's eve belongs to the previous lunar year")
	assert.Equal(t, 12, got.Month)
}

func TestTermDate(t *testing.T) {
	c := New(64)

	got, err := c.TermDate("清明", 2024)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 4, 4), got)

	got, err = c.TermDate("冬至", 2024)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 12, 21), got)

	got, err = c.TermDate("小寒", 2024)
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.January, got.Month())

	_, err = c.TermDate("不是节气", 2024)
	assert.ErrorIs(t, err, ErrUnknownTerm)
}

func TestDaysInMonth(t *testing.T) {
	c := New(64)
	for m := 1; m <= 12; m++ {
		n, err := c.DaysInMonth(2024, m, false)
		require.NoError(t, err)
		assert.Contains(t, []int{29, 30}, n, "month %d", m)
	}
	// The twelfth month of 2023 ends the day before the 2024 spring festival.
	n, err := c.DaysInMonth(2023, 12, false)
	require.NoError(t, err)
	last, err := c.LunarToSolar(2023, 12, n, false)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 2, 9), last)
}
