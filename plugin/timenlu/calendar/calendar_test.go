package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, h, mi, s int) time.Time {
	return time.Date(y, m, d, h, mi, s, 0, time.UTC)
}

func TestNormalizeYear(t *testing.T) {
	tests := []struct {
		in      int
		want    int
		wantErr bool
	}{
		{0, 2000, false},
		{48, 2048, false},
		{49, 1949, false},
		{99, 1999, false},
		{2023, 2023, false},
		{999, 0, true},
		{2100, 0, true},
		{-1, 0, true},
	}
	for _, tt := range tests {
		got, err := NormalizeYear(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrYearOutOfRange, "NormalizeYear(%d)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "NormalizeYear(%d)", tt.in)
	}
}

func TestMonthRange_LeapYear(t *testing.T) {
	_, end := MonthRangeOf(2024, time.February)
	assert.Equal(t, 29, end.Day())
	_, end = MonthRangeOf(2023, time.February)
	assert.Equal(t, 28, end.Day())
}

func TestBoundaries_Idempotent(t *testing.T) {
	base := date(2024, 3, 15, 10, 0, 0)

	start, end := MonthRange(base)
	assert.Equal(t, date(2024, 3, 1, 0, 0, 0), start)
	assert.Equal(t, date(2024, 3, 31, 23, 59, 59), end)

	s2, e2 := MonthRange(start)
	assert.Equal(t, start, s2)
	assert.Equal(t, end, e2)
	s3, e3 := MonthRange(end)
	assert.Equal(t, start, s3)
	assert.Equal(t, end, e3)

	ws, we := WeekRange(base)
	assert.Equal(t, date(2024, 3, 11, 0, 0, 0), ws, "2024-03-15 is a Friday")
	assert.Equal(t, date(2024, 3, 17, 23, 59, 59), we)

	qs, qe := QuarterRange(base)
	assert.Equal(t, date(2024, 1, 1, 0, 0, 0), qs)
	assert.Equal(t, date(2024, 3, 31, 23, 59, 59), qe)

	ys, ye := YearRange(base)
	assert.Equal(t, date(2024, 1, 1, 0, 0, 0), ys)
	assert.Equal(t, date(2024, 12, 31, 23, 59, 59), ye)
}

func TestWeekRange_Sunday(t *testing.T) {
	start, end := WeekRange(date(2024, 3, 17, 8, 0, 0))
	assert.Equal(t, date(2024, 3, 11, 0, 0, 0), start)
	assert.Equal(t, date(2024, 3, 17, 23, 59, 59), end)
}

func TestApplyOffset(t *testing.T) {
	base := date(2024, 3, 15, 10, 0, 0)

	got := ApplyOffset(base, Offset{UnitYear: 1, UnitMonth: 3}, -1)
	assert.Equal(t, date(2022, 12, 15, 10, 0, 0), got)

	got = ApplyOffset(date(2024, 1, 31, 0, 0, 0), Offset{UnitMonth: 1}, 1)
	assert.Equal(t, date(2024, 2, 29, 0, 0, 0), got, "month arithmetic clamps to the month end")

	got = ApplyOffset(date(2024, 2, 29, 0, 0, 0), Offset{UnitYear: 1}, 1)
	assert.Equal(t, date(2025, 2, 28, 0, 0, 0), got)

	got = ApplyOffset(base, Offset{UnitQuarter: 1, UnitDay: 2, UnitHour: 3}, 1)
	assert.Equal(t, date(2024, 6, 17, 13, 0, 0), got)
}

func TestSplitFraction(t *testing.T) {
	assert.Equal(t, Offset{UnitMonth: 2, UnitDay: 15}, SplitFraction(UnitMonth, 2.5))
	assert.Equal(t, Offset{UnitDay: 0, UnitHour: 12}, SplitFraction(UnitDay, 0.5))
	assert.Equal(t, Offset{UnitWeek: 1, UnitDay: 3, UnitHour: 12}, SplitFraction(UnitWeek, 1.5))
	assert.Equal(t, Offset{UnitYear: 3}, SplitFraction(UnitYear, 3))
}

func TestSetFields(t *testing.T) {
	var f Fields
	f.Set(UnitMonth, 4)
	f.Set(UnitDay, 30)
	got, err := SetFields(date(2024, 3, 31, 10, 0, 0), f)
	require.NoError(t, err, "month-then-day fails on April 31, day-then-month succeeds")
	assert.Equal(t, date(2024, 4, 30, 10, 0, 0), got)

	var bad Fields
	bad.Set(UnitMonth, 2)
	bad.Set(UnitDay, 30)
	_, err = SetFields(date(2024, 3, 1, 0, 0, 0), bad)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSetFields_Hour24(t *testing.T) {
	var f Fields
	f.Set(UnitYear, 2024)
	f.Set(UnitMonth, 12)
	f.Set(UnitDay, 31)
	f.Set(UnitHour, 24)
	f.Set(UnitMinute, 0)
	f.Set(UnitSecond, 0)
	got, err := SetFields(date(2024, 3, 15, 10, 0, 0), f)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 1, 0, 0, 0), got)

	var over Fields
	over.Set(UnitHour, 25)
	_, err = SetFields(date(2024, 3, 15, 10, 0, 0), over)
	assert.ErrorIs(t, err, ErrHourOutOfRange)
}

func TestApplyPeriodHour(t *testing.T) {
	tests := []struct {
		word     string
		hour     int
		wantHour int
		wantDay  int
	}{
		{"下午", 3, 15, 0},
		{"下午", 15, 15, 0},
		{"晚上", 12, 0, 1},
		{"上午", 9, 9, 0},
		{"中午", 1, 13, 0},
		{"中午", 12, 12, 0},
		{"深夜", 11, 23, 0},
		{"深夜", 2, 2, 0},
		{"凌晨", 12, 0, 0},
		{"不存在", 7, 7, 0},
		{"下午", 0, 12, 0},
		{"下午", 24, 0, 1},
		{"晚上", 30, 30, 0},
		{"凌晨", 25, 25, 0},
	}
	for _, tt := range tests {
		h, d := ApplyPeriodHour(tt.word, tt.hour)
		assert.Equal(t, tt.wantHour, h, "%s%d点", tt.word, tt.hour)
		assert.Equal(t, tt.wantDay, d, "%s%d点", tt.word, tt.hour)
	}
}

func TestPeriodWord_Result(t *testing.T) {
	day := date(2024, 3, 15, 10, 0, 0)

	p, ok := LookupPeriod("下午")
	require.True(t, ok)
	assert.Equal(t, Result{date(2024, 3, 15, 13, 0, 0), date(2024, 3, 15, 17, 59, 59)}, p.Result(day))

	p, ok = LookupPeriod("午夜")
	require.True(t, ok)
	assert.Equal(t, Result{date(2024, 3, 16, 0, 0, 0)}, p.Result(day))
	assert.True(t, IsPM("晚上"))
	assert.False(t, IsPM("上午"))
}

func TestSeasonRange(t *testing.T) {
	start, end, err := SeasonRange(2024, Spring)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 20, 0, 0, 0), start)
	assert.Equal(t, date(2024, 6, 20, 23, 59, 59), end)

	start, end, err = SeasonRange(2024, Winter)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 12, 21, 0, 0, 0), start)
	assert.Equal(t, 2025, end.Year())

	_, _, err = SeasonRange(1999, Summer)
	assert.ErrorIs(t, err, ErrSeasonOutOfRange)

	s, y, err := SeasonOf(date(2024, 1, 10, 0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, Winter, s)
	assert.Equal(t, 2023, y)
}

func TestNthWeekday(t *testing.T) {
	got, ok := NthWeekday(2024, time.May, 2, 7)
	require.True(t, ok)
	assert.Equal(t, date(2024, 5, 12, 0, 0, 0), got, "Mother's Day 2024")

	got, ok = NthWeekday(2024, time.November, 4, 4)
	require.True(t, ok)
	assert.Equal(t, date(2024, 11, 28, 0, 0, 0), got)

	got, ok = NthWeekday(2024, time.March, -1, 5)
	require.True(t, ok)
	assert.Equal(t, date(2024, 3, 29, 0, 0, 0), got)

	_, ok = NthWeekday(2024, time.February, 5, 1)
	assert.False(t, ok)
}

func TestResult_Filter(t *testing.T) {
	rs := []Result{
		Point(date(2024, 1, 1, 0, 0, 0)),
		Span(date(1899, 12, 31, 0, 0, 0), date(1900, 1, 1, 0, 0, 0)),
		nil,
		Span(date(2100, 12, 31, 0, 0, 0), date(2100, 12, 31, 23, 59, 59)),
	}
	got := Filter(rs)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"2024-01-01T00:00:00Z"}, got[0].Strings())
}
