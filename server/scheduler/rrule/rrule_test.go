package rrule

import (
	"testing"
	"time"
)

func at(y int, m time.Month, d, h, mi int) time.Time {
	return time.Date(y, m, d, h, mi, 0, 0, time.UTC)
}

func TestWeekdayFromISO(t *testing.T) {
	for n := 1; n <= 7; n++ {
		wd, ok := WeekdayFromISO(n)
		if !ok || wd.ISO() != n {
			t.Errorf("WeekdayFromISO(%d) = %v, %v", n, wd, ok)
		}
	}
	if _, ok := WeekdayFromISO(0); ok {
		t.Error("WeekdayFromISO(0) should fail")
	}
}

func TestGenerator_Between(t *testing.T) {
	base := at(2024, 3, 15, 10, 0) // Friday

	tests := []struct {
		name      string
		rule      *Rule
		start     time.Time
		before    time.Time
		wantCount int
		wantFirst time.Time
		wantLast  time.Time
	}{
		{
			name:      "weekly weekend",
			rule:      &Rule{Frequency: Weekly, ByDay: []Weekday{Saturday, Sunday}},
			start:     at(2024, 3, 15, 0, 0),
			before:    base.AddDate(0, 0, 52*7),
			wantCount: 104,
			wantFirst: at(2024, 3, 16, 0, 0),
			wantLast:  at(2025, 3, 9, 0, 0),
		},
		{
			name:      "weekly today already passed",
			rule:      &Rule{Frequency: Weekly, ByDay: []Weekday{Friday}},
			start:     at(2024, 3, 15, 9, 0),
			before:    base.AddDate(0, 0, 21),
			wantCount: 3,
			wantFirst: at(2024, 3, 22, 9, 0),
			wantLast:  at(2024, 4, 5, 9, 0),
		},
		{
			name:      "monthly skips short months",
			rule:      &Rule{Frequency: Monthly, ByMonthDay: []int{31}},
			start:     at(2024, 3, 15, 0, 0),
			before:    at(2024, 9, 1, 0, 0),
			wantCount: 4,
			wantFirst: at(2024, 3, 31, 0, 0),
			wantLast:  at(2024, 8, 31, 0, 0),
		},
		{
			name:      "monthly last day",
			rule:      &Rule{Frequency: Monthly, ByMonthDay: []int{-1}},
			start:     at(2024, 3, 15, 0, 0),
			before:    at(2024, 5, 1, 0, 0),
			wantCount: 2,
			wantFirst: at(2024, 3, 31, 0, 0),
			wantLast:  at(2024, 4, 30, 0, 0),
		},
		{
			name:      "yearly by month and day",
			rule:      &Rule{Frequency: Yearly, ByMonth: []int{10}, ByMonthDay: []int{1}},
			start:     at(2024, 3, 15, 0, 0),
			before:    at(2034, 3, 15, 0, 0),
			wantCount: 10,
			wantFirst: at(2024, 10, 1, 0, 0),
			wantLast:  at(2033, 10, 1, 0, 0),
		},
		{
			name:      "daily at hour",
			rule:      &Rule{Frequency: Daily, ByHour: []int{8}, ByMinute: []int{30}},
			start:     at(2024, 3, 15, 0, 0),
			before:    at(2024, 3, 18, 0, 0),
			wantCount: 2,
			wantFirst: at(2024, 3, 16, 8, 30),
			wantLast:  at(2024, 3, 17, 8, 30),
		},
		{
			name:      "hourly interval",
			rule:      &Rule{Frequency: Hourly, Interval: 2},
			start:     base,
			before:    base.Add(7 * time.Hour),
			wantCount: 3,
			wantFirst: at(2024, 3, 15, 12, 0),
			wantLast:  at(2024, 3, 15, 16, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGenerator(tt.rule, tt.start).Between(base, tt.before)
			if len(got) != tt.wantCount {
				t.Fatalf("Between() returned %d occurrences, want %d", len(got), tt.wantCount)
			}
			if !got[0].Equal(tt.wantFirst) {
				t.Errorf("first = %v, want %v", got[0], tt.wantFirst)
			}
			if !got[len(got)-1].Equal(tt.wantLast) {
				t.Errorf("last = %v, want %v", got[len(got)-1], tt.wantLast)
			}
			for i := 1; i < len(got); i++ {
				if !got[i].After(got[i-1]) {
					t.Fatalf("occurrences not increasing at %d", i)
				}
			}
		})
	}
}

func TestGenerator_All(t *testing.T) {
	rule := &Rule{Frequency: Weekly, ByDay: []Weekday{Monday, Wednesday}, Count: 3}
	got := NewGenerator(rule, at(2024, 3, 13, 9, 0)).All(10)
	want := []time.Time{at(2024, 3, 13, 9, 0), at(2024, 3, 18, 9, 0), at(2024, 3, 20, 9, 0)}
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("All()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	until := &Rule{Frequency: Daily, Until: at(2024, 3, 17, 0, 0)}
	if n := len(NewGenerator(until, at(2024, 3, 15, 0, 0)).All(100)); n != 3 {
		t.Errorf("All() with UNTIL returned %d, want 3", n)
	}
}

func TestRule_String(t *testing.T) {
	rule := &Rule{
		Frequency:  Weekly,
		Interval:   2,
		Count:      5,
		ByDay:      []Weekday{Saturday, Sunday},
		ByMonthDay: []int{1, 15},
		ByHour:     []int{9},
	}
	want := "FREQ=WEEKLY;INTERVAL=2;COUNT=5;BYDAY=SA,SU;BYMONTHDAY=1,15;BYHOUR=9"
	if got := rule.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
