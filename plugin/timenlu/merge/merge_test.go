package merge

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/calendar"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/resolver"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// 2024-03-15 is a Friday.
var base = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

var merger = New(resolver.NewRegistry(resolver.Config{}))

func tk(kind token.Kind, kv ...string) token.Token {
	vals := token.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		vals[token.Field(kv[i])] = kv[i+1]
	}
	return token.New(kind, vals)
}

var (
	to     = tk(token.KindTo, "word", "到")
	and    = tk(token.KindAnd, "word", "和")
	before = tk(token.KindBefore, "word", "之前")
	after  = tk(token.KindAfter, "word", "之后")
)

func day(s string) []string {
	return []string{s + "T00:00:00Z", s + "T23:59:59Z"}
}

type mergeCase struct {
	name     string
	toks     []token.Token
	want     [][]string
	consumed []int
}

func runMerge(t *testing.T, tests []mergeCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := merger.Merge(tt.toks, base)
			got := calendar.Render(Results(steps))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
			} else if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("results mismatch (-want +got):\n%s", diff)
			}
			if tt.consumed != nil {
				consumed := make([]int, 0, len(steps))
				for _, s := range steps {
					consumed = append(consumed, s.Consumed)
				}
				assert.Equal(t, tt.consumed, consumed)
			}
		})
	}
}

func TestMerge_WeekdayHourRange(t *testing.T) {
	toks := []token.Token{
		tk(token.KindWeekday, "week_day", "1"),
		tk(token.KindBetween, "hour", "9"),
		to,
		tk(token.KindBetween, "hour", "11"),
	}
	steps := merger.Merge(toks, base)
	require.Len(t, steps, 1)
	assert.Equal(t, 4, steps[0].Consumed)
	assert.Equal(t, [][]string{{"2024-03-11T09:00:00Z", "2024-03-11T11:00:00Z"}}, calendar.Render(steps[0].Results))
}

func TestMerge_Deterministic(t *testing.T) {
	toks := []token.Token{
		tk(token.KindRelative, "offset_day", "1"),
		tk(token.KindUTC, "hour", "3", "noon", "下午"),
		tk(token.KindHoliday, "festival", "圣诞节"),
		to,
		tk(token.KindHoliday, "festival", "元旦"),
	}
	first := merger.Merge(toks, base)
	for n := 0; n < 5; n++ {
		assert.Equal(t, first, merger.Merge(toks, base))
	}

	i := 0
	for _, step := range first {
		out, ok := merger.TryMerge(i, toks, base)
		require.True(t, ok)
		assert.Equal(t, step, out)
		i += out.Consumed
	}
	assert.Equal(t, len(toks), i)
}

func TestMerge_SingleTokens(t *testing.T) {
	runMerge(t, []mergeCase{
		{
			name:     "unclaimed tokens resolve one by one",
			toks:     []token.Token{tk(token.KindRelative, "offset_day", "1"), tk(token.KindHoliday, "festival", "中秋")},
			want:     [][]string{day("2024-03-16"), day("2024-09-17")},
			consumed: []int{1, 1},
		},
		{
			name:     "connectors alone resolve to nothing",
			toks:     []token.Token{to, and},
			consumed: []int{1, 1},
		},
	})
}

func TestQualifierTier(t *testing.T) {
	runMerge(t, []mergeCase{
		{
			name:     "prefix is stripped",
			toks:     []token.Token{tk(token.KindPrefix, "word", "在"), tk(token.KindRelative, "offset_day", "1")},
			want:     [][]string{day("2024-03-16")},
			consumed: []int{1, 1},
		},
		{
			name:     "three days before",
			toks:     []token.Token{tk(token.KindDelta, "day", "3"), before},
			want:     [][]string{day("2024-03-12")},
			consumed: []int{2},
		},
		{
			name: "before a future date",
			toks: []token.Token{tk(token.KindUTC, "month", "5", "day", "1"), before},
			want: [][]string{{"2024-03-15T10:00:00Z", "2024-05-01T00:00:00Z"}},
		},
		{
			name: "before a past year",
			toks: []token.Token{tk(token.KindUTC, "year", "2020"), before},
			want: [][]string{{"1900-01-01T00:00:00Z", "2020-01-01T00:00:00Z"}},
		},
		{
			name: "after national day",
			toks: []token.Token{tk(token.KindHoliday, "festival", "国庆"), after},
			want: [][]string{{"2024-10-01T00:00:00Z", "2099-12-31T23:59:59Z"}},
		},
	})
}

func TestComponentTier(t *testing.T) {
	runMerge(t, []mergeCase{
		{
			name: "end of this month",
			toks: []token.Token{tk(token.KindRelative, "offset_month", "0"), tk(token.KindModifier, "modifier", "end")},
			want: [][]string{{"2024-03-27T00:00:00Z", "2024-03-31T23:59:59Z"}},
		},
		{
			name: "beginning of next year",
			toks: []token.Token{tk(token.KindRelative, "offset_year", "1"), tk(token.KindModifier, "modifier", "begin")},
			want: [][]string{{"2025-01-01T00:00:00Z", "2025-02-28T23:59:59Z"}},
		},
		{
			name: "whole of this year",
			toks: []token.Token{tk(token.KindModifier, "modifier", "whole"), tk(token.KindRelative, "offset_year", "0")},
			want: [][]string{{"2024-01-01T00:00:00Z", "2024-12-31T23:59:59Z"}},
		},
		{
			name: "first quarter of next year",
			toks: []token.Token{tk(token.KindRelative, "offset_year", "1"), tk(token.KindPeriod, "quarter", "1")},
			want: [][]string{{"2025-01-01T00:00:00Z", "2025-03-31T23:59:59Z"}},
		},
		{
			name: "second week of next month",
			toks: []token.Token{tk(token.KindRelative, "offset_month", "1"), tk(token.KindUTC, "week", "2")},
			want: [][]string{{"2024-04-08T00:00:00Z", "2024-04-14T23:59:59Z"}},
		},
		{
			name:     "a year and three months later",
			toks:     []token.Token{tk(token.KindDelta, "year", "1"), tk(token.KindDelta, "month", "3"), after},
			want:     [][]string{day("2025-06-15")},
			consumed: []int{3},
		},
		{
			name:     "an hour and a half later",
			toks:     []token.Token{tk(token.KindDelta, "hour", "1"), tk(token.KindModifier, "modifier", "half"), after},
			want:     [][]string{{"2024-03-15T11:30:00Z"}},
			consumed: []int{3},
		},
		{
			name: "within three days",
			toks: []token.Token{tk(token.KindDelta, "day", "3"), tk(token.KindModifier, "modifier", "within")},
			want: [][]string{{"2024-03-15T10:00:00Z", "2024-03-18T23:59:59Z"}},
		},
		{
			name: "these three days",
			toks: []token.Token{tk(token.KindModifier, "modifier", "this"), tk(token.KindRange, "unit", "day", "value", "3")},
			want: [][]string{{"2024-03-12T00:00:00Z", "2024-03-15T10:00:00Z"}},
		},
		{
			name: "early to mid month",
			toks: []token.Token{tk(token.KindPeriod, "month_period", "early"), to, tk(token.KindPeriod, "month_period", "mid")},
			want: [][]string{{"2024-03-01T00:00:00Z", "2024-03-20T23:59:59Z"}},
		},
	})
}

func TestIntervalTier(t *testing.T) {
	runMerge(t, []mergeCase{
		{
			name:     "christmas to new year crosses the year",
			toks:     []token.Token{tk(token.KindHoliday, "festival", "圣诞节"), to, tk(token.KindHoliday, "festival", "元旦")},
			want:     [][]string{{"2024-12-25T00:00:00Z", "2025-01-01T23:59:59Z"}},
			consumed: []int{3},
		},
		{
			name: "right side inherits the month",
			toks: []token.Token{tk(token.KindUTC, "month", "3", "day", "5"), to, tk(token.KindUTC, "day", "8")},
			want: [][]string{{"2024-03-05T00:00:00Z", "2024-03-08T23:59:59Z"}},
		},
		{
			name: "clock range into the next day",
			toks: []token.Token{tk(token.KindUTC, "hour", "22"), to, tk(token.KindUTC, "hour", "2")},
			want: [][]string{{"2024-03-15T22:00:00Z", "2024-03-16T02:00:00Z"}},
		},
		{
			name: "tomorrow nine to eleven",
			toks: []token.Token{
				tk(token.KindRelative, "offset_day", "1"),
				tk(token.KindBetween, "from_hour", "9", "to_hour", "11"),
			},
			want:     [][]string{{"2024-03-16T09:00:00Z", "2024-03-16T11:00:00Z"}},
			consumed: []int{2},
		},
		{
			name: "morning nine to afternoon three",
			toks: []token.Token{
				tk(token.KindBetween, "hour", "9", "noon", "上午"), to, tk(token.KindBetween, "hour", "3", "noon", "下午"),
			},
			want:     [][]string{{"2024-03-15T09:00:00Z", "2024-03-15T15:00:00Z"}},
			consumed: []int{3},
		},
		{
			name: "afternoon period word covers both sides",
			toks: []token.Token{
				tk(token.KindBetween, "hour", "2", "noon", "下午"), to, tk(token.KindBetween, "hour", "5"),
			},
			want:     [][]string{{"2024-03-15T14:00:00Z", "2024-03-15T17:00:00Z"}},
			consumed: []int{3},
		},
		{
			name: "tomorrow morning eight to midnight",
			toks: []token.Token{
				tk(token.KindRelative, "offset_day", "1"),
				tk(token.KindBetween, "hour", "8", "noon", "上午"), to, tk(token.KindBetween, "hour", "12", "noon", "晚上"),
			},
			want:     [][]string{{"2024-03-16T08:00:00Z", "2024-03-17T00:00:00Z"}},
			consumed: []int{4},
		},
		{
			name: "bare number read as a month",
			toks: []token.Token{tk(token.KindNumber, "value", "3"), to, tk(token.KindUTC, "month", "5")},
			want: [][]string{{"2024-03-01T00:00:00Z", "2024-05-31T23:59:59Z"}},
		},
		{
			name: "recurring with a between range is dropped",
			toks: []token.Token{
				tk(token.KindRecurring, "week_day", "1"),
				tk(token.KindBetween, "hour", "9"), to, tk(token.KindBetween, "hour", "11"),
			},
			consumed: []int{4},
		},
		{
			name:     "month count is not a time",
			toks:     []token.Token{tk(token.KindBetween, "from_month", "3", "to_month", "5"), tk(token.KindDelta, "month", "1")},
			consumed: []int{2},
		},
		{
			name: "stray month digit is the end minute",
			toks: []token.Token{
				tk(token.KindBetween, "from_hour", "10", "to_hour", "11", "month", "3"),
				tk(token.KindUTC, "day", "0"),
			},
			want: [][]string{{"2024-03-15T10:00:00Z", "2024-03-15T11:30:00Z"}},
		},
	})
}

func TestElaborationTier(t *testing.T) {
	runMerge(t, []mergeCase{
		{
			name: "year and holiday",
			toks: []token.Token{tk(token.KindUTC, "year", "2025"), tk(token.KindHoliday, "festival", "国庆节")},
			want: [][]string{day("2025-10-01")},
		},
		{
			name: "year and lunar date",
			toks: []token.Token{tk(token.KindUTC, "year", "2025"), tk(token.KindLunar, "month", "8", "day", "15")},
			want: [][]string{day("2025-10-06")},
		},
		{
			name: "year holiday and time",
			toks: []token.Token{
				tk(token.KindUTC, "year", "2025"),
				tk(token.KindHoliday, "festival", "元旦"),
				tk(token.KindUTC, "hour", "8", "noon", "晚上"),
			},
			want:     [][]string{{"2025-01-01T20:00:00Z"}},
			consumed: []int{3},
		},
		{
			name: "year and month range",
			toks: []token.Token{tk(token.KindUTC, "year", "2023"), tk(token.KindBetween, "from_month", "3", "to_month", "5")},
			want: [][]string{{"2023-03-01T00:00:00Z", "2023-05-31T23:59:59Z"}},
		},
		{
			name: "and inherits the month",
			toks: []token.Token{tk(token.KindUTC, "month", "4", "day", "5"), and, tk(token.KindUTC, "day", "8")},
			want: [][]string{day("2024-04-05"), day("2024-04-08")},
		},
		{
			name:     "next month fifth to eighth",
			toks:     []token.Token{tk(token.KindRelative, "offset_month", "1"), tk(token.KindUTC, "day", "5"), to, tk(token.KindUTC, "day", "8")},
			want:     [][]string{{"2024-04-05T00:00:00Z", "2024-04-08T23:59:59Z"}},
			consumed: []int{4},
		},
	})

	steps := merger.Merge([]token.Token{tk(token.KindUTC, "year", "2023"), tk(token.KindPeriod, "season", "summer")}, base)
	rs := Results(steps)
	require.Len(t, rs, 1)
	assert.Equal(t, 2023, rs[0].Start().Year())
}

func TestDayTimeAndContinuationTiers(t *testing.T) {
	runMerge(t, []mergeCase{
		{
			name: "mid-autumn evening",
			toks: []token.Token{tk(token.KindHoliday, "festival", "中秋"), tk(token.KindUTC, "noon", "晚上")},
			want: [][]string{{"2024-09-17T18:00:00Z", "2024-09-17T23:59:59Z"}},
		},
		{
			name: "tomorrow 3pm",
			toks: []token.Token{tk(token.KindRelative, "offset_day", "1"), tk(token.KindUTC, "hour", "3", "noon", "下午")},
			want: [][]string{{"2024-03-16T15:00:00Z"}},
		},
		{
			name: "date and time",
			toks: []token.Token{tk(token.KindUTC, "year", "2024", "month", "5", "day", "1"), tk(token.KindUTC, "hour", "10", "minute", "30")},
			want: [][]string{{"2024-05-01T10:30:00Z"}},
		},
		{
			name: "march and may",
			toks: []token.Token{tk(token.KindUTC, "month", "3"), and, tk(token.KindNumber, "value", "5")},
			want: [][]string{
				{"2024-03-01T00:00:00Z", "2024-03-31T23:59:59Z"},
				{"2024-05-01T00:00:00Z", "2024-05-31T23:59:59Z"},
			},
		},
		{
			name: "3pm and 5",
			toks: []token.Token{tk(token.KindUTC, "hour", "3", "noon", "下午"), and, tk(token.KindNumber, "value", "5")},
			want: [][]string{{"2024-03-15T15:00:00Z"}, {"2024-03-15T17:00:00Z"}},
		},
	})

	steps := merger.Merge([]token.Token{
		tk(token.KindRecurring, "week_day", "6"), and, tk(token.KindWeekday, "week_day", "7"),
	}, base)
	require.Len(t, steps, 1)
	assert.Equal(t, 3, steps[0].Consumed)
	assert.Len(t, steps[0].Results, 104)
}
