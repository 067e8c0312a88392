package token

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_Accessors(t *testing.T) {
	tok := New(KindUTC, Values{Year: "24", Month: "３", WeekDay: "6,7"})

	y, ok := tok.Int(Year)
	require.True(t, ok)
	assert.Equal(t, 24, y)

	m, ok := tok.Int(Month)
	require.True(t, ok, "full-width digits are narrowed")
	assert.Equal(t, 3, m)

	days, ok := tok.Ints(WeekDay)
	require.True(t, ok)
	assert.Equal(t, []int{6, 7}, days)

	_, ok = tok.Int(Day)
	assert.False(t, ok)
	assert.Equal(t, 9, tok.IntOr(Day, 9))
}

func TestToken_CopyOnWrite(t *testing.T) {
	orig := New(KindUTC, Values{Month: "3"})
	changed := orig.With(Day, "5").Without(Month)

	assert.True(t, orig.Has(Month))
	assert.False(t, orig.Has(Day))
	assert.False(t, changed.Has(Month))
	assert.Equal(t, "5", changed.Get(Day))
}

func TestToken_InheritAndRetype(t *testing.T) {
	left := New(KindUTC, Values{Year: "2024", Month: "3", Day: "1"})
	right := New(KindUTC, Values{Day: "9"})

	got := right.Inherit(left, Year, Month, Day)
	assert.Equal(t, "2024", got.Get(Year))
	assert.Equal(t, "3", got.Get(Month))
	assert.Equal(t, "9", got.Get(Day), "present fields win")

	rel := New(KindRelative, Values{OffsetDay: "1", Hour: "3"}).Retype(KindUTC)
	assert.Equal(t, KindUTC, rel.Kind)
	assert.False(t, rel.Has(OffsetDay))
	assert.True(t, rel.Has(Hour))
}

func TestToken_HasOnly(t *testing.T) {
	tok := New(KindUTC, Values{Hour: "9", Minute: "30"})
	assert.True(t, tok.HasOnly(TimeFields...))
	assert.False(t, tok.HasOnly(Hour))
	assert.False(t, Token{Kind: KindUTC}.HasOnly(Hour))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tok     Token
		wantErr bool
	}{
		{"legal utc", New(KindUTC, Values{Year: "2024"}), false},
		{"unknown kind", New(Kind("bogus"), nil), true},
		{"illegal field", New(KindWeekday, Values{Festival: "春节"}), true},
		{"non numeric", New(KindUTC, Values{Month: "三"}), true},
		{"negative offset", New(KindRelative, Values{OffsetYear: "-1"}), false},
		{"free text", New(KindHoliday, Values{Festival: "中秋"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tok)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	data := []byte(`[{"type":"relative","offset_year":"-1"},{"type":"utc","year":24,"month":"13"},{"type":"holiday","festival":"中秋","hour":null}]`)
	toks, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, toks, 3)

	assert.Equal(t, KindRelative, toks[0].Kind)
	assert.Equal(t, "-1", toks[0].Get(OffsetYear))
	assert.Equal(t, "24", toks[1].Get(Year))
	assert.False(t, toks[2].Has(Hour))

	_, err = Decode([]byte(`[{"year":"2024"}]`))
	assert.Error(t, err)
}

func TestMarshalJSON(t *testing.T) {
	tok := New(KindRecurring, Values{RecurringType: "week_day", WeekDay: "6,7"})
	data, err := json.Marshal(tok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"recurring","recurring_type":"week_day","week_day":"6,7"}`, string(data))
}
