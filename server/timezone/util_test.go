package timezone

import (
	"testing"
	"time"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		wantErr bool
	}{
		{name: "UTC", tz: "UTC"},
		{name: "empty string defaults to UTC", tz: ""},
		{name: "Asia/Shanghai", tz: "Asia/Shanghai"},
		{name: "invalid timezone", tz: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimezone() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if loc == nil {
				t.Errorf("ParseTimezone() returned nil location")
			}
			if IsValidTimezone(tt.tz) == tt.wantErr {
				t.Errorf("IsValidTimezone(%q) disagrees with ParseTimezone", tt.tz)
			}
		})
	}
}

func TestParseBase(t *testing.T) {
	shanghai, err := ParseTimezone("Asia/Shanghai")
	if err != nil {
		t.Skipf("zone database unavailable: %v", err)
	}

	tests := []struct {
		name    string
		in      string
		loc     *time.Location
		want    string
		wantErr bool
	}{
		{name: "output layout", in: "2024-03-15T10:00:00Z", want: "2024-03-15T10:00:00Z"},
		{name: "offset keeps wall clock", in: "2024-03-15T10:00:00+08:00", want: "2024-03-15T10:00:00Z"},
		{name: "naive in zone", in: "2024-03-15 10:00", loc: shanghai, want: "2024-03-15T10:00:00Z"},
		{name: "date only", in: "2024-03-15", want: "2024-03-15T00:00:00Z"},
		{name: "garbage", in: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBase(tt.in, tt.loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBase() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if s := Format(got); s != tt.want {
				t.Errorf("ParseBase() = %s, want %s", s, tt.want)
			}
		})
	}
}

func TestWall(t *testing.T) {
	shanghai, err := ParseTimezone("Asia/Shanghai")
	if err != nil {
		t.Skipf("zone database unavailable: %v", err)
	}
	instant := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	if got := Format(Wall(instant, shanghai)); got != "2024-03-15T10:00:00Z" {
		t.Errorf("Wall() = %s", got)
	}
	if got := Format(Wall(instant, nil)); got != "2024-03-15T02:00:00Z" {
		t.Errorf("Wall(nil) = %s", got)
	}
}

func TestParseBase_EmptyIsNow(t *testing.T) {
	before := NowWall(UTC).Add(-time.Second)
	got, err := ParseBase("", UTC)
	if err != nil {
		t.Fatal(err)
	}
	if got.Before(before) {
		t.Errorf("ParseBase(\"\") = %v, want about now", got)
	}
}
