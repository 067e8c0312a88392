package store

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// NormalYear is the table key of the year-agnostic template.
const NormalYear = "normal"

// Holiday is one statutory holiday span of one year. Dates are YYYY-MM-DD; rows of the
// "normal" template may omit the year (MM-DD).
type Holiday struct {
	Year      string
	Festival  string
	StartTime string
	EndTime   string
}

// FindHoliday filters holiday rows.
type FindHoliday struct {
	Year     *string
	Festival *string
}

// HolidayEntry is the file representation of a holiday span.
type HolidayEntry struct {
	StartTime string `json:"start_time" yaml:"start_time"`
	EndTime   string `json:"end_time" yaml:"end_time"`
}

// HolidayFile is the file representation of a holiday table: year key, then festival.
type HolidayFile map[string]map[string]HolidayEntry

type span struct {
	start time.Time
	end   time.Time
}

// HolidayTable is a read-only statutory holiday table. It is safe for concurrent use.
type HolidayTable struct {
	years  map[int]map[string]span
	normal map[string]span
	min    int
	max    int
}

// NewHolidayTable builds a table from rows. Rows with malformed dates fail the whole
// table.
func NewHolidayTable(rows []*Holiday) (*HolidayTable, error) {
	t := &HolidayTable{
		years:  map[int]map[string]span{},
		normal: map[string]span{},
	}
	for _, row := range rows {
		if row == nil || row.Festival == "" {
			continue
		}
		if row.Year == NormalYear {
			s, err := parseSpan(2000, row.StartTime, row.EndTime)
			if err != nil {
				return nil, errors.Wrapf(err, "normal/%s", row.Festival)
			}
			t.normal[row.Festival] = s
			continue
		}
		y, err := strconv.Atoi(row.Year)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid holiday year %q", row.Year)
		}
		s, err := parseSpan(y, row.StartTime, row.EndTime)
		if err != nil {
			return nil, errors.Wrapf(err, "%d/%s", y, row.Festival)
		}
		if t.years[y] == nil {
			t.years[y] = map[string]span{}
		}
		t.years[y][row.Festival] = s
		if t.min == 0 || y < t.min {
			t.min = y
		}
		if y > t.max {
			t.max = y
		}
	}
	return t, nil
}

// NewHolidayTableFromFile builds a table from its file representation.
func NewHolidayTableFromFile(f HolidayFile) (*HolidayTable, error) {
	return NewHolidayTable(f.Rows())
}

// Rows flattens the file representation in a stable order.
func (f HolidayFile) Rows() []*Holiday {
	years := make([]string, 0, len(f))
	for y := range f {
		years = append(years, y)
	}
	sort.Strings(years)

	var rows []*Holiday
	for _, y := range years {
		names := make([]string, 0, len(f[y]))
		for n := range f[y] {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			e := f[y][n]
			rows = append(rows, &Holiday{Year: y, Festival: n, StartTime: e.StartTime, EndTime: e.EndTime})
		}
	}
	return rows
}

// Lookup returns the statutory span of festival in year. Only years outside the
// populated range use the "normal" template re-anchored to year; a festival a populated
// year does not list is unknown.
func (t *HolidayTable) Lookup(year int, festival string) (time.Time, time.Time, bool) {
	if t == nil {
		return time.Time{}, time.Time{}, false
	}
	if byName, ok := t.years[year]; ok {
		if s, ok := byName[festival]; ok {
			return s.start, s.end, true
		}
	}
	if t.populated(year) {
		return time.Time{}, time.Time{}, false
	}
	s, ok := t.normal[festival]
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return reanchor(s, year)
}

// Years returns the populated year range. ok is false for a table without years.
func (t *HolidayTable) Years() (int, int, bool) {
	if t == nil || len(t.years) == 0 {
		return 0, 0, false
	}
	return t.min, t.max, true
}

// populated reports whether year lies inside the populated range.
func (t *HolidayTable) populated(year int) bool {
	return len(t.years) > 0 && year >= t.min && year <= t.max
}

// Festivals returns the sorted festival names known for year. Years outside the
// populated range list the template.
func (t *HolidayTable) Festivals(year int) []string {
	seen := map[string]bool{}
	for n := range t.years[year] {
		seen[n] = true
	}
	if !t.populated(year) {
		for n := range t.normal {
			seen[n] = true
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func reanchor(s span, year int) (time.Time, time.Time, bool) {
	start := time.Date(year, s.start.Month(), s.start.Day(), 0, 0, 0, 0, time.UTC)
	if start.Month() != s.start.Month() {
		return time.Time{}, time.Time{}, false
	}
	endYear := year + (s.end.Year() - s.start.Year())
	end := time.Date(endYear, s.end.Month(), s.end.Day(), 0, 0, 0, 0, time.UTC)
	if end.Month() != s.end.Month() {
		end = time.Date(endYear, s.end.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	}
	return start, end, true
}

func parseSpan(defaultYear int, startTime, endTime string) (span, error) {
	start, err := parseDay(defaultYear, startTime)
	if err != nil {
		return span{}, err
	}
	if endTime == "" {
		endTime = startTime
	}
	end, err := parseDay(start.Year(), endTime)
	if err != nil {
		return span{}, err
	}
	if end.Before(start) {
		// MM-DD template crossing the new year.
		if len(strings.Split(strings.TrimSpace(endTime), "-")) == 2 {
			end = end.AddDate(1, 0, 0)
		} else {
			return span{}, errors.Errorf("end %s before start %s", endTime, startTime)
		}
	}
	return span{start: start, end: end}, nil
}

// parseDay accepts YYYY-MM-DD or MM-DD.
func parseDay(defaultYear int, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, "-") == 1 {
		s = strconv.Itoa(defaultYear) + "-" + s
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid holiday date %q", s)
	}
	return t, nil
}
