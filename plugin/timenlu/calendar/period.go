package calendar

import (
	"time"
)

// Bound is a point of a day relative to that day's midnight.
type Bound struct {
	DayOffset int
	Hour      int
	Minute    int
	Second    int
}

// On returns the bound on the day of t.
func (b Bound) On(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+b.DayOffset, b.Hour, b.Minute, b.Second, 0, time.UTC)
}

type hourShift int

const (
	shiftNone hourShift = iota
	// shiftPM adds 12 to hours 0..12.
	shiftPM
	// shiftNoon adds 12 to hours below 11.
	shiftNoon
	// shiftLateNight adds 12 to hours 6..12.
	shiftLateNight
	// shiftEarly maps 12 to 0.
	shiftEarly
)

// PeriodWord describes a period-of-day word such as 下午.
type PeriodWord struct {
	Word    string
	Start   Bound
	End     Bound
	Instant bool
	shift   hourShift
}

var periodWords = map[string]PeriodWord{
	"凌晨": {Start: Bound{0, 0, 0, 0}, End: Bound{0, 5, 59, 59}, shift: shiftEarly},
	"黎明": {Start: Bound{0, 4, 0, 0}, End: Bound{0, 6, 59, 59}},
	"拂晓": {Start: Bound{0, 4, 0, 0}, End: Bound{0, 6, 59, 59}},
	"清晨": {Start: Bound{0, 5, 0, 0}, End: Bound{0, 7, 59, 59}},
	"早晨": {Start: Bound{0, 6, 0, 0}, End: Bound{0, 8, 59, 59}},
	"早上": {Start: Bound{0, 6, 0, 0}, End: Bound{0, 9, 59, 59}},
	"早":  {Start: Bound{0, 6, 0, 0}, End: Bound{0, 9, 59, 59}},
	"上午": {Start: Bound{0, 8, 0, 0}, End: Bound{0, 11, 59, 59}},
	"白天": {Start: Bound{0, 6, 0, 0}, End: Bound{0, 17, 59, 59}},
	"中午": {Start: Bound{0, 11, 0, 0}, End: Bound{0, 13, 59, 59}, shift: shiftNoon},
	"午间": {Start: Bound{0, 11, 30, 0}, End: Bound{0, 13, 30, 0}, shift: shiftNoon},
	"正午": {Start: Bound{0, 12, 0, 0}, End: Bound{0, 12, 0, 0}, Instant: true, shift: shiftNoon},
	"下午": {Start: Bound{0, 13, 0, 0}, End: Bound{0, 17, 59, 59}, shift: shiftPM},
	"午后": {Start: Bound{0, 13, 0, 0}, End: Bound{0, 15, 59, 59}, shift: shiftPM},
	"傍晚": {Start: Bound{0, 17, 0, 0}, End: Bound{0, 19, 59, 59}, shift: shiftPM},
	"黄昏": {Start: Bound{0, 17, 0, 0}, End: Bound{0, 19, 59, 59}, shift: shiftPM},
	"晚上": {Start: Bound{0, 18, 0, 0}, End: Bound{0, 23, 59, 59}, shift: shiftPM},
	"晚间": {Start: Bound{0, 18, 0, 0}, End: Bound{0, 23, 59, 59}, shift: shiftPM},
	"晚":  {Start: Bound{0, 18, 0, 0}, End: Bound{0, 23, 59, 59}, shift: shiftPM},
	"夜里": {Start: Bound{0, 20, 0, 0}, End: Bound{1, 5, 59, 59}, shift: shiftLateNight},
	"夜间": {Start: Bound{0, 20, 0, 0}, End: Bound{1, 5, 59, 59}, shift: shiftLateNight},
	"深夜": {Start: Bound{0, 23, 0, 0}, End: Bound{1, 2, 59, 59}, shift: shiftLateNight},
	"半夜": {Start: Bound{0, 23, 0, 0}, End: Bound{1, 2, 59, 59}, shift: shiftLateNight},
	"午夜": {Start: Bound{1, 0, 0, 0}, End: Bound{1, 0, 0, 0}, Instant: true, shift: shiftLateNight},
}

// LookupPeriod returns the period word definition.
func LookupPeriod(word string) (PeriodWord, bool) {
	p, ok := periodWords[word]
	if ok {
		p.Word = word
	}
	return p, ok
}

// IsPM reports whether word belongs to the afternoon/evening set.
func IsPM(word string) bool {
	p, ok := periodWords[word]
	return ok && p.shift == shiftPM
}

// Span returns the period's bounds on the day of t. For instant words both bounds are
// equal.
func (p PeriodWord) Span(t time.Time) (time.Time, time.Time) {
	return p.Start.On(t), p.End.On(t)
}

// Result returns the period on the day of t as a point or an interval.
func (p PeriodWord) Result(t time.Time) Result {
	start, end := p.Span(t)
	if p.Instant {
		return Point(start)
	}
	return Span(start, end)
}

// ApplyPeriodHour resolves an explicit hour qualified by a period word. It returns the
// 24-hour clock hour and a day offset: 晚上12点 is hour 0 of the next day. Hours past
// 24 come back unchanged so that SetFields rejects them.
func ApplyPeriodHour(word string, hour int) (int, int) {
	p, ok := periodWords[word]
	if !ok || hour < 0 || hour > 24 {
		return hour, 0
	}
	switch p.shift {
	case shiftPM:
		if hour <= 12 {
			hour += 12
		}
	case shiftNoon:
		if hour < 11 {
			hour += 12
		}
	case shiftLateNight:
		if hour >= 6 && hour <= 12 {
			hour += 12
		}
	case shiftEarly:
		if hour == 12 {
			hour = 0
		}
	}
	if hour == 24 {
		return 0, 1
	}
	return hour, 0
}
