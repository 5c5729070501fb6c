package timex

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date layout used for grouping keys and file names.
const DateLayout = "2006-01-02"

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from `from` to `to`,
// both interpreted in loc. A `to` later on the same day yields 0.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.In(loc).Date()
	// Civil dates compared in UTC so DST transitions never produce 23h/25h days.
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// EndOfWeek returns the Sunday that closes t's Monday-based week, at midnight.
func EndOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (7 - int(day.Weekday())) % 7
	return day.AddDate(0, 0, offset)
}

// EndOfMonth returns the last calendar day of t's month, at midnight.
func EndOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location())
}

// EndOfQuarter returns the last calendar day of t's three-month quarter, at midnight.
func EndOfQuarter(t time.Time) time.Time {
	y, m, _ := t.Date()
	last := time.Month(((int(m)-1)/3+1)*3)
	return time.Date(y, last+1, 0, 0, 0, 0, 0, t.Location())
}

// DateKey formats t's calendar day in loc as YYYY-MM-DD.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDate accepts an ISO calendar date or an RFC 3339 instant and returns
// midnight of that calendar day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := ParseInstant(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return StartOfDay(t.In(loc)), nil
}

// FormatInstant renders t as an RFC 3339 instant with millisecond precision in UTC.
func FormatInstant(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// ParseInstant parses RFC 3339 instants, with or without fractional seconds,
// and bare calendar dates (taken as UTC midnight).
func ParseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
