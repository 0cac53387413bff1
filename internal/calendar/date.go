package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO-8601 date-only layout
const DateFormat = "2006-01-02"

// Date represents a calendar day with no time-of-day or zone
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month and day
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{t.Year(), t.Month(), t.Day()}
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date { return NewDate(t.Date()) }

func (d Date) Year() int             { return d.y }
func (d Date) Month() time.Month     { return d.m }
func (d Date) Day() int              { return d.d }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) String() string        { return d.time().Format(DateFormat) }
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// DaysIn returns the number of days of month in year
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Layouts accepted for timestamps that carry no zone offset. They are read as
// wall time in the journal's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"2006.01.02",
	DateFormat,
}

// ParseTimestamp parses an ISO-8601 timestamp. Timestamps with an offset are
// converted into loc; timestamps without one are taken as wall time in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// DayOf returns the calendar day a stored timestamp falls on in loc. When the
// timestamp cannot be parsed its leading YYYY-MM-DD is used, if any.
func DayOf(s string, loc *time.Location) (Date, bool) {
	if t, err := ParseTimestamp(s, loc); err == nil {
		return DateOf(t), true
	}
	if len(s) >= len(DateFormat) {
		if t, err := time.Parse(DateFormat, s[:len(DateFormat)]); err == nil {
			return DateOf(t), true
		}
	}
	return Date{}, false
}
