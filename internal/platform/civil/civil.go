// Package civil provides calendar dates and times of day with no time
// zone attached. Values are compared as plain calendar values, never as
// instants, so a booking for 2025-03-10 09:00 means the same thing to
// every caller regardless of where the server runs.
package civil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	dateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// Date is a calendar date without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a date in YYYY-MM-DD form. The date must be a real
// calendar date; 2025-02-30 is rejected.
func ParseDate(s string) (Date, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns the date at midnight UTC. This is the storage
// normalization; the weekday must never be derived from it.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return d == Date{} }

// MarshalJSON encodes d as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Weekday returns the ISO weekday of d, Monday=1 through Sunday=7.
// The result depends only on the year, month, and day components; this
// is the one canonical weekday rule used on both the booking path and
// the availability check.
func (d Date) Weekday() int {
	wd := d.Time().Weekday() // components only, so the UTC anchor is inert
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// TimeOfDay is a time of day with minute granularity.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTime parses a time of day in 24-hour HH:MM form.
func ParseTime(s string) (TimeOfDay, error) {
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	var t TimeOfDay
	fmt.Sscanf(m[1], "%d", &t.Hour)
	fmt.Sscanf(m[2], "%d", &t.Minute)
	return t, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the time of day as minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

// MarshalJSON encodes t as "HH:MM".
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes an "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Before reports whether t is earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// InRange reports whether t lies in the half-open interval [start, end).
// A range with start >= end is degenerate and never matches.
func (t TimeOfDay) InRange(start, end TimeOfDay) bool {
	if start.Minutes() >= end.Minutes() {
		return false
	}
	return t.Minutes() >= start.Minutes() && t.Minutes() < end.Minutes()
}
