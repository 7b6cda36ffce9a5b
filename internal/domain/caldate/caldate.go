// Package caldate holds the calendar-date conventions shared by every record:
// dates without a time of day are stored as UTC midnight, and instants are
// stored at whole-second precision so their JSON text sorts chronologically.
package caldate

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// StampLayout is the fixed-width format used for stored instants.
const StampLayout = "2006-01-02T15:04:05Z"

// MonthLayout is the wire format for a calendar month.
const MonthLayout = "2006-01"

var (
	ErrEmptyDate  = errors.New("date is required")
	ErrEmptyMonth = errors.New("month is required")
	ErrRangeOrder = errors.New("end date is before start date")
)

// Parse reads a YYYY-MM-DD string as UTC midnight.
// PRE: s is non-empty
// POST: Returns a time at 00:00:00 UTC of the named day
func Parse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Midnight returns UTC midnight of t's UTC calendar day.
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Stamp normalises an instant for storage: UTC, whole seconds.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// Format renders the calendar day of t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// FormatStamp renders t in StampLayout.
func FormatStamp(t time.Time) string {
	return Stamp(t).Format(StampLayout)
}

// Range is a half-open interval [Start, End) of instants.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the half-open range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Day returns the range covering one calendar day.
func Day(day time.Time) Range {
	start := Midnight(day)
	return Range{Start: start, End: start.AddDate(0, 0, 1)}
}

// Month returns [first day 00:00Z, first day of next month 00:00Z).
func Month(year int, month time.Month) Range {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseMonth reads a YYYY-MM string into its month range.
func ParseMonth(s string) (Range, error) {
	if s == "" {
		return Range{}, ErrEmptyMonth
	}
	t, err := time.ParseInLocation(MonthLayout, s, time.UTC)
	if err != nil {
		return Range{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month(t.Year(), t.Month()), nil
}

// Inclusive turns an inclusive [start, end] pair of calendar days into the
// half-open range [start 00:00Z, day after end 00:00Z).
// PRE: start and end are calendar dates
// POST: Returns ErrRangeOrder if end precedes start
func Inclusive(start, end time.Time) (Range, error) {
	s := Midnight(start)
	e := Midnight(end)
	if e.Before(s) {
		return Range{}, ErrRangeOrder
	}
	return Range{Start: s, End: e.AddDate(0, 0, 1)}, nil
}
