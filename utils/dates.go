package utils

import (
	"errors"
	"time"
)

// All date ranges in the engine are half-open [start, end): the end date
// is the checkout day and is not occupied. Both the preview path and the
// locking commit path share the overlap test below so the two can never
// disagree on what "blocked" means.

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Midnight truncates a time to its UTC date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RangesOverlap reports whether [aStart, aEnd) intersects [bStart, bEnd).
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// NightsBetween returns the number of nights in [start, end).
func NightsBetween(start, end time.Time) int {
	return int(Midnight(end).Sub(Midnight(start)).Hours() / 24)
}

// EnumerateDates lists every occupied date in [start, end), i.e. each
// night of the stay. An empty or inverted range yields nil.
func EnumerateDates(start, end time.Time) []time.Time {
	start = Midnight(start)
	end = Midnight(end)
	if !start.Before(end) {
		return nil
	}
	dates := make([]time.Time, 0, NightsBetween(start, end))
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// ValidateRange rejects inverted and empty ranges before any transaction
// is opened.
func ValidateRange(start, end time.Time) error {
	if !Midnight(start).Before(Midnight(end)) {
		return errors.New("end date must be after start date")
	}
	return nil
}

// IsWeekendNight reports whether a night is priced as a weekend night
// (Friday or Saturday night).
func IsWeekendNight(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Friday || wd == time.Saturday
}
