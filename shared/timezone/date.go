package timezone

import (
	"fmt"
	"time"
)

const hoursPerDay = 24

// Stay dates are civil dates. They are represented as midnight UTC so that values read
// from DATE columns, parsed from requests and produced by Today compare directly.

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}

	return date, nil
}

// Date truncates t to its calendar day in the application timezone.
func Date(t time.Time) time.Time {
	y, m, d := ToAppTime(t).Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar day in the application timezone.
func Today() time.Time {
	return Date(time.Now())
}

// NormalizeDate drops the clock and zone of a value that already denotes a calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NightsBetween counts the nights from start to end. It is negative when end precedes start.
func NightsBetween(start, end time.Time) int {
	diff := NormalizeDate(end).Sub(NormalizeDate(start))

	return int(diff.Hours() / hoursPerDay)
}

func FormatDate(t time.Time) string {
	return NormalizeDate(t).Format(time.DateOnly)
}
