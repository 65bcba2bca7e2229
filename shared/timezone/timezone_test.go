package timezone_test

import (
	"hotel/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowAndLocation(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
	assert.Equal(t, timezone.GetLocation(), timezone.ToAppTime(time.Now().UTC()).Location())
}

func TestParseDate(t *testing.T) {
	date, err := timezone.ParseDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), date)

	_, err = timezone.ParseDate("10/03/2024")
	assert.Error(t, err)
}

func TestNightsBetween(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{name: "one night", start: "2024-01-01", end: "2024-01-02", expected: 1},
		{name: "across month", start: "2024-01-30", end: "2024-02-02", expected: 3},
		{name: "leap day", start: "2024-02-28", end: "2024-03-01", expected: 2},
		{name: "same day", start: "2024-01-01", end: "2024-01-01", expected: 0},
		{name: "reversed", start: "2024-01-05", end: "2024-01-01", expected: -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := timezone.ParseDate(tt.start)
			end, _ := timezone.ParseDate(tt.end)

			assert.Equal(t, tt.expected, timezone.NightsBetween(start, end))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	withClock := time.Date(2024, 5, 6, 23, 59, 0, 0, time.FixedZone("X", 7*3600))

	assert.Equal(t, "2024-05-06", timezone.FormatDate(withClock))
	assert.Equal(t, time.UTC, timezone.NormalizeDate(withClock).Location())
	assert.Equal(t, timezone.Today(), timezone.Date(time.Now()))
}
