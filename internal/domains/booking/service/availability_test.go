package service_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/service"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestIsAvailable(t *testing.T) {
	existing := []model.Booking{
		{ID: "b1", RoomID: "r1", CheckIn: day(10), CheckOut: day(12), Status: model.StatusConfirmed},
		{ID: "b2", RoomID: "r1", CheckIn: day(20), CheckOut: day(25), Status: model.StatusCancelled},
		{ID: "b3", RoomID: "r2", CheckIn: day(10), CheckOut: day(12), Status: model.StatusCheckedIn},
		{ID: "b4", RoomID: "r1", CheckIn: day(30), CheckOut: day(31), Status: model.StatusRejected},
	}

	tests := []struct {
		name      string
		start     int
		end       int
		excludeID string
		want      bool
	}{
		{name: "fully inside", start: 10, end: 11, want: false},
		{name: "straddles check in", start: 9, end: 11, want: false},
		{name: "straddles check out", start: 11, end: 13, want: false},
		{name: "covers whole stay", start: 8, end: 14, want: false},
		{name: "same day turnover after", start: 12, end: 14, want: true},
		{name: "same day turnover before", start: 8, end: 10, want: true},
		{name: "cancelled booking ignored", start: 21, end: 23, want: true},
		{name: "rejected booking ignored", start: 30, end: 31, want: true},
		{name: "own booking excluded", start: 10, end: 13, excludeID: "b1", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.IsAvailable("r1", day(tt.start), day(tt.end), existing, tt.excludeID)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAvailable_MatchesOverlapRule(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for range 1000 {
		s1 := rng.Intn(30)
		e1 := s1 + 1 + rng.Intn(7)
		s2 := rng.Intn(30)
		e2 := s2 + 1 + rng.Intn(7)

		other := []model.Booking{{ID: "b", RoomID: "r1", CheckIn: day(s2), CheckOut: day(e2), Status: model.StatusPending}}

		overlap := s1 < e2 && e1 > s2

		assert.Equal(t, !overlap, service.IsAvailable("r1", day(s1), day(e1), other, ""),
			"[%d,%d) vs [%d,%d)", s1, e1, s2, e2)
	}
}
