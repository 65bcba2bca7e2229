package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	bookingModel "hotel/internal/domains/booking/model"
	"hotel/internal/domains/metrics/model"
	"hotel/shared/timezone"
)

func date(value string) time.Time {
	d, err := timezone.ParseDate(value)
	if err != nil {
		panic(err)
	}

	return d
}

func stay(checkIn, checkOut string, total float64, status bookingModel.Status) bookingModel.Booking {
	return bookingModel.Booking{CheckIn: date(checkIn), CheckOut: date(checkOut), TotalAmount: total, Status: status}
}

func TestRange_Days(t *testing.T) {
	assert.Equal(t, 1, model.NewRange(date("2030-03-01"), date("2030-03-01")).Days())
	assert.Equal(t, 3, model.NewRange(date("2030-03-01"), date("2030-03-03")).Days())
	assert.Equal(t, 1, model.NewRange(date("2030-03-03"), date("2030-03-01")).Days())
}

func TestOverlapNights(t *testing.T) {
	r := model.NewRange(date("2030-03-01"), date("2030-03-03"))

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		expected int
	}{
		{name: "inside", checkIn: "2030-03-01", checkOut: "2030-03-03", expected: 2},
		{name: "runs past the last day", checkIn: "2030-03-03", checkOut: "2030-03-06", expected: 1},
		{name: "starts before the range", checkIn: "2030-02-27", checkOut: "2030-03-02", expected: 1},
		{name: "covers the range", checkIn: "2030-02-20", checkOut: "2030-03-10", expected: 3},
		{name: "ends on the first day", checkIn: "2030-02-27", checkOut: "2030-03-01", expected: 0},
		{name: "starts after", checkIn: "2030-03-04", checkOut: "2030-03-05", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, model.OverlapNights(stay(tt.checkIn, tt.checkOut, 0, bookingModel.StatusConfirmed), r))
		})
	}
}

func TestAggregate_ProratesRevenue(t *testing.T) {
	r := model.NewRange(date("2030-03-01"), date("2030-03-03"))

	// Two nights for 4000, one of which falls on the last day of the range.
	rev := model.Aggregate(1, []bookingModel.Booking{stay("2030-03-03", "2030-03-05", 4000, bookingModel.StatusConfirmed)}, r)

	assert.Equal(t, 2000.0, rev.Total)
	assert.Equal(t, 1, rev.OccupiedNights)
	assert.Equal(t, 3, rev.AvailableNights())
	assert.InDelta(t, 33.33, rev.OccupancyRate(), 0.01)
	assert.Equal(t, 2000.0, rev.ADR())
	assert.InDelta(t, 666.67, rev.RevPAR(), 0.01)
}

func TestAggregate_SkipsInactiveAndHandlesEmpty(t *testing.T) {
	r := model.NewRange(date("2030-03-01"), date("2030-03-01"))

	rev := model.Aggregate(2, []bookingModel.Booking{
		stay("2030-03-01", "2030-03-02", 1500, bookingModel.StatusCancelled),
		stay("2030-03-01", "2030-03-02", 1500, bookingModel.StatusRejected),
	}, r)

	assert.Zero(t, rev.Total)
	assert.Zero(t, rev.OccupancyRate())
	assert.Zero(t, rev.ADR())
	assert.Zero(t, rev.RevPAR())

	empty := model.Aggregate(0, nil, r)
	assert.Zero(t, empty.OccupancyRate())
	assert.Zero(t, empty.RevPAR())
}

func TestOccupiedOn(t *testing.T) {
	bookings := []bookingModel.Booking{
		stay("2030-03-01", "2030-03-03", 0, bookingModel.StatusCheckedIn),
		stay("2030-03-02", "2030-03-04", 0, bookingModel.StatusConfirmed),
		stay("2030-03-02", "2030-03-04", 0, bookingModel.StatusCancelled),
	}

	assert.Equal(t, 1, model.OccupiedOn(bookings, date("2030-03-01")))
	assert.Equal(t, 2, model.OccupiedOn(bookings, date("2030-03-02")))
	assert.Equal(t, 1, model.OccupiedOn(bookings, date("2030-03-03")))
	assert.Equal(t, 0, model.OccupiedOn(bookings, date("2030-03-04")))
}
