// Package model holds the revenue and occupancy arithmetic behind the dashboard metrics.
package model

import (
	"time"

	bookingModel "hotel/internal/domains/booking/model"
	"hotel/shared/timezone"
)

// LowOccupancyThreshold is the average occupancy percentage below which an alert is raised.
const LowOccupancyThreshold = 50.0

// Range is a period of whole days with both ends included.
type Range struct {
	Start time.Time
	End   time.Time
}

func NewRange(start, end time.Time) Range {
	return Range{Start: timezone.NormalizeDate(start), End: timezone.NormalizeDate(end)}
}

// Days counts the days in the range, at least one.
func (r Range) Days() int {
	return max(1, timezone.NightsBetween(r.Start, r.End)+1)
}

// EndExclusive is the first day after the range.
func (r Range) EndExclusive() time.Time {
	return r.End.AddDate(0, 0, 1)
}

// OverlapNights counts the nights of the stay that fall inside the range.
func OverlapNights(b bookingModel.Booking, r Range) int {
	start := timezone.NormalizeDate(b.CheckIn)
	if r.Start.After(start) {
		start = r.Start
	}

	end := timezone.NormalizeDate(b.CheckOut)
	if r.EndExclusive().Before(end) {
		end = r.EndExclusive()
	}

	if !start.Before(end) {
		return 0
	}

	return timezone.NightsBetween(start, end)
}

// Revenue is what a set of bookings earned inside a range.
type Revenue struct {
	Rooms          int
	Days           int
	OccupiedNights int
	Total          float64
}

// Aggregate prorates each active booking's room charge over its nights and keeps the share
// that falls inside the range.
func Aggregate(rooms int, bookings []bookingModel.Booking, r Range) Revenue {
	rev := Revenue{Rooms: rooms, Days: r.Days()}

	for _, b := range bookings {
		if !b.Active() {
			continue
		}

		overlap := OverlapNights(b, r)
		if overlap == 0 {
			continue
		}

		nightly := b.TotalAmount / float64(max(1, b.Nights()))
		rev.Total += nightly * float64(overlap)
		rev.OccupiedNights += overlap
	}

	return rev
}

func (r Revenue) AvailableNights() int {
	return r.Rooms * r.Days
}

// OccupancyRate is the percentage of available room nights that were sold.
func (r Revenue) OccupancyRate() float64 {
	if r.AvailableNights() == 0 {
		return 0
	}

	return float64(r.OccupiedNights) / float64(r.AvailableNights()) * 100
}

// ADR is the average daily rate over sold room nights.
func (r Revenue) ADR() float64 {
	if r.OccupiedNights == 0 {
		return 0
	}

	return r.Total / float64(r.OccupiedNights)
}

// RevPAR is revenue per available room night.
func (r Revenue) RevPAR() float64 {
	if r.AvailableNights() == 0 {
		return 0
	}

	return r.Total / float64(r.AvailableNights())
}

// OccupiedOn counts active bookings whose guest sleeps in the hotel on the night of day.
func OccupiedOn(bookings []bookingModel.Booking, day time.Time) int {
	day = timezone.NormalizeDate(day)

	var count int

	for _, b := range bookings {
		if b.Active() && !timezone.NormalizeDate(b.CheckIn).After(day) && timezone.NormalizeDate(b.CheckOut).After(day) {
			count++
		}
	}

	return count
}
