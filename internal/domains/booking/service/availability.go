package service

import (
	"hotel/internal/domains/booking/model"
	"time"
)

// IsAvailable reports whether [start, end) on the room is free of the given bookings.
// The check-out day is free, so a stay may begin on the day another ends. Cancelled and
// rejected bookings, bookings on other rooms and excludeID are ignored.
func IsAvailable(roomID string, start, end time.Time, bookings []model.Booking, excludeID string) bool {
	for _, b := range bookings {
		if b.RoomID != roomID || !b.Active() {
			continue
		}

		if excludeID != "" && b.ID == excludeID {
			continue
		}

		if start.Before(b.CheckOut) && end.After(b.CheckIn) {
			return false
		}
	}

	return true
}
