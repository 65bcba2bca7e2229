// Package lock serializes check-and-write sequences on rooms and bookings.
package lock

import (
	"context"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/failure"
	"slices"
	"time"

	goRedis "github.com/redis/go-redis/v9"
)

const (
	DriverRedis = "redis"
	DriverLocal = "local"

	roomKeyPrefix    = "lock:room:"
	bookingKeyPrefix = "lock:booking:"
)

// ErrNotAcquired is returned when a key stays held by someone else for the whole wait window.
var ErrNotAcquired = failure.Conflict("resource is being modified by another request, please retry")

// Release frees every key taken by a single Acquire call.
type Release func()

type Locker interface {
	// Acquire takes the keys in the given order and holds them until Release is called.
	// On failure every key already taken is released.
	Acquire(ctx context.Context, keys ...string) (Release, error)
}

func RoomKey(roomID string) string {
	return roomKeyPrefix + roomID
}

func BookingKey(bookingID string) string {
	return bookingKeyPrefix + bookingID
}

// Keys orders lock keys so that every caller takes them the same way: room keys sorted by
// id and deduplicated, then the booking key.
func Keys(bookingID string, roomIDs ...string) []string {
	rooms := slices.Clone(roomIDs)
	slices.Sort(rooms)
	rooms = slices.Compact(rooms)

	keys := make([]string, 0, len(rooms)+1)
	for _, id := range rooms {
		if id == "" {
			continue
		}

		keys = append(keys, RoomKey(id))
	}

	if bookingID != "" {
		keys = append(keys, BookingKey(bookingID))
	}

	return keys
}

// New picks the implementation configured by LOCK_DRIVER.
func New(cfg *config.Config, client *goRedis.Client, ot otel.Otel) Locker {
	ttl := time.Duration(cfg.Lock.TTLMs) * time.Millisecond
	wait := time.Duration(cfg.Lock.WaitMs) * time.Millisecond

	if cfg.Lock.Driver == DriverLocal || client == nil {
		return NewLocal(wait, ot)
	}

	return NewRedis(client, ttl, wait, ot)
}

func acquireAll(ctx context.Context, keys []string, one func(ctx context.Context, key string) (func(), error)) (Release, error) {
	releases := make([]func(), 0, len(keys))

	release := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range keys {
		unlock, err := one(ctx, key)
		if err != nil {
			release()

			return nil, err
		}

		releases = append(releases, unlock)
	}

	return release, nil
}
