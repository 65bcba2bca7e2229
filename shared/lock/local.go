package lock

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/shared/constant"
	"sync"
	"time"
)

type localEntry struct {
	sem  chan struct{}
	refs int
}

// localLocker is an in-process keyed mutex for single-node and test deployments.
type localLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	wait    time.Duration
	otel    otel.Otel
}

func NewLocal(wait time.Duration, ot otel.Otel) Locker {
	return &localLocker{
		entries: map[string]*localEntry{},
		wait:    wait,
		otel:    ot,
	}
}

func (l *localLocker) Acquire(ctx context.Context, keys ...string) (release Release, err error) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelLockScopeName, constant.OtelLockScopeName+".local.Acquire")
	defer scope.End()
	defer scope.TraceIfError(err)

	return acquireAll(ctx, keys, l.acquire)
}

func (l *localLocker) acquire(ctx context.Context, key string) (func(), error) {
	entry := l.ref(key)

	var timeout <-chan time.Time

	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()

		timeout = timer.C
	}

	select {
	case entry.sem <- struct{}{}:
		var once sync.Once

		return func() {
			once.Do(func() {
				<-entry.sem
				l.unref(key)
			})
		}, nil
	case <-ctx.Done():
		l.unref(key)

		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, ctx.Err())
	case <-timeout:
		l.unref(key)

		return nil, ErrNotAcquired
	}
}

func (l *localLocker) ref(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = entry
	}

	entry.refs++

	return entry
}

func (l *localLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		return
	}

	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}
