package lock

import (
	"context"
	"errors"
	"fmt"
	"hotel/infras/otel"
	"hotel/shared/constant"
	"time"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisPollInterval = 25 * time.Millisecond

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goRedis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *goRedis.Client
	ttl    time.Duration
	wait   time.Duration
	otel   otel.Otel
}

func NewRedis(client *goRedis.Client, ttl, wait time.Duration, ot otel.Otel) Locker {
	return &redisLocker{client: client, ttl: ttl, wait: wait, otel: ot}
}

func (l *redisLocker) Acquire(ctx context.Context, keys ...string) (release Release, err error) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelLockScopeName, constant.OtelLockScopeName+".redis.Acquire")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("lock.keys", keys)

	return acquireAll(ctx, keys, l.acquire)
}

func (l *redisLocker) acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to acquire lock")

			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}

		if ok {
			return func() { l.release(key, token) }, nil
		}

		if time.Now().After(deadline) {
			log.Warn().Str("key", key).Dur("wait", l.wait).Msg("lock wait exceeded")

			return nil, ErrNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, ctx.Err())
		case <-time.After(redisPollInterval):
		}
	}
}

func (l *redisLocker) release(key, token string) {
	ctx := context.Background()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, goRedis.Nil) {
		log.Error().Err(err).Str("key", key).Msg("failed to release lock")
	}
}
