package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

const (
	lockKeyPrefix = "lock:collection:"

	minRetryDelay = 10 * time.Millisecond
	maxRetryDelay = 200 * time.Millisecond
)

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a schedule.Locker backed by one Redis key per
// collection, so several api-server processes can share a store.
// A busy key is retried with backoff for up to ttl; after that WithLock
// returns schedule.ErrLockNotAcquired.
func NewRedisLocker(client *redis.Client, ttl time.Duration) schedule.Locker {
	return &redisLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lockKey := lockKeyPrefix + key
	token := uuid.NewString()

	if err := l.acquire(ctx, lockKey, token); err != nil {
		return fmt.Errorf("acquire %s lock: %w", key, err)
	}

	defer func() {
		_ = l.release(context.WithoutCancel(ctx), lockKey, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

func (l *redisLocker) acquire(ctx context.Context, lockKey, token string) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	delay := minRetryDelay
	for {
		ok, err := l.client.SetNX(waitCtx, lockKey, token, l.ttl).Result()
		if ok {
			return nil
		}
		if err != nil && waitCtx.Err() == nil {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-waitCtx.Done():
			timer.Stop()
			if errors.Is(ctx.Err(), context.Canceled) {
				return ctx.Err()
			}
			return schedule.ErrLockNotAcquired
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}
