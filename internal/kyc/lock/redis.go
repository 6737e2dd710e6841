package lock

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL       = 30 * time.Second
	DefaultRetryWait = 50 * time.Millisecond
	DefaultRetries   = 100

	keyPrefix = "verity:lock:"
)

// Redis is a Locker shared by every replica pointing at the same Redis.
type Redis struct {
	locker  *redislock.Client
	ttl     time.Duration
	retry   redislock.RetryStrategy
	release time.Duration
}

// NewRedis builds a Locker on rdb. Locks expire after ttl even if the holder
// crashes, so ttl must exceed the slowest step handler.
func NewRedis(rdb redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{
		locker:  redislock.New(rdb),
		ttl:     ttl,
		retry:   redislock.LimitRetry(redislock.LinearBackoff(DefaultRetryWait), DefaultRetries),
		release: 2 * time.Second,
	}
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	l, err := r.locker.Obtain(ctx, keyPrefix+key, r.ttl, &redislock.Options{RetryStrategy: r.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrBusy
	}
	if err != nil {
		return nil, err
	}

	return func() {
		// Release must run even when the request context is already gone.
		ctx, cancel := context.WithTimeout(context.Background(), r.release)
		defer cancel()

		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			slog.Warn("failed to release lock", "key", key, "error", err)
		}
	}, nil
}
