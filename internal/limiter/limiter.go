package limiter

import (
	"context"
	"fmt"
	"time"

	appErr "holdem-service/pkg/errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "holdem:rl:"

// Limiter enforces fixed-window per-identifier rate limits backed by the
// shared key-value store (INCR + EXPIRE). The window resets when its key
// expires.
type Limiter struct {
	rdb    *redis.Client
	window time.Duration
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb, window: time.Minute}
}

// Allow records one attempt under the given scope/identifier and returns
// ErrRateLimited once the window budget is exhausted. A nil limiter or a
// non-positive budget allows everything, so callers need no special casing
// when limits are disabled.
func (l *Limiter) Allow(ctx context.Context, scope string, subjectID int64, perWindow int) error {
	if l == nil || perWindow <= 0 {
		return nil
	}

	key := fmt.Sprintf("%s%s:%d", keyPrefix, scope, subjectID)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		// The KV store being down must not take the tables with it.
		return nil
	}
	if count == 1 {
		l.rdb.Expire(ctx, key, l.window)
	}
	if count > int64(perWindow) {
		return appErr.ErrRateLimited
	}
	return nil
}

// Reset clears every counter under a scope, e.g. after an operator unbans
// an identifier.
func (l *Limiter) Reset(ctx context.Context, scope string) error {
	if l == nil {
		return nil
	}

	pattern := keyPrefix + scope + ":*"
	iter := l.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := l.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
