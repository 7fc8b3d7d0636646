package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginAttemptStore is the slice of the Redis client the limiter needs.
// *redis.Client satisfies it.
type LoginAttemptStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginLimiter throttles login attempts per identifier using a fixed
// window counter. When the store is unreachable the limiter fails open:
// availability of login wins over throttling.
type LoginLimiter struct {
	store  LoginAttemptStore
	logger *zap.Logger
	limit  int
	window time.Duration
}

// NewLoginLimiter constructs the limiter. A nil store disables limiting.
func NewLoginLimiter(store LoginAttemptStore, logger *zap.Logger, limit int, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &LoginLimiter{store: store, logger: logger, limit: limit, window: window}
}

// Allow records an attempt for the identifier and reports whether it is
// still within the configured budget.
func (l *LoginLimiter) Allow(ctx context.Context, identifier string) bool {
	if l == nil || l.store == nil {
		return true
	}
	key := attemptKey(identifier)

	count, err := l.store.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.store.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.limit)
}

// Reset clears the attempt counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, identifier string) {
	if l == nil || l.store == nil {
		return
	}
	if err := l.store.Del(ctx, attemptKey(identifier)).Err(); err != nil {
		l.logger.Warn("login limiter reset failed", zap.Error(err))
	}
}

func attemptKey(identifier string) string {
	return "login_attempts:" + strings.ToLower(strings.TrimSpace(identifier))
}
