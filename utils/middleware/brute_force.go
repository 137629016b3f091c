package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/utils/response"
	"go.uber.org/zap"
)

// AttemptStore is the counter store behind brute force protection.
// *cache.RedisCache satisfies it.
type AttemptStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const attemptWindow = 15 * time.Minute

// BruteForceProtection locks out client IPs after repeated failed logins.
// A nil store disables it.
type BruteForceProtection struct {
	store AttemptStore
	log   *zap.Logger
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(store AttemptStore, log *zap.Logger) *BruteForceProtection {
	return &BruteForceProtection{store: store, log: log}
}

func attemptKey(ip string) string { return fmt.Sprintf("brute_force:attempts:%s", ip) }
func lockKey(ip string) string    { return fmt.Sprintf("brute_force:lock:%s", ip) }

// LockDuration returns the lockout applied after the given number of failures
func LockDuration(attempts int64) time.Duration {
	switch {
	case attempts >= 25:
		return 24 * time.Hour
	case attempts >= 10:
		return time.Hour
	case attempts >= 5:
		return 2 * time.Minute
	default:
		return 0
	}
}

// CheckLock middleware rejects requests from a locked IP
func (b *BruteForceProtection) CheckLock() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b == nil || b.store == nil {
			return c.Next()
		}

		ctx := c.UserContext()
		key := lockKey(c.IP())

		locked, err := b.store.Exists(ctx, key)
		if err != nil {
			// a cache outage must not lock everyone out
			b.log.Warn("brute force lock check failed", zap.Error(err))
			return c.Next()
		}

		if locked {
			ttl, _ := b.store.TTL(ctx, key)
			retryAfter := int(ttl.Seconds())
			if retryAfter <= 0 {
				retryAfter = 60
			}

			rejected("brute_force", "locked")
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}

// RecordFailure counts a failed login and applies progressive lockouts
func (b *BruteForceProtection) RecordFailure(ctx context.Context, ip string) {
	if b == nil || b.store == nil {
		return
	}

	attempts, err := b.store.Increment(ctx, attemptKey(ip))
	if err != nil {
		b.log.Warn("brute force counter failed", zap.Error(err))
		return
	}
	if attempts == 1 {
		_ = b.store.Expire(ctx, attemptKey(ip), attemptWindow)
	}

	if d := LockDuration(attempts); d > 0 {
		if err := b.store.Set(ctx, lockKey(ip), "locked", d); err != nil {
			b.log.Warn("brute force lock failed", zap.Error(err))
			return
		}
		b.log.Info("client locked out", zap.String("ip", ip), zap.Int64("attempts", attempts), zap.Duration("for", d))
	}
}

// RecordSuccess clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccess(ctx context.Context, ip string) {
	if b == nil || b.store == nil {
		return
	}
	_ = b.store.Delete(ctx, attemptKey(ip), lockKey(ip))
}
