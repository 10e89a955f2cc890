package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	maxFailures = 5
	window      = 15 * time.Minute
)

// LoginLimiter throttles failed login attempts per (email, ip) in redis.
// A nil limiter (no redis configured) allows everything.
type LoginLimiter struct {
	rdb *redis.Client
}

func NewLoginLimiter(rdb *redis.Client) *LoginLimiter {
	return &LoginLimiter{rdb: rdb}
}

func key(email, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", email, ip)
}

// Blocked reports whether the pair has exhausted its attempts. Redis
// errors fail open: a broken limiter must never lock users out.
func (l *LoginLimiter) Blocked(ctx context.Context, email, ip string) bool {
	if l == nil || l.rdb == nil {
		return false
	}

	n, err := l.rdb.Get(ctx, key(email, ip)).Int()
	if err != nil {
		return false
	}
	return n >= maxFailures
}

// RecordFailure bumps the counter and starts the window on the first
// failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email, ip string) {
	if l == nil || l.rdb == nil {
		return
	}

	k := key(email, ip)
	if n, err := l.rdb.Incr(ctx, k).Result(); err == nil && n == 1 {
		l.rdb.Expire(ctx, k, window)
	}
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) {
	if l == nil || l.rdb == nil {
		return
	}
	l.rdb.Del(ctx, key(email, ip))
}
