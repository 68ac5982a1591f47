package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter tracks failed logins per key.
type LoginLimiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// counterStore is the part of redis.Cmdable the limiter uses.
type counterStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLoginLimiter counts failures in a fixed window using INCR and EXPIRE.
type RedisLoginLimiter struct {
	store       counterStore
	maxAttempts int
	window      time.Duration
}

// NewRedisLoginLimiter builds a limiter. Non-positive limits fall back to 10
// attempts per 15 minutes.
func NewRedisLoginLimiter(store counterStore, maxAttempts int, window time.Duration) *RedisLoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLoginLimiter{store: store, maxAttempts: maxAttempts, window: window}
}

// LoginKey builds the counter key for an email and client address.
func LoginKey(email, ip string) string {
	return "login:failures:" + strings.ToLower(email) + ":" + ip
}

func (l *RedisLoginLimiter) Blocked(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= l.maxAttempts, nil
}

func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, key string) error {
	count, err := l.store.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return l.store.Expire(ctx, key, l.window).Err()
	}
	return nil
}

func (l *RedisLoginLimiter) Reset(ctx context.Context, key string) error {
	return l.store.Del(ctx, key).Err()
}
