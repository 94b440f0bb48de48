package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss means the key holds no entry. An entry holding an absent value
// is a hit.
var ErrCacheMiss = errors.New("cache miss")

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	// DelPrefix removes every key starting with prefix and reports how many.
	DelPrefix(ctx context.Context, prefix string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	// Expire resets the lifetime of an existing key. Missing keys are left alone.
	Expire(ctx context.Context, key string, expiration time.Duration) error
}
