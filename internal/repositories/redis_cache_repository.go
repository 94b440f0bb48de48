package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const scanBatch = 200

// RedisCacheRepository keeps cache entries under a namespace so several
// instances of the service can share one redis.
type RedisCacheRepository struct {
	client    *redis.Client
	namespace string
}

// NewRedisCacheRepository prefixes every key with namespace, followed by a
// colon unless namespace already ends in one.
func NewRedisCacheRepository(client *redis.Client, namespace string) CacheRepositoryInterface {
	if namespace != "" && !strings.HasSuffix(namespace, ":") {
		namespace += ":"
	}
	return &RedisCacheRepository{client: client, namespace: namespace}
}

func (r *RedisCacheRepository) key(k string) string {
	return r.namespace + k
}

func (r *RedisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, expiration).Err()
}

func (r *RedisCacheRepository) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.client.Del(ctx, full...).Err()
}

// DelPrefix walks the keyspace with SCAN so large caches never block redis.
func (r *RedisCacheRepository) DelPrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		cursor  uint64
		removed int64
	)
	pattern := r.key(prefix) + "*"
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += n
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func (r *RedisCacheRepository) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, r.key(key)).Result()
}

func (r *RedisCacheRepository) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return r.client.Expire(ctx, r.key(key), expiration).Err()
}
