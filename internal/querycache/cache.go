// Package querycache caches backend reads by key.
//
// Reads wait for the backend session and share one backend call per key
// among concurrent callers. Absent answers are cached only for kinds whose
// invalidation covers the key coming into existence. Every key has an epoch
// in the store; invalidation bumps it, and a fetch that straddled an
// invalidation is discarded instead of written back.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"repair-desk/internal/backend"
	"repair-desk/internal/repositories"
	"repair-desk/pkg/metrics"
)

const (
	epochPrefix = "epoch/"

	defaultFetchTimeout = 30 * time.Second
	defaultEpochTTL     = time.Hour
)

type Cache struct {
	store        repositories.CacheRepositoryInterface
	session      *backend.Readiness
	readyWait    time.Duration
	fetchTimeout time.Duration
	epochTTL     time.Duration
	group        singleflight.Group
	logger       *zap.Logger
}

type Option func(*Cache)

// WithFetchTimeout bounds a shared backend read. The read outlives any one
// caller, so it needs a deadline of its own.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithEpochTTL sets how long an epoch counter lives after its last bump. It
// must be at least the longest entry TTL.
func WithEpochTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.epochTTL = d
		}
	}
}

func New(store repositories.CacheRepositoryInterface, session *backend.Readiness, readyWait time.Duration, logger *zap.Logger, opts ...Option) *Cache {
	c := &Cache{
		store:        store,
		session:      session,
		readyWait:    readyWait,
		fetchTimeout: defaultFetchTimeout,
		epochTTL:     defaultEpochTTL,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WaitReady blocks until the backend session is up, at most readyWait.
func (c *Cache) WaitReady(ctx context.Context) error {
	if c.session.Ready() {
		return nil
	}
	waitCtx, cancel := context.WithTimeout(ctx, c.readyWait)
	defer cancel()
	return c.session.Wait(waitCtx)
}

type epochs struct {
	key, kind int64
}

func (c *Cache) epoch(ctx context.Context, name string) int64 {
	raw, err := c.store.Get(ctx, epochPrefix+name)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			c.logger.Warn("query cache: epoch read failed", zap.String("key", name), zap.Error(err))
		}
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (c *Cache) snapshot(ctx context.Context, key Key) epochs {
	return epochs{
		key:  c.epoch(ctx, key.String()),
		kind: c.epoch(ctx, Prefix(key.Kind)),
	}
}

// Fetch answers key from the cache, or runs fetch once for all concurrent
// callers and caches its JSON form for ttl. The shared fetch runs detached
// from ctx; cancelling ctx only abandons this caller's wait.
func Fetch[T any](ctx context.Context, c *Cache, key Key, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := c.WaitReady(ctx); err != nil {
		return zero, err
	}

	name := key.String()
	kind := string(key.Kind)

	raw, err := c.store.Get(ctx, name)
	switch {
	case err == nil:
		var out T
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			metrics.CacheHit(kind)
			c.logger.Debug("query cache hit", zap.String("key", name))
			return out, nil
		}
		c.logger.Warn("query cache: corrupt entry, refetching", zap.String("key", name))
	case !errors.Is(err, repositories.ErrCacheMiss):
		c.logger.Warn("query cache: store read failed", zap.String("key", name), zap.Error(err))
	}
	metrics.CacheMiss(kind)

	// Callers arriving after an invalidation must not join a flight that
	// started before it, so the epochs are part of the flight key.
	before := c.snapshot(ctx, key)
	flight := fmt.Sprintf("%s#%d.%d", name, before.key, before.kind)
	ch := c.group.DoChan(flight, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		if string(encoded) == "null" && !key.Kind.CachesAbsent() {
			return encoded, nil
		}
		c.writeBack(fetchCtx, key, before, encoded, ttl)
		return encoded, nil
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if res.Err != nil {
		return zero, res.Err
	}

	// Each caller decodes its own copy so no two callers alias one value.
	var out T
	if err := json.Unmarshal(res.Val.([]byte), &out); err != nil {
		return zero, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

// writeBack stores encoded unless key was invalidated since before. The
// epoch is checked after the write as well, since an invalidation may land
// between the check and the write.
func (c *Cache) writeBack(ctx context.Context, key Key, before epochs, encoded []byte, ttl time.Duration) {
	name := key.String()
	if c.snapshot(ctx, key) != before {
		metrics.StaleDiscarded(string(key.Kind))
		c.logger.Debug("query cache: discarding superseded fetch", zap.String("key", name))
		return
	}
	if err := c.store.Set(ctx, name, string(encoded), ttl); err != nil {
		c.logger.Warn("query cache: store write failed", zap.String("key", name), zap.Error(err))
		return
	}
	if c.snapshot(ctx, key) != before {
		metrics.StaleDiscarded(string(key.Kind))
		if err := c.store.Del(ctx, name); err != nil {
			c.logger.Warn("query cache: failed to drop superseded entry", zap.String("key", name), zap.Error(err))
		}
	}
}

// bump advances an epoch counter. Counters expire epochTTL after their last
// bump; by then every entry written under them has expired as well.
func (c *Cache) bump(ctx context.Context, epochKey string) error {
	if _, err := c.store.Incr(ctx, epochKey); err != nil {
		return err
	}
	return c.store.Expire(ctx, epochKey, c.epochTTL)
}

// Invalidate drops the given keys. In-flight fetches for them are discarded.
func (c *Cache) Invalidate(ctx context.Context, keys ...Key) error {
	for _, key := range keys {
		name := key.String()
		if err := c.bump(ctx, epochPrefix+name); err != nil {
			return fmt.Errorf("bump epoch of %s: %w", name, err)
		}
		if err := c.store.Del(ctx, name); err != nil {
			return fmt.Errorf("invalidate %s: %w", name, err)
		}
		metrics.CacheInvalidated(string(key.Kind))
		c.logger.Debug("query cache: invalidated", zap.String("key", name))
	}
	return nil
}

// InvalidateKind drops every key of kind that carries an argument or
// principal, e.g. all fullServiceRequest:<id> entries.
func (c *Cache) InvalidateKind(ctx context.Context, kind Kind) error {
	prefix := Prefix(kind)
	if err := c.bump(ctx, epochPrefix+prefix); err != nil {
		return fmt.Errorf("bump epoch of %s*: %w", prefix, err)
	}
	removed, err := c.store.DelPrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("invalidate %s*: %w", prefix, err)
	}
	metrics.CacheInvalidated(string(kind))
	c.logger.Debug("query cache: invalidated kind", zap.String("prefix", prefix), zap.Int64("removed", removed))
	return nil
}
