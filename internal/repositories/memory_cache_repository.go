package repositories

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryCacheRepository is a process-local cache store. Expired entries are
// dropped lazily on access.
type MemoryCacheRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCacheRepository) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return "", ErrCacheMiss
	}
	return e.value, nil
}

func (m *MemoryCacheRepository) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if expiration > 0 {
		e.expiresAt = m.now().Add(expiration)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryCacheRepository) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *MemoryCacheRepository) DelPrefix(_ context.Context, prefix string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryCacheRepository) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var (
		n    int64
		next memoryEntry
	)
	if e, ok := m.entries[key]; ok && !e.expired(m.now()) {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, err
		}
		n = parsed
		next.expiresAt = e.expiresAt
	}
	n++
	next.value = strconv.FormatInt(n, 10)
	m.entries[key] = next
	return n, nil
}

func (m *MemoryCacheRepository) Expire(_ context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil
	}
	if e.expired(m.now()) || expiration <= 0 {
		delete(m.entries, key)
		return nil
	}
	e.expiresAt = m.now().Add(expiration)
	m.entries[key] = e
	return nil
}

var _ CacheRepositoryInterface = (*MemoryCacheRepository)(nil)
