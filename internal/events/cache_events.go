package events

import "repair-desk/internal/entities"

const CacheInvalidatedEvent = "cache.invalidated"

// CacheInvalidated is published after a successful mutation has dropped its
// cache keys. Kinds lists key prefixes dropped as a whole.
type CacheInvalidated struct {
	Reason    string
	Keys      []string
	Kinds     []string
	Principal entities.Principal // set when every key is scoped to one identity
}

func (e CacheInvalidated) Name() string {
	return CacheInvalidatedEvent
}
