package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"repair-desk/internal/events"
	"repair-desk/pkg/eventbus"
	"repair-desk/pkg/websocket"
)

// Pusher is the part of the websocket hub the listener needs.
type Pusher interface {
	Broadcast(messageType string, payload interface{}) error
	SendToPrincipal(principal, messageType string, payload interface{}) error
}

// InvalidationListener tells connected browsers which cached answers are
// gone so they refetch instead of waiting for a TTL.
type InvalidationListener struct {
	pusher Pusher
	logger *zap.Logger
}

func NewInvalidationListener(pusher Pusher, logger *zap.Logger) *InvalidationListener {
	return &InvalidationListener{pusher: pusher, logger: logger}
}

func (l *InvalidationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.CacheInvalidatedEvent, l.handle)
}

func (l *InvalidationListener) handle(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.CacheInvalidated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	payload := websocket.InvalidationPayload{
		Keys:   append(append([]string{}, e.Keys...), e.Kinds...),
		Reason: e.Reason,
	}
	l.logger.Debug("pushing cache invalidation",
		zap.String("reason", e.Reason),
		zap.Strings("keys", payload.Keys),
		zap.String("principal", string(e.Principal)),
	)
	if e.Principal != "" {
		return l.pusher.SendToPrincipal(string(e.Principal), websocket.MessageCacheInvalidated, payload)
	}
	return l.pusher.Broadcast(websocket.MessageCacheInvalidated, payload)
}
