package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

type outbound struct {
	principal string // empty means everyone
	message   []byte
}

// Hub tracks open sockets and fans messages out to them.
type Hub struct {
	clients    map[*Client]struct{}
	byUser     map[string]map[*Client]struct{}
	outbound   chan outbound
	Register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		byUser:     make(map[string]map[*Client]struct{}),
		outbound:   make(chan outbound, 64),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run serves the hub until ctx ends, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			return
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			if client.Principal != "" {
				if h.byUser[client.Principal] == nil {
					h.byUser[client.Principal] = make(map[*Client]struct{})
				}
				h.byUser[client.Principal][client] = struct{}{}
			}
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", zap.String("client", client.ID), zap.String("principal", client.Principal))
		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()
		case out := <-h.outbound:
			h.mu.Lock()
			targets := h.clients
			if out.principal != "" {
				targets = h.byUser[out.principal]
			}
			for client := range targets {
				select {
				case client.Send <- out.message:
				default:
					// Slow reader: it reconnects and refetches.
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes client; callers hold h.mu.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	if set := h.byUser[client.Principal]; set != nil {
		delete(set, client)
		if len(set) == 0 {
			delete(h.byUser, client.Principal)
		}
	}
	close(client.Send)
	h.logger.Debug("websocket client dropped", zap.String("client", client.ID))
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func envelope(messageType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Envelope{Type: messageType, Payload: payload, Timestamp: time.Now().UTC()})
}

// Broadcast queues payload for every client.
func (h *Hub) Broadcast(messageType string, payload interface{}) error {
	message, err := envelope(messageType, payload)
	if err != nil {
		return err
	}
	h.outbound <- outbound{message: message}
	return nil
}

// SendToPrincipal queues payload for the sockets of one identity only.
func (h *Hub) SendToPrincipal(principal, messageType string, payload interface{}) error {
	message, err := envelope(messageType, payload)
	if err != nil {
		return err
	}
	h.outbound <- outbound{principal: principal, message: message}
	return nil
}
