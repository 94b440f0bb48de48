package websocket

import "time"

const MessageCacheInvalidated = "cache.invalidated"

// Envelope wraps every pushed message; Type tells the client what to do.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// InvalidationPayload lists cache keys whose cached answers are gone. Keys
// ending in ":" or "@" name a whole kind.
type InvalidationPayload struct {
	Keys   []string `json:"keys"`
	Reason string   `json:"reason"`
}
