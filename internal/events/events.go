package events

import (
	"context"
	"time"
)

// ChannelMatches carries match events for downstream consumers, such as
// an email or push delivery worker.
const ChannelMatches = "matches"

// Event names carried in message attributes.
const EventMatchCreated = "match.created"

// MatchEvent is the payload published when an admin pairs two reports.
type MatchEvent struct {
	LostItemID   string    `json:"lostItemId"`
	FoundItemID  string    `json:"foundItemId"`
	LostOwnerID  string    `json:"lostOwnerId"`
	FoundOwnerID string    `json:"foundOwnerId"`
	ItemName     string    `json:"itemName"`
	MatchedAt    time.Time `json:"matchedAt"`
}

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Bus wraps a backend with a stable API.
type Bus struct {
	backend Backend
}

// New constructs a Bus for the provided backend.
func New(backend Backend) *Bus {
	return &Bus{backend: backend}
}

// Publish sends a message to the named channel.
func (b *Bus) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return b.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe consumes messages from the named channel.
func (b *Bus) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return b.backend.Subscribe(ctx, channel, handler)
}

// Close closes the underlying backend.
func (b *Bus) Close() error {
	return b.backend.Close()
}
