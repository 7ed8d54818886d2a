package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventName identifies a notification emitted by the marketplace core.
type EventName string

const (
	EventOrderCreated       EventName = "orderCreated"
	EventOrderStatusUpdated EventName = "orderStatusUpdated"
	EventCartUpdated        EventName = "cartUpdated"
)

// MarketEvent is the payload published on the notification bus. Listeners use it
// to refresh their views; the core never consumes these events itself.
type MarketEvent struct {
	Name       EventName `json:"name"`
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	ActorID    uuid.UUID `json:"actor_id"`
	OrderID    string    `json:"order_id,omitempty"`
	StoreID    int64     `json:"store_id,omitempty"`
	BuyerID    string    `json:"buyer_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message bus
type EventPublisher interface {
	// Publish delivers one event. Implementations may block until the bus acknowledges it.
	Publish(ctx context.Context, event *MarketEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
