package messaging

import (
	"context"
	"time"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Event is the envelope published for every domain event.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NopBroker drops everything. Used when no broker is configured.
type NopBroker struct{}

func (NopBroker) Publish(context.Context, string, interface{}) error { return nil }

func (NopBroker) Close() error { return nil }
