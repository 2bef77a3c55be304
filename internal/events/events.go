package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Topic names for admission domain events.
const (
	TopicApplicationSubmitted     = "application.submitted"
	TopicApplicationStatusChanged = "application.status_changed"
	TopicPaymentCreated           = "payment.created"
	TopicPaymentVerified          = "payment.verified"
)

// Event is the envelope published to the message broker.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent builds an event envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "admissions-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to the configured broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}
