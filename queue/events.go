package queue

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	EventUserRegistered         = "user.registered"
	EventAdmissionCreated       = "admission.created"
	EventAdmissionStatusChanged = "admission.status_changed"
)

// Event is the envelope written to the topic
type Event struct {
	Type       string    `json:"type"`
	EntityID   uint      `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// EventBus publishes domain events. Failures are logged and never returned,
// so a broker outage cannot fail the request that produced the event.
type EventBus struct {
	publisher Publisher
	log       *zap.Logger
}

// NewEventBus wraps a publisher. A nil publisher makes Publish a no-op.
func NewEventBus(publisher Publisher, log *zap.Logger) *EventBus {
	return &EventBus{publisher: publisher, log: log}
}

// entityKey keys messages by entity kind and id, so every event type for one
// entity shares a partition.
func entityKey(eventType string, entityID uint) []byte {
	kind, _, _ := strings.Cut(eventType, ".")
	return []byte(kind + ":" + strconv.FormatUint(uint64(entityID), 10))
}

// Publish encodes and sends an event keyed by its entity id
func (b *EventBus) Publish(ctx context.Context, eventType string, entityID uint, payload any) {
	if b == nil || b.publisher == nil {
		return
	}

	value, err := json.Marshal(Event{
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		b.log.Error("encode event failed", zap.String("type", eventType), zap.Error(err))
		return
	}

	if err := b.publisher.PublishMessage(ctx, entityKey(eventType, entityID), value); err != nil {
		b.log.Warn("publish event failed",
			zap.String("type", eventType),
			zap.Uint("entity_id", entityID),
			zap.Error(err),
		)
	}
}
