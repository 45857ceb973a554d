package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
	Payload() []byte
}

// BaseEvent provides a default implementation of DomainEvent.
type BaseEvent struct {
	occurredAt    time.Time
	eventType     string
	aggregateType string
	payload       []byte
	id            uuid.UUID
	aggregateID   uuid.UUID
}

// Option customizes a BaseEvent at construction.
type Option func(*BaseEvent)

// WithOccurredAt pins the occurrence time, normalized to UTC.
func WithOccurredAt(t time.Time) Option {
	return func(e *BaseEvent) {
		if !t.IsZero() {
			e.occurredAt = t.UTC()
		}
	}
}

// WithEventID overrides the generated event ID.
func WithEventID(id uuid.UUID) Option {
	return func(e *BaseEvent) { e.id = id }
}

// NewBaseEvent creates a BaseEvent with a generated UUID, stamped with the
// current time unless WithOccurredAt is given.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, payload []byte, opts ...Option) BaseEvent {
	e := BaseEvent{
		id:            uuid.New(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		occurredAt:    time.Now().UTC(),
		payload:       payload,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// MarshalPayload encodes v as a JSON event payload. Values that cannot be
// encoded yield an empty JSON object.
func MarshalPayload(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}

func (e BaseEvent) EventID() uuid.UUID     { return e.id }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseEvent) AggregateType() string  { return e.aggregateType }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }

// Payload returns the serialized event payload.
func (e BaseEvent) Payload() []byte {
	return e.payload
}
