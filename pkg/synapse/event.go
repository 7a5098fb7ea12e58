// Package synapse is the public runtime for annotation-driven event
// dispatch: events, listeners, the dispatcher, ordering metadata and the
// registries that generated code populates.
package synapse

import (
	"time"

	"github.com/google/uuid"
)

// Event is the root interface all dispatched events implement. A listener
// whose declared event type resolves to this interface is treated as
// accepting every event.
type Event interface {
	// Source returns the object the event originated from, nil when unknown
	Source() any
}

// BaseEvent is the embeddable base for event structs. It carries the event
// source, a unique event ID and the creation timestamp.
type BaseEvent struct {
	source    any
	eventID   string
	timestamp time.Time
}

// NewBaseEvent creates a BaseEvent with a fresh ID and the current time
func NewBaseEvent(source any) BaseEvent {
	return BaseEvent{
		source:    source,
		eventID:   uuid.NewString(),
		timestamp: time.Now(),
	}
}

// Source returns the object the event originated from
func (e *BaseEvent) Source() any {
	return e.source
}

// EventID returns the unique ID assigned when the event was created
func (e *BaseEvent) EventID() string {
	return e.eventID
}

// Timestamp returns when the event was created
func (e *BaseEvent) Timestamp() time.Time {
	return e.timestamp
}

// setSource stamps events that were not built through NewBaseEvent, such as
// webhook payloads decoded straight into an event struct
func (e *BaseEvent) setSource(source any) {
	e.source = source
	if e.eventID == "" {
		e.eventID = uuid.NewString()
	}
	if e.timestamp.IsZero() {
		e.timestamp = time.Now()
	}
}

// sourceSettable is satisfied by anything embedding BaseEvent
type sourceSettable interface {
	setSource(source any)
}

// PayloadEvent wraps an arbitrary payload for callers that do not want to
// define their own event struct
type PayloadEvent[T any] struct {
	BaseEvent
	Payload T
}

// NewPayloadEvent creates a PayloadEvent around the given payload
func NewPayloadEvent[T any](source any, payload T) *PayloadEvent[T] {
	return &PayloadEvent[T]{
		BaseEvent: NewBaseEvent(source),
		Payload:   payload,
	}
}
