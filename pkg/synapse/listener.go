package synapse

import (
	"context"
	"reflect"
)

// Listener receives dispatched events
type Listener interface {
	OnEvent(ctx context.Context, event Event) error
}

// ListenerFunc adapts a function to the Listener interface
type ListenerFunc func(ctx context.Context, event Event) error

// OnEvent implements Listener
func (f ListenerFunc) OnEvent(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// TypedListener handles one concrete event type. Annotated listener structs
// satisfy it implicitly through their Handle method.
type TypedListener[E Event] interface {
	Handle(ctx context.Context, event E) error
}

// SmartListener is a Listener that does its own fine-grained event and
// source filtering. Adapters defer to it entirely instead of using the
// declared-event-type inference.
type SmartListener interface {
	Listener

	// SupportsEventType reports whether the listener wants events of the given type
	SupportsEventType(eventType reflect.Type) bool

	// SupportsSourceType reports whether the listener wants events from the given source type
	SupportsSourceType(sourceType reflect.Type) bool
}

// Ordered is implemented by listeners that carry their own invocation
// order. Lower values run earlier.
type Ordered interface {
	Order() int
}

// EventTypeDeclarer is implemented by listeners that expose the event type
// they were declared to handle. ListenerOf captures it from the type
// parameter; generated registrations expose it through the listener
// side-table bridge.
type EventTypeDeclarer interface {
	DeclaredEventType() reflect.Type
}

// ListenerUnwrapper is implemented by decorating listeners that wrap
// another listener. Declared-event-type resolution walks the chain when the
// outer listener's own declaration is absent or overly general.
type ListenerUnwrapper interface {
	Unwrap() Listener
}

// typedListener bridges a TypedListener to the Listener interface. The
// declared event type is captured from the type parameter exactly once, at
// construction.
type typedListener[E Event] struct {
	delegate  TypedListener[E]
	eventType reflect.Type
}

// ListenerOf wraps a typed listener into a Listener that only receives
// events assignable to its type parameter. Events of other types are
// skipped silently.
func ListenerOf[E Event](delegate TypedListener[E]) Listener {
	return &typedListener[E]{
		delegate:  delegate,
		eventType: reflect.TypeOf((*E)(nil)).Elem(),
	}
}

// OnEvent implements Listener
func (l *typedListener[E]) OnEvent(ctx context.Context, event Event) error {
	typed, ok := event.(E)
	if !ok {
		return nil
	}
	return l.delegate.Handle(ctx, typed)
}

// DeclaredEventType implements EventTypeDeclarer
func (l *typedListener[E]) DeclaredEventType() reflect.Type {
	return l.eventType
}
