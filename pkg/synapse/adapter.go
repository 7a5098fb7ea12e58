package synapse

import (
	"context"
	"reflect"
)

var eventInterfaceType = reflect.TypeOf((*Event)(nil)).Elem()

// ListenerAdapter wraps a delegate Listener and decides which events it
// should receive. The event type the delegate declares is resolved exactly
// once, at construction; after that the adapter is immutable and safe for
// concurrent use.
type ListenerAdapter struct {
	delegate Listener
	declared reflect.Type
	smart    SmartListener
}

// NewListenerAdapter wraps a listener, resolving its declared event type
func NewListenerAdapter(delegate Listener) *ListenerAdapter {
	a := &ListenerAdapter{delegate: delegate}
	if smart, ok := delegate.(SmartListener); ok {
		a.smart = smart
	}
	a.declared = resolveDeclaredEventType(delegate)
	return a
}

// newListenerAdapterWithType wraps a listener with an explicitly declared
// event type, skipping resolution
func newListenerAdapterWithType(delegate Listener, declared reflect.Type) *ListenerAdapter {
	a := &ListenerAdapter{delegate: delegate, declared: declared}
	if smart, ok := delegate.(SmartListener); ok {
		a.smart = smart
	}
	return a
}

// resolveDeclaredEventType finds the event type a listener was declared
// for. An explicit EventTypeDeclarer capability wins, then the listener
// side-table keyed by the concrete type. While the result is absent or is
// the root Event interface and the listener wraps another one, resolution
// retries against the unwrapped target.
func resolveDeclaredEventType(l Listener) reflect.Type {
	declared := declaredEventTypeOf(l)
	for declared == nil || declared == eventInterfaceType {
		u, ok := l.(ListenerUnwrapper)
		if !ok {
			break
		}
		inner := u.Unwrap()
		if inner == nil {
			break
		}
		l = inner
		declared = declaredEventTypeOf(l)
	}
	return declared
}

func declaredEventTypeOf(l Listener) reflect.Type {
	if d, ok := l.(EventTypeDeclarer); ok {
		return d.DeclaredEventType()
	}
	if info, ok := DefaultListenerRegistry.Lookup(reflect.TypeOf(l)); ok {
		return info.EventType
	}
	return nil
}

// DeclaredEventType returns the resolved event type, nil when the listener
// accepts every event
func (a *ListenerAdapter) DeclaredEventType() reflect.Type {
	return a.declared
}

// SupportsEventType reports whether the wrapped listener should receive
// events of the given type. A SmartListener delegate decides for itself,
// otherwise the event type must be assignable to the declared type.
func (a *ListenerAdapter) SupportsEventType(eventType reflect.Type) bool {
	if a.smart != nil {
		return a.smart.SupportsEventType(eventType)
	}
	return a.declared == nil || eventType.AssignableTo(a.declared)
}

// SupportsSourceType reports whether the wrapped listener accepts events
// originating from the given source type. Only a SmartListener delegate
// filters by source; everything else accepts any source.
func (a *ListenerAdapter) SupportsSourceType(sourceType reflect.Type) bool {
	if a.smart != nil {
		return a.smart.SupportsSourceType(sourceType)
	}
	return true
}

// Order returns the delegate's own order when it implements Ordered, else
// LowestPrecedence
func (a *ListenerAdapter) Order() int {
	if ordered, ok := a.delegate.(Ordered); ok {
		return ordered.Order()
	}
	return LowestPrecedence
}

// OnEvent forwards the event to the wrapped listener
func (a *ListenerAdapter) OnEvent(ctx context.Context, event Event) error {
	return a.delegate.OnEvent(ctx, event)
}

// Unwrap exposes the wrapped listener
func (a *ListenerAdapter) Unwrap() Listener {
	return a.delegate
}
