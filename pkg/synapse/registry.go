package synapse

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/toyz/synapse/pkg/synapse/expr"
)

// InvokerFunc dispatches an event to a listener instance. Generated code
// supplies one per listener type so dispatch needs no reflective calls.
type InvokerFunc func(listener any, ctx context.Context, event Event) error

// ListenerInfo is the registration record for an annotated listener type:
// the event type its Handle method declares, ordering and delivery
// metadata, an optional compiled condition and the static invoker.
type ListenerInfo struct {
	EventType reflect.Type
	Order     int
	HasOrder  bool
	Async     bool
	Condition *expr.Expression
	Invoke    InvokerFunc
}

// ListenerRegistry maps concrete listener types to their registration
// records. This side-table replaces runtime discovery of a listener's
// declared event type: generated code records the mapping at init time.
type ListenerRegistry interface {
	// Register records a listener type. Pointer types are normalized to
	// their element type.
	Register(listenerType reflect.Type, info ListenerInfo)

	// Lookup retrieves the record for a listener type
	Lookup(listenerType reflect.Type) (ListenerInfo, bool)

	// Types returns all registered listener types
	Types() []reflect.Type

	// Clear removes all registrations
	Clear()
}

// inMemoryListenerRegistry implements ListenerRegistry
type inMemoryListenerRegistry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]ListenerInfo
}

// NewListenerRegistry creates an empty listener registry
func NewListenerRegistry() ListenerRegistry {
	return &inMemoryListenerRegistry{
		entries: make(map[reflect.Type]ListenerInfo),
	}
}

func (r *inMemoryListenerRegistry) Register(listenerType reflect.Type, info ListenerInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[indirectType(listenerType)] = info
}

func (r *inMemoryListenerRegistry) Lookup(listenerType reflect.Type) (ListenerInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.entries[indirectType(listenerType)]
	return info, ok
}

func (r *inMemoryListenerRegistry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]reflect.Type, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	return types
}

func (r *inMemoryListenerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[reflect.Type]ListenerInfo)
}

// DefaultListenerRegistry is the global listener registry generated code
// registers into
var DefaultListenerRegistry = NewListenerRegistry()

// RegisterListenerType registers a listener type with the global registry
func RegisterListenerType(listenerType reflect.Type, info ListenerInfo) {
	DefaultListenerRegistry.Register(listenerType, info)
}

// EventTypeRegistry maps event names to event types so externally received
// payloads can be decoded into typed events
type EventTypeRegistry interface {
	// Register records an event name. Registering the same name for a
	// different type fails.
	Register(name string, eventType reflect.Type) error

	// Lookup resolves an event name to its type
	Lookup(name string) (reflect.Type, bool)

	// Name resolves an event type back to its registered name
	Name(eventType reflect.Type) (string, bool)

	// Names returns all registered event names, sorted
	Names() []string

	// Decode instantiates the named event type from a JSON payload and
	// stamps the source on it
	Decode(name string, data []byte, source any) (Event, error)

	// Clear removes all registrations
	Clear()
}

// inMemoryEventTypeRegistry implements EventTypeRegistry
type inMemoryEventTypeRegistry struct {
	mu      sync.RWMutex
	byName  map[string]reflect.Type
	byType  map[reflect.Type]string
}

// NewEventTypeRegistry creates an empty event type registry
func NewEventTypeRegistry() EventTypeRegistry {
	return &inMemoryEventTypeRegistry{
		byName: make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
}

func (r *inMemoryEventTypeRegistry) Register(name string, eventType reflect.Type) error {
	normalized := indirectType(eventType)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[name]; ok && existing != normalized {
		return fmt.Errorf("event name %q already registered for %s", name, existing)
	}
	r.byName[name] = normalized
	r.byType[normalized] = name
	return nil
}

func (r *inMemoryEventTypeRegistry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

func (r *inMemoryEventTypeRegistry) Name(eventType reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byType[indirectType(eventType)]
	return name, ok
}

func (r *inMemoryEventTypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *inMemoryEventTypeRegistry) Decode(name string, data []byte, source any) (Event, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, &UnknownEventError{Name: name}
	}

	pv := reflect.New(t)
	if len(data) > 0 {
		if err := json.Unmarshal(data, pv.Interface()); err != nil {
			return nil, fmt.Errorf("decoding %q payload: %w", name, err)
		}
	}

	event, ok := pv.Interface().(Event)
	if !ok {
		return nil, fmt.Errorf("type %s registered for %q does not implement Event", t, name)
	}
	if settable, ok := pv.Interface().(sourceSettable); ok {
		settable.setSource(source)
	}
	return event, nil
}

func (r *inMemoryEventTypeRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = make(map[string]reflect.Type)
	r.byType = make(map[reflect.Type]string)
}

// DefaultEventRegistry is the global event type registry
var DefaultEventRegistry = NewEventTypeRegistry()

// RegisterEventType registers an event name with the global registry
func RegisterEventType(name string, eventType reflect.Type) error {
	return DefaultEventRegistry.Register(name, eventType)
}

// MustRegisterEventType is RegisterEventType for init-time registration,
// panicking on conflicts
func MustRegisterEventType(name string, eventType reflect.Type) {
	if err := RegisterEventType(name, eventType); err != nil {
		panic(err)
	}
}

// OrderRegistry maps listener types to their configured order values
type OrderRegistry interface {
	Register(listenerType reflect.Type, order int)
	Lookup(listenerType reflect.Type) (int, bool)
	Clear()
}

// inMemoryOrderRegistry implements OrderRegistry
type inMemoryOrderRegistry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]int
}

// NewOrderRegistry creates an empty order registry
func NewOrderRegistry() OrderRegistry {
	return &inMemoryOrderRegistry{
		entries: make(map[reflect.Type]int),
	}
}

func (r *inMemoryOrderRegistry) Register(listenerType reflect.Type, order int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[indirectType(listenerType)] = order
}

func (r *inMemoryOrderRegistry) Lookup(listenerType reflect.Type) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.entries[indirectType(listenerType)]
	return order, ok
}

func (r *inMemoryOrderRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[reflect.Type]int)
}

// DefaultOrderRegistry is the global order registry
var DefaultOrderRegistry = NewOrderRegistry()

// RegisterOrder records the order value for a listener type in the global registry
func RegisterOrder(listenerType reflect.Type, order int) {
	DefaultOrderRegistry.Register(listenerType, order)
}

// indirectType strips pointers so registrations and lookups agree on a key
func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
