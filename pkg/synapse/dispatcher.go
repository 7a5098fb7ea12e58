package synapse

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/toyz/synapse/pkg/synapse/expr"
)

// ErrorHandler receives failures from async listeners, which have no
// caller to return an error to
type ErrorHandler func(err error)

var defaultErrorHandler ErrorHandler = func(err error) {
	log.Printf("synapse: async listener error: %v", err)
}

// subscription pairs an adapted listener with its resolved dispatch
// metadata. Immutable after Subscribe.
type subscription struct {
	raw       any
	adapter   *ListenerAdapter
	order     int
	async     bool
	condition *expr.Expression
}

// registryListener bridges a plain annotated value into a Listener using
// its generated registration record. The record carries the declared event
// type, so adapters built over this bridge never inspect the value itself.
type registryListener struct {
	target any
	info   ListenerInfo
}

func (l *registryListener) OnEvent(ctx context.Context, event Event) error {
	return l.info.Invoke(l.target, ctx, event)
}

func (l *registryListener) DeclaredEventType() reflect.Type {
	return l.info.EventType
}

// Dispatcher multicasts published events to matching subscribed listeners.
// Synchronous listeners run in order on the publishing goroutine; async
// listeners run on their own goroutines with errors routed to the error
// handler. Safe for concurrent use.
type Dispatcher struct {
	mu           sync.RWMutex
	subs         []*subscription
	errorHandler ErrorHandler
	nameFilter   *NamePattern
	sourceFilter reflect.Type
	asyncWG      sync.WaitGroup
}

// DispatcherOption configures a Dispatcher at construction
type DispatcherOption func(*Dispatcher)

// WithErrorHandler routes async listener failures to h instead of the
// default stderr log
func WithErrorHandler(h ErrorHandler) DispatcherOption {
	return func(d *Dispatcher) {
		d.errorHandler = h
	}
}

// WithNameFilter restricts the dispatcher to events whose registered name
// matches the pattern. Events without a registered name are unaffected.
func WithNameFilter(pattern *NamePattern) DispatcherOption {
	return func(d *Dispatcher) {
		d.nameFilter = pattern
	}
}

// WithSourceFilter restricts the dispatcher to events whose source is
// assignable to the given type
func WithSourceFilter(sourceType reflect.Type) DispatcherOption {
	return func(d *Dispatcher) {
		d.sourceFilter = sourceType
	}
}

// NewDispatcher creates a dispatcher with the given options
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// subscribeOptions collects per-subscription overrides
type subscribeOptions struct {
	order     int
	hasOrder  bool
	async     bool
	condition string
	hasCond   bool
	eventType reflect.Type
}

// SubscribeOption configures a single subscription
type SubscribeOption func(*subscribeOptions)

// WithOrder sets the subscription's order explicitly, overriding Ordered
// and any registered order
func WithOrder(order int) SubscribeOption {
	return func(o *subscribeOptions) {
		o.order = order
		o.hasOrder = true
	}
}

// WithAsync delivers events to this subscription on a separate goroutine
func WithAsync() SubscribeOption {
	return func(o *subscribeOptions) {
		o.async = true
	}
}

// WithCondition gates delivery on an expression evaluated against the
// event and source variables. Overrides any registered condition.
func WithCondition(source string) SubscribeOption {
	return func(o *subscribeOptions) {
		o.condition = source
		o.hasCond = true
	}
}

// WithEventType fixes the declared event type for this subscription,
// bypassing resolution entirely
func WithEventType(eventType reflect.Type) SubscribeOption {
	return func(o *subscribeOptions) {
		o.eventType = eventType
	}
}

// Subscribe registers a listener with the dispatcher. The target may be a
// Listener, or any value whose concrete type has a registration record;
// anything else fails with a SubscribeError.
func (d *Dispatcher) Subscribe(target any, opts ...SubscribeOption) error {
	if target == nil {
		return fmt.Errorf("cannot subscribe nil listener")
	}

	var options subscribeOptions
	for _, opt := range opts {
		opt(&options)
	}

	info, registered := DefaultListenerRegistry.Lookup(reflect.TypeOf(target))

	var delegate Listener
	if l, ok := target.(Listener); ok {
		delegate = l
	} else if registered {
		delegate = &registryListener{target: target, info: info}
	} else {
		return &SubscribeError{Value: target}
	}

	var adapter *ListenerAdapter
	if options.eventType != nil {
		adapter = newListenerAdapterWithType(delegate, options.eventType)
	} else {
		adapter = NewListenerAdapter(delegate)
	}

	var cond *expr.Expression
	switch {
	case options.hasCond:
		compiled, err := expr.Compile(options.condition)
		if err != nil {
			return fmt.Errorf("compiling condition %q: %w", options.condition, err)
		}
		cond = compiled
	case registered:
		cond = info.Condition
	}

	sub := &subscription{
		raw:       target,
		adapter:   adapter,
		order:     resolveOrder(target, options),
		async:     options.async || (registered && info.Async),
		condition: cond,
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs, sub)
	sort.SliceStable(d.subs, func(i, j int) bool {
		return d.subs[i].order < d.subs[j].order
	})
	return nil
}

// resolveOrder picks the subscription order: explicit option first, then
// the Ordered interface, then the registered order or priority, then last
func resolveOrder(target any, options subscribeOptions) int {
	if options.hasOrder {
		return options.order
	}
	if ordered, ok := target.(Ordered); ok {
		return ordered.Order()
	}
	if t := reflect.TypeOf(target); t != nil {
		if order, ok := OrderOf(t); ok {
			return order
		}
	}
	return LowestPrecedence
}

// Unsubscribe removes every subscription of the given listener, matched by
// identity, and reports whether any was removed
func (d *Dispatcher) Unsubscribe(target any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := make([]*subscription, 0, len(d.subs))
	removed := false
	for _, sub := range d.subs {
		if sameListener(sub.raw, target) {
			removed = true
			continue
		}
		kept = append(kept, sub)
	}
	d.subs = kept
	return removed
}

// sameListener matches two subscribed values by identity. Comparable types
// compare directly; funcs, maps and slices compare by pointer.
func sameListener(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	switch ta.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	return false
}

// Listeners returns the subscribed values in dispatch order
func (d *Dispatcher) Listeners() []any {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]any, len(d.subs))
	for i, sub := range d.subs {
		out[i] = sub.raw
	}
	return out
}

// Publish delivers the event to every matching subscription. Synchronous
// listener failures are aggregated into a DispatchError; async failures go
// to the error handler.
func (d *Dispatcher) Publish(ctx context.Context, event Event) error {
	if event == nil {
		return fmt.Errorf("cannot publish nil event")
	}
	if !d.shouldDeliver(event) {
		return nil
	}

	subs := d.snapshot()
	eventType := reflect.TypeOf(event)
	var sourceType reflect.Type
	if src := event.Source(); src != nil {
		sourceType = reflect.TypeOf(src)
	}

	var failures []error
	for _, sub := range subs {
		if !sub.adapter.SupportsEventType(eventType) {
			continue
		}
		if sourceType != nil && !sub.adapter.SupportsSourceType(sourceType) {
			continue
		}
		ok, err := evalCondition(sub.condition, event)
		if err != nil {
			failures = append(failures, &ListenerError{Listener: sub.raw, Event: event, Err: err})
			continue
		}
		if !ok {
			continue
		}

		if sub.async {
			d.dispatchAsync(ctx, sub, event)
			continue
		}
		if err := d.invoke(ctx, sub, event); err != nil {
			failures = append(failures, &ListenerError{Listener: sub.raw, Event: event, Err: err})
		}
	}

	if len(failures) > 0 {
		return &DispatchError{Errors: failures}
	}
	return nil
}

// shouldDeliver applies the dispatcher-level name and source filters
func (d *Dispatcher) shouldDeliver(event Event) bool {
	if d.nameFilter != nil {
		if name, ok := DefaultEventRegistry.Name(reflect.TypeOf(event)); ok && !d.nameFilter.Matches(name) {
			return false
		}
	}
	if d.sourceFilter != nil {
		src := event.Source()
		if src == nil || !reflect.TypeOf(src).AssignableTo(d.sourceFilter) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) snapshot() []*subscription {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*subscription, len(d.subs))
	copy(out, d.subs)
	return out
}

// invoke runs one listener with panic recovery
func (d *Dispatcher) invoke(ctx context.Context, sub *subscription, event Event) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()
	return sub.adapter.OnEvent(ctx, event)
}

func (d *Dispatcher) dispatchAsync(ctx context.Context, sub *subscription, event Event) {
	d.asyncWG.Add(1)
	go func() {
		defer d.asyncWG.Done()
		if err := d.invoke(ctx, sub, event); err != nil {
			d.errorHandler(&ListenerError{Listener: sub.raw, Event: event, Err: err})
		}
	}()
}

// Drain blocks until all in-flight async deliveries have finished
func (d *Dispatcher) Drain() {
	d.asyncWG.Wait()
}
