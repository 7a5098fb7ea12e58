package synapse

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taggedListener appends its tag to a shared log on every event
type taggedListener struct {
	tag string
	log *[]string
}

func (l *taggedListener) OnEvent(ctx context.Context, event Event) error {
	*l.log = append(*l.log, l.tag)
	return nil
}

// orderedTagged is a tagged listener with an intrinsic order
type orderedTagged struct {
	taggedListener
	order int
}

func (l *orderedTagged) Order() int {
	return l.order
}

// priorityTagged gets its order from a registration record
type priorityTagged struct {
	taggedListener
}

type failingListener struct {
	err error
}

func (l *failingListener) OnEvent(ctx context.Context, event Event) error {
	return l.err
}

type panickyListener struct{}

func (l *panickyListener) OnEvent(ctx context.Context, event Event) error {
	panic("exploded")
}

// inventoryProjector is a plain annotated-style handler: it has no OnEvent
// and relies entirely on its registration record
type inventoryProjector struct {
	mu   sync.Mutex
	seen []string
}

func (p *inventoryProjector) Handle(ctx context.Context, event *orderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, event.OrderID)
	return nil
}

func (p *inventoryProjector) orders() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.seen))
	copy(out, p.seen)
	return out
}

type inventoryAdjustedEvent struct {
	BaseEvent
	SKU string `json:"sku"`
}

func TestDispatcher_PublishInOrder(t *testing.T) {
	dispatcher := NewDispatcher()
	var log []string

	require.NoError(t, dispatcher.Subscribe(&taggedListener{tag: "c", log: &log}, WithOrder(3)))
	require.NoError(t, dispatcher.Subscribe(&taggedListener{tag: "a", log: &log}, WithOrder(1)))
	require.NoError(t, dispatcher.Subscribe(&taggedListener{tag: "b", log: &log}, WithOrder(2)))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))

	assert.Equal(t, []string{"a", "b", "c"}, log)
}

func TestDispatcher_EqualOrderKeepsSubscriptionOrder(t *testing.T) {
	dispatcher := NewDispatcher()
	var log []string

	for _, tag := range []string{"first", "second", "third"} {
		require.NoError(t, dispatcher.Subscribe(&taggedListener{tag: tag, log: &log}, WithOrder(5)))
	}

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))

	assert.Equal(t, []string{"first", "second", "third"}, log)
}

func TestDispatcher_OrderedListenerRunsBeforeUnordered(t *testing.T) {
	dispatcher := NewDispatcher()
	var log []string

	require.NoError(t, dispatcher.Subscribe(&taggedListener{tag: "late", log: &log}))
	require.NoError(t, dispatcher.Subscribe(&orderedTagged{
		taggedListener: taggedListener{tag: "early", log: &log},
		order:          1,
	}))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))

	assert.Equal(t, []string{"early", "late"}, log)
}

func TestDispatcher_RegisteredOrderUsed(t *testing.T) {
	DefaultOrderRegistry = NewOrderRegistry()
	defer DefaultOrderRegistry.Clear()
	RegisterOrder(reflect.TypeOf(&priorityTagged{}), 1)

	dispatcher := NewDispatcher()
	var log []string

	require.NoError(t, dispatcher.Subscribe(&taggedListener{tag: "late", log: &log}))
	require.NoError(t, dispatcher.Subscribe(&priorityTagged{taggedListener{tag: "early", log: &log}}))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))

	assert.Equal(t, []string{"early", "late"}, log)
}

func TestDispatcher_ExplicitOrderBeatsOrderedInterface(t *testing.T) {
	dispatcher := NewDispatcher()
	var log []string

	require.NoError(t, dispatcher.Subscribe(&orderedTagged{
		taggedListener: taggedListener{tag: "demoted", log: &log},
		order:          1,
	}, WithOrder(10)))
	require.NoError(t, dispatcher.Subscribe(&taggedListener{tag: "promoted", log: &log}, WithOrder(2)))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))

	assert.Equal(t, []string{"promoted", "demoted"}, log)
}

func TestDispatcher_TypedListenerOnlySeesItsEventType(t *testing.T) {
	dispatcher := NewDispatcher()
	handler := &createdHandler{}
	recorder := &recordingListener{}

	require.NoError(t, dispatcher.Subscribe(ListenerOf[*orderCreatedEvent](handler)))
	require.NoError(t, dispatcher.Subscribe(recorder))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))
	require.NoError(t, dispatcher.Publish(context.Background(), newOrderShipped("warehouse", "A-1")))

	assert.Equal(t, 1, handler.count())
	assert.Len(t, recorder.recorded(), 2)
}

func TestDispatcher_ExplicitEventTypeOverridesResolution(t *testing.T) {
	dispatcher := NewDispatcher()
	recorder := &recordingListener{}

	require.NoError(t, dispatcher.Subscribe(recorder, WithEventType(reflect.TypeOf(&orderShippedEvent{}))))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))
	require.NoError(t, dispatcher.Publish(context.Background(), newOrderShipped("warehouse", "A-1")))

	events := recorder.recorded()
	require.Len(t, events, 1)
	assert.IsType(t, &orderShippedEvent{}, events[0])
}

func TestDispatcher_ConditionFiltersEvents(t *testing.T) {
	dispatcher := NewDispatcher()
	recorder := &recordingListener{}

	require.NoError(t, dispatcher.Subscribe(recorder, WithCondition("event.Total > 100")))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "big", 150)))
	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "small", 50)))

	events := recorder.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "big", events[0].(*orderCreatedEvent).OrderID)
}

func TestDispatcher_ConditionSeesSource(t *testing.T) {
	dispatcher := NewDispatcher()
	recorder := &recordingListener{}

	require.NoError(t, dispatcher.Subscribe(recorder, WithCondition("source == 'checkout'")))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))
	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("backoffice", "A-2", 10)))

	events := recorder.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "A-1", events[0].(*orderCreatedEvent).OrderID)
}

func TestDispatcher_InvalidConditionFailsSubscribe(t *testing.T) {
	dispatcher := NewDispatcher()

	err := dispatcher.Subscribe(&recordingListener{}, WithCondition("event.Total >"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "compiling condition")
}

func TestDispatcher_ConditionEvaluationErrorIsReported(t *testing.T) {
	dispatcher := NewDispatcher()
	recorder := &recordingListener{}

	require.NoError(t, dispatcher.Subscribe(recorder, WithCondition("event.Missing > 1")))

	err := dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10))
	require.Error(t, err)

	var le *ListenerError
	require.True(t, errors.As(err, &le))
	assert.Same(t, recorder, le.Listener)
	assert.Contains(t, le.Err.Error(), "evaluating condition")
	assert.Empty(t, recorder.recorded())
}

func TestDispatcher_ListenerErrorsAggregate(t *testing.T) {
	dispatcher := NewDispatcher()
	errBoom := fmt.Errorf("boom")
	recorder := &recordingListener{}

	require.NoError(t, dispatcher.Subscribe(&failingListener{err: errBoom}))
	require.NoError(t, dispatcher.Subscribe(&failingListener{err: errBoom}))
	require.NoError(t, dispatcher.Subscribe(recorder))

	err := dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10))
	require.Error(t, err)

	var de *DispatchError
	require.True(t, errors.As(err, &de))
	assert.Len(t, de.Errors, 2)
	assert.True(t, errors.Is(err, errBoom))
	assert.Contains(t, err.Error(), "2 listeners failed")

	// A failing listener does not stop later listeners
	assert.Len(t, recorder.recorded(), 1)
}

func TestDispatcher_PanicRecovered(t *testing.T) {
	dispatcher := NewDispatcher()
	recorder := &recordingListener{}

	require.NoError(t, dispatcher.Subscribe(&panickyListener{}, WithOrder(1)))
	require.NoError(t, dispatcher.Subscribe(recorder, WithOrder(2)))

	err := dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10))
	require.Error(t, err)

	var pe *PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "exploded", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.Len(t, recorder.recorded(), 1)
}

func TestDispatcher_AsyncDelivery(t *testing.T) {
	dispatcher := NewDispatcher()
	recorder := &recordingListener{}

	require.NoError(t, dispatcher.Subscribe(recorder, WithAsync()))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))
	dispatcher.Drain()

	assert.Len(t, recorder.recorded(), 1)
}

func TestDispatcher_AsyncErrorsGoToHandler(t *testing.T) {
	var mu sync.Mutex
	var handled []error
	dispatcher := NewDispatcher(WithErrorHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, err)
	}))

	errBoom := fmt.Errorf("boom")
	require.NoError(t, dispatcher.Subscribe(&failingListener{err: errBoom}, WithAsync()))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))
	dispatcher.Drain()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, handled, 1)
	var le *ListenerError
	assert.True(t, errors.As(handled[0], &le))
	assert.True(t, errors.Is(handled[0], errBoom))
}

func TestDispatcher_AsyncPanicGoesToHandler(t *testing.T) {
	var mu sync.Mutex
	var handled []error
	dispatcher := NewDispatcher(WithErrorHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, err)
	}))

	require.NoError(t, dispatcher.Subscribe(&panickyListener{}, WithAsync()))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))
	dispatcher.Drain()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, handled, 1)
	var pe *PanicError
	assert.True(t, errors.As(handled[0], &pe))
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	dispatcher := NewDispatcher()
	first := &recordingListener{}
	second := &recordingListener{}

	require.NoError(t, dispatcher.Subscribe(first))
	require.NoError(t, dispatcher.Subscribe(second))

	assert.True(t, dispatcher.Unsubscribe(first))
	assert.False(t, dispatcher.Unsubscribe(first))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))

	assert.Empty(t, first.recorded())
	assert.Len(t, second.recorded(), 1)
}

func TestDispatcher_UnsubscribeListenerFunc(t *testing.T) {
	dispatcher := NewDispatcher()
	called := 0
	fn := ListenerFunc(func(ctx context.Context, event Event) error {
		called++
		return nil
	})

	require.NoError(t, dispatcher.Subscribe(fn))
	assert.True(t, dispatcher.Unsubscribe(fn))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))
	assert.Zero(t, called)
}

func TestDispatcher_SubscribeUnknownValueFails(t *testing.T) {
	dispatcher := NewDispatcher()

	err := dispatcher.Subscribe(42)
	require.Error(t, err)

	var se *SubscribeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 42, se.Value)
	assert.Contains(t, err.Error(), "not a Listener")
}

func TestDispatcher_SubscribeNilFails(t *testing.T) {
	dispatcher := NewDispatcher()
	assert.Error(t, dispatcher.Subscribe(nil))
}

func TestDispatcher_RegisteredValueBridged(t *testing.T) {
	DefaultListenerRegistry = NewListenerRegistry()
	defer DefaultListenerRegistry.Clear()

	RegisterListenerType(reflect.TypeOf(&inventoryProjector{}), ListenerInfo{
		EventType: reflect.TypeOf(&orderCreatedEvent{}),
		Invoke: func(listener any, ctx context.Context, event Event) error {
			return listener.(*inventoryProjector).Handle(ctx, event.(*orderCreatedEvent))
		},
	})

	dispatcher := NewDispatcher()
	projector := &inventoryProjector{}
	require.NoError(t, dispatcher.Subscribe(projector))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))
	require.NoError(t, dispatcher.Publish(context.Background(), newOrderShipped("warehouse", "A-1")))

	assert.Equal(t, []string{"A-1"}, projector.orders())
}

func TestDispatcher_RegisteredConditionAndAsync(t *testing.T) {
	DefaultListenerRegistry = NewListenerRegistry()
	defer DefaultListenerRegistry.Clear()

	RegisterListenerType(reflect.TypeOf(&inventoryProjector{}), ListenerInfo{
		EventType: reflect.TypeOf(&orderCreatedEvent{}),
		Async:     true,
		Condition: MustCondition("event.Total >= 100"),
		Invoke: func(listener any, ctx context.Context, event Event) error {
			return listener.(*inventoryProjector).Handle(ctx, event.(*orderCreatedEvent))
		},
	})

	dispatcher := NewDispatcher()
	projector := &inventoryProjector{}
	require.NoError(t, dispatcher.Subscribe(projector))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "big", 150)))
	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "small", 50)))
	dispatcher.Drain()

	assert.Equal(t, []string{"big"}, projector.orders())
}

func TestDispatcher_NameFilter(t *testing.T) {
	DefaultEventRegistry = NewEventTypeRegistry()
	defer DefaultEventRegistry.Clear()
	MustRegisterEventType("order.created", reflect.TypeOf(&orderCreatedEvent{}))
	MustRegisterEventType("inventory.adjusted", reflect.TypeOf(&inventoryAdjustedEvent{}))

	dispatcher := NewDispatcher(WithNameFilter(MustNamePattern("order.*")))
	recorder := &recordingListener{}
	require.NoError(t, dispatcher.Subscribe(recorder))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-1", 10)))
	require.NoError(t, dispatcher.Publish(context.Background(), &inventoryAdjustedEvent{BaseEvent: NewBaseEvent("stock"), SKU: "S-1"}))

	// Events without a registered name pass the filter
	require.NoError(t, dispatcher.Publish(context.Background(), newOrderShipped("warehouse", "A-1")))

	events := recorder.recorded()
	require.Len(t, events, 2)
	assert.IsType(t, &orderCreatedEvent{}, events[0])
	assert.IsType(t, &orderShippedEvent{}, events[1])
}

func TestDispatcher_SourceFilter(t *testing.T) {
	dispatcher := NewDispatcher(WithSourceFilter(reflect.TypeOf(WebhookSource{})))
	recorder := &recordingListener{}
	require.NoError(t, dispatcher.Subscribe(recorder))

	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated(WebhookSource{Remote: "10.0.0.9"}, "A-1", 10)))
	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated("checkout", "A-2", 10)))
	require.NoError(t, dispatcher.Publish(context.Background(), newOrderCreated(nil, "A-3", 10)))

	events := recorder.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "A-1", events[0].(*orderCreatedEvent).OrderID)
}

func TestDispatcher_Listeners(t *testing.T) {
	dispatcher := NewDispatcher()
	first := &recordingListener{}
	second := &recordingListener{}

	require.NoError(t, dispatcher.Subscribe(second, WithOrder(2)))
	require.NoError(t, dispatcher.Subscribe(first, WithOrder(1)))

	listeners := dispatcher.Listeners()
	require.Len(t, listeners, 2)
	assert.Same(t, first, listeners[0])
	assert.Same(t, second, listeners[1])
}

func TestDispatcher_ConcurrentPublish(t *testing.T) {
	dispatcher := NewDispatcher()
	recorder := &recordingListener{}
	require.NoError(t, dispatcher.Subscribe(recorder))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				event := newOrderCreated("checkout", fmt.Sprintf("A-%d-%d", g, i), 10)
				assert.NoError(t, dispatcher.Publish(context.Background(), event))
			}
		}(g)
	}
	wg.Wait()

	assert.Len(t, recorder.recorded(), 200)
}
