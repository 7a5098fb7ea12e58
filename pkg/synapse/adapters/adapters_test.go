package adapters

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/toyz/synapse/pkg/synapse"
)

// paymentReceived is the event the adapter tests post through each framework
type paymentReceived struct {
	synapse.BaseEvent
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
}

// paymentRecorder collects every event dispatched to it
type paymentRecorder struct {
	mu     sync.Mutex
	events []synapse.Event
}

func (r *paymentRecorder) OnEvent(ctx context.Context, event synapse.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *paymentRecorder) recorded() []synapse.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]synapse.Event, len(r.events))
	copy(out, r.events)
	return out
}

// newWebhookFixture builds a webhook handler over a fresh event registry
// with payment.received registered and a recording listener subscribed
func newWebhookFixture(t *testing.T) (*synapse.WebhookHandler, *paymentRecorder) {
	t.Helper()

	synapse.DefaultEventRegistry = synapse.NewEventTypeRegistry()
	t.Cleanup(func() { synapse.DefaultEventRegistry.Clear() })
	synapse.MustRegisterEventType("payment.received", reflect.TypeOf(&paymentReceived{}))

	dispatcher := synapse.NewDispatcher()
	recorder := &paymentRecorder{}
	if err := dispatcher.Subscribe(recorder); err != nil {
		t.Fatalf("Failed to subscribe recorder: %v", err)
	}

	return synapse.NewWebhookHandler(dispatcher), recorder
}
