package synapse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBaseEvent(t *testing.T) {
	event := NewBaseEvent("checkout-service")

	assert.Equal(t, "checkout-service", event.Source())
	assert.NotEmpty(t, event.EventID())
	assert.False(t, event.Timestamp().IsZero())
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	first := NewBaseEvent(nil)
	second := NewBaseEvent(nil)

	assert.NotEqual(t, first.EventID(), second.EventID())
}

func TestPayloadEvent(t *testing.T) {
	type refund struct {
		OrderID string
		Amount  float64
	}

	event := NewPayloadEvent("billing", refund{OrderID: "A-9", Amount: 12.50})

	var _ Event = event
	assert.Equal(t, "billing", event.Source())
	assert.Equal(t, "A-9", event.Payload.OrderID)
	assert.Equal(t, 12.50, event.Payload.Amount)
}
