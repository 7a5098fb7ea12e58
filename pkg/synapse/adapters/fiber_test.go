package adapters

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
)

func TestFiberAdapter_BasicFunctionality(t *testing.T) {
	handler, recorder := newWebhookFixture(t)

	// Create Fiber adapter
	adapter := NewFiberAdapter(handler)

	// Test basic properties
	if adapter.Name() != "Fiber" {
		t.Errorf("Expected adapter name 'Fiber', got '%s'", adapter.Name())
	}

	adapter.Mount("/webhooks")

	// Post an event through the mounted route
	req, _ := http.NewRequest("POST", "/webhooks/payment.received",
		strings.NewReader(`{"payment_id":"P-3","amount":7.25}`))
	resp, err := adapter.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	// Verify response
	if resp.StatusCode != 202 {
		t.Errorf("Expected status 202, got %d", resp.StatusCode)
	}

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	body := strings.TrimSpace(buf.String())
	if !strings.Contains(body, `"event":"payment.received"`) {
		t.Errorf("Expected event name in ack body, got '%s'", body)
	}
	if !strings.Contains(body, `"status":"accepted"`) {
		t.Errorf("Expected accepted status in ack body, got '%s'", body)
	}

	// Verify the event reached the listener
	events := recorder.recorded()
	if len(events) != 1 {
		t.Fatalf("Expected 1 dispatched event, got %d", len(events))
	}
	payment := events[0].(*paymentReceived)
	if payment.PaymentID != "P-3" {
		t.Errorf("Expected payment ID 'P-3', got '%s'", payment.PaymentID)
	}
}

func TestFiberAdapter_MalformedPayload(t *testing.T) {
	handler, recorder := newWebhookFixture(t)

	adapter := NewFiberAdapter(handler)
	adapter.Mount("/webhooks")

	req, _ := http.NewRequest("POST", "/webhooks/payment.received",
		strings.NewReader(`{"payment_id":`))
	resp, err := adapter.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 for malformed payload, got %d", resp.StatusCode)
	}
	if len(recorder.recorded()) != 0 {
		t.Error("Expected no events dispatched for malformed payload")
	}
}

func TestFiberAdapter_DefaultMiddleware(t *testing.T) {
	handler, recorder := newWebhookFixture(t)

	// Default adapter carries logger and recover middleware
	adapter := NewDefaultFiberAdapter(handler)
	adapter.Mount("/webhooks")

	req, _ := http.NewRequest("POST", "/webhooks/payment.received",
		strings.NewReader(`{"payment_id":"P-4"}`))
	resp, err := adapter.GetApp().Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 202 {
		t.Errorf("Expected status 202, got %d", resp.StatusCode)
	}
	if len(recorder.recorded()) != 1 {
		t.Errorf("Expected 1 dispatched event, got %d", len(recorder.recorded()))
	}
}
