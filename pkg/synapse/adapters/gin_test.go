package adapters

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

func TestGinAdapter_BasicFunctionality(t *testing.T) {
	handler, recorder := newWebhookFixture(t)

	// Create Gin adapter
	engine := gin.New()
	adapter := NewGinAdapter(engine, handler)

	// Test basic properties
	if adapter.Name() != "Gin" {
		t.Errorf("Expected adapter name 'Gin', got '%s'", adapter.Name())
	}
	if adapter.GetEngine() != engine {
		t.Error("Expected GetEngine to return the wrapped Gin engine")
	}

	adapter.Mount("/webhooks")

	// Post an event through the mounted route
	req := httptest.NewRequest("POST", "/webhooks/payment.received",
		strings.NewReader(`{"payment_id":"P-9","amount":12}`))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	// Verify response
	if rec.Code != 202 {
		t.Errorf("Expected status 202, got %d", rec.Code)
	}
	body := strings.TrimSpace(rec.Body.String())
	if !strings.Contains(body, `"status":"accepted"`) {
		t.Errorf("Expected accepted status in ack body, got '%s'", body)
	}

	// Verify the event reached the listener
	events := recorder.recorded()
	if len(events) != 1 {
		t.Fatalf("Expected 1 dispatched event, got %d", len(events))
	}
	payment := events[0].(*paymentReceived)
	if payment.PaymentID != "P-9" {
		t.Errorf("Expected payment ID 'P-9', got '%s'", payment.PaymentID)
	}
}

func TestGinAdapter_UnknownEventName(t *testing.T) {
	handler, recorder := newWebhookFixture(t)

	adapter := NewGinAdapter(gin.New(), handler)
	adapter.Mount("/hooks")

	req := httptest.NewRequest("POST", "/hooks/payment.refunded",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	adapter.GetEngine().ServeHTTP(rec, req)

	if rec.Code != 404 {
		t.Errorf("Expected status 404 for unknown event, got %d", rec.Code)
	}
	if len(recorder.recorded()) != 0 {
		t.Error("Expected no events dispatched for unknown name")
	}
}

func TestGinAdapter_StopBeforeStart(t *testing.T) {
	handler, _ := newWebhookFixture(t)

	adapter := NewGinAdapter(gin.New(), handler)

	// Stop without a running server is a no-op
	if err := adapter.Stop(context.Background()); err != nil {
		t.Errorf("Expected nil from Stop before Start, got %v", err)
	}
}
