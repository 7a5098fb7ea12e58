package synapse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// DefaultMaxBodySize caps webhook payloads at 1 MiB unless overridden
const DefaultMaxBodySize int64 = 1 << 20

// WebhookSource identifies the remote origin of an ingested event. Decoded
// events carry it as their source.
type WebhookSource struct {
	Remote string `json:"remote"`
}

// WebhookAck is the response body for an accepted event
type WebhookAck struct {
	Event   string `json:"event"`
	EventID string `json:"event_id,omitempty"`
	Status  string `json:"status"`
}

// WebhookHandler turns named JSON payloads into typed events and publishes
// them. It is framework agnostic: HTTP adapters extract the name, body and
// remote address and translate the returned status and body.
type WebhookHandler struct {
	dispatcher *Dispatcher
	allow      []*NamePattern
	maxBody    int64
}

// WebhookOption configures a WebhookHandler
type WebhookOption func(*WebhookHandler)

// WithAllowedNames restricts ingestion to event names matching at least
// one of the patterns. Without it every registered event is accepted.
func WithAllowedNames(patterns ...*NamePattern) WebhookOption {
	return func(h *WebhookHandler) {
		h.allow = append(h.allow, patterns...)
	}
}

// WithMaxBodySize overrides the payload size limit. Zero disables the check.
func WithMaxBodySize(limit int64) WebhookOption {
	return func(h *WebhookHandler) {
		h.maxBody = limit
	}
}

// NewWebhookHandler creates a handler publishing to the given dispatcher
func NewWebhookHandler(dispatcher *Dispatcher, opts ...WebhookOption) *WebhookHandler {
	h := &WebhookHandler{
		dispatcher: dispatcher,
		maxBody:    DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleRequest ingests one payload and returns the HTTP status code and
// response body: a WebhookAck on success, a WebhookError otherwise
func (h *WebhookHandler) HandleRequest(ctx context.Context, name string, body []byte, remote string) (int, any) {
	if !h.allowed(name) {
		werr := NewWebhookError(http.StatusNotFound, fmt.Sprintf("event %q is not accepted here", name))
		return werr.StatusCode, werr
	}
	if h.maxBody > 0 && int64(len(body)) > h.maxBody {
		werr := NewWebhookErrorWithDetails(http.StatusRequestEntityTooLarge, "payload too large",
			map[string]any{"limit_bytes": h.maxBody})
		return werr.StatusCode, werr
	}

	event, err := DefaultEventRegistry.Decode(name, body, WebhookSource{Remote: remote})
	if err != nil {
		var unknown *UnknownEventError
		if errors.As(err, &unknown) {
			werr := NewWebhookError(http.StatusNotFound, unknown.Error())
			return werr.StatusCode, werr
		}
		werr := NewWebhookErrorWithDetails(http.StatusBadRequest, "invalid event payload", err.Error())
		return werr.StatusCode, werr
	}

	if err := h.dispatcher.Publish(ctx, event); err != nil {
		werr := NewWebhookErrorWithDetails(http.StatusInternalServerError, "event dispatch failed", err.Error())
		return werr.StatusCode, werr
	}

	ack := &WebhookAck{Event: name, Status: "accepted"}
	if identified, ok := event.(interface{ EventID() string }); ok {
		ack.EventID = identified.EventID()
	}
	return http.StatusAccepted, ack
}

func (h *WebhookHandler) allowed(name string) bool {
	if len(h.allow) == 0 {
		return true
	}
	for _, pattern := range h.allow {
		if pattern.Matches(name) {
			return true
		}
	}
	return false
}
