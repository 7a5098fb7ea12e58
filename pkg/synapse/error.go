package synapse

import (
	"fmt"
	"strings"
)

// ListenerError wraps a failure from a single listener with the listener
// and event involved
type ListenerError struct {
	Listener any
	Event    Event
	Err      error
}

// Error implements the error interface
func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %T failed handling %T: %v", e.Listener, e.Event, e.Err)
}

// Unwrap returns the underlying listener failure
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// DispatchError aggregates the failures of all listeners that errored
// during a single publish
type DispatchError struct {
	Errors []error
}

// Error implements the error interface
func (e *DispatchError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d listeners failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As
func (e *DispatchError) Unwrap() []error {
	return e.Errors
}

// PanicError is a recovered listener panic converted into an error
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("listener panicked: %v", e.Value)
}

// SubscribeError reports a value that cannot be subscribed because it
// neither implements Listener nor has a registration record
type SubscribeError struct {
	Value any
}

// Error implements the error interface
func (e *SubscribeError) Error() string {
	return fmt.Sprintf("cannot subscribe %T: not a Listener and no generated registration found (is the package's autogen file up to date?)", e.Value)
}

// UnknownEventError reports an event name with no registered type
type UnknownEventError struct {
	Name string
}

// Error implements the error interface
func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("no event type registered for name %q", e.Name)
}

// WebhookError represents a webhook ingestion failure with a specific HTTP
// status code and message
type WebhookError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *WebhookError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewWebhookError creates a new WebhookError with the given status code and message
func NewWebhookError(statusCode int, message string) *WebhookError {
	return &WebhookError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewWebhookErrorWithDetails creates a new WebhookError with additional details
func NewWebhookErrorWithDetails(statusCode int, message string, details any) *WebhookError {
	return &WebhookError{
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
	}
}
