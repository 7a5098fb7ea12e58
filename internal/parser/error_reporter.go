package parser

import (
	"fmt"
	"strings"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/models"
)

// ScanErrorReporter provides comprehensive error reporting for scan-related issues
type ScanErrorReporter struct {
	parser *Parser
}

// NewScanErrorReporter creates a new scan error reporter
func NewScanErrorReporter(parser *Parser) *ScanErrorReporter {
	return &ScanErrorReporter{
		parser: parser,
	}
}

// ReportHandlerSignatureError creates a detailed handler validation error with context and suggestions
func (r *ScanErrorReporter) ReportHandlerSignatureError(structName, methodName, fileName string, line int, issue string, actualSignature string) error {
	expectedSignature := "func (l *" + structName + ") Handle(ctx context.Context, event *YourEvent) error"

	scanErr := errors.NewListenerSignatureError(structName, methodName, fileName, line, issue)
	scanErr.BaseError = scanErr.BaseError.
		WithContext("expected_signature", expectedSignature).
		WithContext("actual_signature", actualSignature)

	// Add specific suggestions based on the issue
	switch {
	case strings.Contains(issue, "two parameters"):
		scanErr.BaseError = scanErr.BaseError.WithSuggestions(
			"Ensure the handler has exactly 2 parameters",
			"First parameter should be context.Context",
			"Second parameter should be the event type",
		)
	case strings.Contains(issue, "first parameter"):
		scanErr.BaseError = scanErr.BaseError.WithSuggestions(
			"Import the context package",
			"Use 'ctx context.Context' as the first parameter",
		)
	case strings.Contains(issue, "second parameter"):
		scanErr.BaseError = scanErr.BaseError.WithSuggestions(
			"The event parameter must be a named struct type, typically a pointer",
			"Annotate the event struct with //synapse::event",
		)
	case strings.Contains(issue, "return"):
		scanErr.BaseError = scanErr.BaseError.WithSuggestions(
			"The handler must return exactly one value",
			"The return value must be error",
		)
	case strings.Contains(issue, "no handler"):
		scanErr.BaseError = scanErr.BaseError.WithSuggestions(
			"Define the handler in the same package as the listener struct",
			"Check that the method is exported",
		)
	}

	if example := r.generateListenerExample(structName); example != "" {
		scanErr.BaseError = scanErr.BaseError.WithSuggestion("Example implementation:\n" + example)
	}

	return errors.NewGeneratorError(scanErr)
}

// ReportEventEmbedError creates a detailed error for an event struct without event identity
func (r *ScanErrorReporter) ReportEventEmbedError(structName, fileName string, line int) error {
	scanErr := errors.NewEventEmbedError(structName, fileName, line)

	if example := r.generateEventExample(structName); example != "" {
		scanErr.BaseError = scanErr.BaseError.WithSuggestion("Example declaration:\n" + example)
	}

	return errors.NewGeneratorError(scanErr)
}

// ReportUnknownEventTypeError creates a detailed error when a listener references an
// event type that no scanned package declares
func (r *ScanErrorReporter) ReportUnknownEventTypeError(eventType, listenerType, fileName string, line int, knownEvents []string) error {
	return errors.NewEventNotFoundError(eventType, listenerType, fileName, line, knownEvents)
}

// generateListenerExample generates an example listener implementation for the struct name
func (r *ScanErrorReporter) generateListenerExample(structName string) string {
	return fmt.Sprintf(`//synapse::listener -Order=10
type %s struct {}

func (l *%s) Handle(ctx context.Context, event *OrderCreated) error {
    // react to the event
    return nil
}`, structName, structName)
}

// generateEventExample generates an example event declaration for the struct name
func (r *ScanErrorReporter) generateEventExample(structName string) string {
	return fmt.Sprintf(`//synapse::event -Name=order.created
type %s struct {
    synapse.BaseEvent
    OrderID string
    Total   float64
}`, structName)
}

// GenerateScanDiagnostics generates informational diagnostics for a scanned package
func (r *ScanErrorReporter) GenerateScanDiagnostics(metadata *models.PackageMetadata) []string {
	var diagnostics []string

	if len(metadata.Listeners) == 0 && len(metadata.Events) == 0 {
		diagnostics = append(diagnostics, fmt.Sprintf("Package '%s' has no synapse annotations", metadata.PackageName))
		return diagnostics
	}

	// Events nothing in this package listens to. Listeners elsewhere may still
	// subscribe, so this is informational only.
	handledTypes := make(map[string]bool)
	for _, listener := range metadata.Listeners {
		if listener.EventType.IsLocal() {
			handledTypes[listener.EventType.TypeName] = true
		}
	}
	for _, event := range metadata.Events {
		if !handledTypes[event.StructName] {
			diagnostics = append(diagnostics, fmt.Sprintf("Event '%s' (%s) has no listeners in this package", event.EventName, event.StructName))
		}
	}

	// Listeners handling local types that carry no event annotation: such events
	// never reach the event-name registry, so webhook ingest cannot decode them.
	annotatedEvents := make(map[string]bool)
	for _, event := range metadata.Events {
		annotatedEvents[event.StructName] = true
	}
	for _, listener := range metadata.Listeners {
		if listener.EventType.IsLocal() && !annotatedEvents[listener.EventType.TypeName] {
			diagnostics = append(diagnostics, fmt.Sprintf(
				"Listener '%s' handles type '%s' which has no //synapse::event annotation in this package",
				listener.StructName, listener.EventType.TypeName))
		}
	}

	for _, listener := range metadata.Listeners {
		if listener.Async && listener.HasCondition() {
			diagnostics = append(diagnostics, fmt.Sprintf(
				"Listener '%s' is async with a condition; the condition is evaluated before the goroutine starts",
				listener.StructName))
		}
	}

	return diagnostics
}
