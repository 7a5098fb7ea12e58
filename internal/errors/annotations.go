package errors

import (
	"fmt"
	"strings"
)

// Annotation-specific error types built on the unified base types

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	UnknownAnnotation AnnotationType = iota
	ListenerAnnotation
	EventAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ListenerAnnotation:
		return "listener"
	case EventAnnotation:
		return "event"
	default:
		return "unknown"
	}
}

// NewAnnotationValidationError creates a validation error specific to annotations
func NewAnnotationValidationError(parameter, expected, actual string, loc SourceLocation, annotationType AnnotationType) *ValidationError {
	err := NewValidationError(parameter, expected, actual)
	err.WithLocation(loc)
	err.WithContext("annotation_type", annotationType.String())

	// Add context-aware suggestions
	suggestion := generateValidationSuggestion(parameter, expected, actual, annotationType)
	if suggestion != "" {
		err.WithSuggestion(suggestion)
	}

	return err
}

// NewAnnotationSyntaxError creates a syntax error specific to annotations
func NewAnnotationSyntaxError(message string, loc SourceLocation, context string) *SyntaxError {
	err := NewSyntaxError(message)
	err.WithLocation(loc)
	err.WithContext("parse_context", context)

	// Add context-aware suggestions
	suggestion := generateSyntaxSuggestion(message, context)
	if suggestion != "" {
		err.WithSuggestion(suggestion)
	}

	return err
}

// NewAnnotationSchemaError creates a schema error specific to annotations
func NewAnnotationSchemaError(message string, loc SourceLocation, annotationType AnnotationType) *SchemaError {
	err := NewSchemaError(message)
	err.WithLocation(loc)
	err.WithSchemaType("annotation")
	err.WithSchemaName(annotationType.String())

	// Add context-aware suggestions
	suggestion := generateSchemaSuggestion(message, annotationType)
	if suggestion != "" {
		err.BaseError.WithSuggestion(suggestion)
	}

	return err
}

// NewAnnotationRegistrationError creates a registration error for annotations
func NewAnnotationRegistrationError(annotationType AnnotationType, message string, loc SourceLocation) *RegistrationError {
	err := NewRegistrationError("annotation", annotationType.String(), message)
	err.WithLocation(loc)
	return err
}

// AnnotationErrorCollector helps collect multiple annotation errors
type AnnotationErrorCollector struct {
	*MultipleErrors
	maxErrors int
}

// NewAnnotationErrorCollector creates a new error collector
func NewAnnotationErrorCollector(maxErrors int) *AnnotationErrorCollector {
	if maxErrors <= 0 {
		maxErrors = 100 // default maximum
	}

	return &AnnotationErrorCollector{
		MultipleErrors: NewMultipleErrors(),
		maxErrors:      maxErrors,
	}
}

// AddValidation adds a validation error to the collection
func (c *AnnotationErrorCollector) AddValidation(parameter, expected, actual string, loc SourceLocation, annotationType AnnotationType) {
	if c.Count() >= c.maxErrors {
		return // Don't collect more than maxErrors
	}

	err := NewAnnotationValidationError(parameter, expected, actual, loc, annotationType)
	c.Add(err)
}

// AddSyntax adds a syntax error to the collection
func (c *AnnotationErrorCollector) AddSyntax(message string, loc SourceLocation, context string) {
	if c.Count() >= c.maxErrors {
		return
	}

	err := NewAnnotationSyntaxError(message, loc, context)
	c.Add(err)
}

// AddSchema adds a schema error to the collection
func (c *AnnotationErrorCollector) AddSchema(message string, loc SourceLocation, annotationType AnnotationType) {
	if c.Count() >= c.maxErrors {
		return
	}

	err := NewAnnotationSchemaError(message, loc, annotationType)
	c.Add(err)
}

// AddRegistration adds a registration error to the collection
func (c *AnnotationErrorCollector) AddRegistration(annotationType AnnotationType, message string, loc SourceLocation) {
	if c.Count() >= c.maxErrors {
		return
	}

	err := NewAnnotationRegistrationError(annotationType, message, loc)
	c.Add(err)
}

// ToError returns the collected errors as a single error
func (c *AnnotationErrorCollector) ToError() SynapseError {
	if c.IsEmpty() {
		return nil
	}

	if c.Count() == 1 {
		return c.Errors[0]
	}

	// MultipleErrors implements SynapseError
	return c.MultipleErrors
}

// AnnotationErrorSummary groups annotation errors for reporting
type AnnotationErrorSummary struct {
	SyntaxErrors     []SynapseError
	ValidationErrors []SynapseError
	SchemaErrors     []SynapseError
	OtherErrors      []SynapseError
	TotalCount       int
}

// SummarizeAnnotationErrors creates an error summary from a collection of errors
func SummarizeAnnotationErrors(errors []SynapseError) AnnotationErrorSummary {
	summary := AnnotationErrorSummary{
		TotalCount: len(errors),
	}

	for _, err := range errors {
		switch err.ErrorCode() {
		case SyntaxErrorCode:
			summary.SyntaxErrors = append(summary.SyntaxErrors, err)
		case ValidationErrorCode:
			summary.ValidationErrors = append(summary.ValidationErrors, err)
		case SchemaErrorCode:
			summary.SchemaErrors = append(summary.SchemaErrors, err)
		default:
			summary.OtherErrors = append(summary.OtherErrors, err)
		}
	}

	return summary
}

// String returns a formatted summary of errors
func (s AnnotationErrorSummary) String() string {
	if s.TotalCount == 0 {
		return "No errors found"
	}

	var parts []string
	if len(s.SyntaxErrors) > 0 {
		parts = append(parts, fmt.Sprintf("%d syntax error(s)", len(s.SyntaxErrors)))
	}
	if len(s.ValidationErrors) > 0 {
		parts = append(parts, fmt.Sprintf("%d validation error(s)", len(s.ValidationErrors)))
	}
	if len(s.SchemaErrors) > 0 {
		parts = append(parts, fmt.Sprintf("%d schema error(s)", len(s.SchemaErrors)))
	}
	if len(s.OtherErrors) > 0 {
		parts = append(parts, fmt.Sprintf("%d other error(s)", len(s.OtherErrors)))
	}

	return fmt.Sprintf("Found %d total error(s): %s", s.TotalCount, strings.Join(parts, ", "))
}

// Context-aware error message generators with fix suggestions

// generateSyntaxSuggestion provides context-aware suggestions for syntax errors
func generateSyntaxSuggestion(msg, context string) string {
	msg = strings.ToLower(msg)
	context = strings.ToLower(context)

	switch {
	case strings.Contains(msg, "missing annotation type"):
		return "Try: //synapse::listener or //synapse::event -Name=order.created"
	case strings.Contains(msg, "invalid annotation prefix"):
		return "Annotation must start with '//synapse::' (note the double colon)"
	case strings.Contains(msg, "unterminated quoted string"):
		return "Make sure quoted strings are properly closed with matching quotes"
	case strings.Contains(msg, "invalid parameter format"):
		return "Parameters should be in format '-ParamName=Value' or '-FlagName' for boolean flags"
	case strings.Contains(msg, "unexpected token"):
		if strings.Contains(context, "listener") {
			return "Listener format: //synapse::listener [-Order=N] [-Priority=N] [-Async] [-Condition=\"...\"]"
		}
		if strings.Contains(context, "event") {
			return "Event format: //synapse::event [-Name=dotted.name]"
		}
		return "Check annotation syntax and parameter format"
	case strings.Contains(msg, "missing required parameter"):
		return "Check annotation schema for required parameters"
	default:
		return "Check annotation syntax and refer to documentation for examples"
	}
}

// generateValidationSuggestion provides context-aware suggestions for validation errors
func generateValidationSuggestion(parameter, expected, actual string, annotationType AnnotationType) string {
	switch annotationType {
	case ListenerAnnotation:
		return generateListenerValidationSuggestion(parameter, expected, actual)
	case EventAnnotation:
		return generateEventValidationSuggestion(parameter, expected, actual)
	default:
		return fmt.Sprintf("Parameter '%s' should be %s, not '%s'", parameter, expected, actual)
	}
}

// generateListenerValidationSuggestion provides suggestions for listener annotation validation errors
func generateListenerValidationSuggestion(parameter, expected, actual string) string {
	switch parameter {
	case "Order":
		return "Order should be an integer. Lower values run first. Example: -Order=10"
	case "Priority":
		return "Priority should be an integer. Used only when no Order is set. Example: -Priority=5"
	case "Async":
		return "Async is a boolean flag. Use: -Async (no value needed)"
	case "Condition":
		return "Condition should be a quoted expression over 'event' and 'source'. Example: -Condition=\"event.Amount > 100\""
	case "Constructor":
		return "Constructor should be a function name. Example: -Constructor=NewAuditListener"
	default:
		return fmt.Sprintf("Listener annotation parameter '%s' should be %s, got '%s'", parameter, expected, actual)
	}
}

// generateEventValidationSuggestion provides suggestions for event annotation validation errors
func generateEventValidationSuggestion(parameter, expected, actual string) string {
	switch parameter {
	case "Name":
		return "Name should be a dotted event name. Example: -Name=order.created"
	default:
		return fmt.Sprintf("Event annotation parameter '%s' should be %s, got '%s'", parameter, expected, actual)
	}
}

// generateSchemaSuggestion provides context-aware suggestions for schema errors
func generateSchemaSuggestion(msg string, annotationType AnnotationType) string {
	msg = strings.ToLower(msg)

	switch {
	case strings.Contains(msg, "unknown annotation type"):
		return "Supported annotation types: listener, event. Did you mean one of these?"
	case strings.Contains(msg, "schema not found"):
		return fmt.Sprintf("Annotation type '%s' is not registered. Make sure to register the schema first.", annotationType.String())
	case strings.Contains(msg, "parameter not defined"):
		switch annotationType {
		case ListenerAnnotation:
			return "Listener annotation supports: Order, Priority, Async, Condition, Constructor parameters"
		case EventAnnotation:
			return "Event annotation supports: Name parameter"
		default:
			return "Check annotation schema documentation for supported parameters"
		}
	default:
		return "Check annotation schema and parameter definitions"
	}
}
