package annotations

import (
	"fmt"
	"strings"
)

// AnnotationError defines the interface for annotation-related errors
type AnnotationError interface {
	error
	Location() SourceLocation
	Suggestion() string
	Code() ErrorCode
}

// ErrorCode represents different types of annotation errors
type ErrorCode int

const (
	SyntaxErrorCode ErrorCode = iota
	ValidationErrorCode
	SchemaErrorCode
	RegistrationErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case SyntaxErrorCode:
		return "SyntaxError"
	case ValidationErrorCode:
		return "ValidationError"
	case SchemaErrorCode:
		return "SchemaError"
	case RegistrationErrorCode:
		return "RegistrationError"
	default:
		return "UnknownError"
	}
}

// ValidationError represents a parameter validation error
type ValidationError struct {
	Parameter string         // Parameter name that failed validation
	Expected  string         // What was expected
	Actual    string         // What was provided
	Loc       SourceLocation // Where the error occurred
	Hint      string         // Suggested fix
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s:%d:%d: parameter '%s' validation failed: expected %s, got %s. %s",
		e.Loc.File, e.Loc.Line, e.Loc.Column,
		e.Parameter, e.Expected, e.Actual, e.Hint)
}

func (e *ValidationError) Location() SourceLocation { return e.Loc }
func (e *ValidationError) Suggestion() string       { return e.Hint }
func (e *ValidationError) Code() ErrorCode          { return ValidationErrorCode }

// SyntaxError represents a syntax parsing error
type SyntaxError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error: %s. %s",
		e.Loc.File, e.Loc.Line, e.Loc.Column, e.Msg, e.Hint)
}

func (e *SyntaxError) Location() SourceLocation { return e.Loc }
func (e *SyntaxError) Suggestion() string       { return e.Hint }
func (e *SyntaxError) Code() ErrorCode          { return SyntaxErrorCode }

// SchemaError represents a schema-related error
type SchemaError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s:%d:%d: schema error: %s. %s",
		e.Loc.File, e.Loc.Line, e.Loc.Column, e.Msg, e.Hint)
}

func (e *SchemaError) Location() SourceLocation { return e.Loc }
func (e *SchemaError) Suggestion() string       { return e.Hint }
func (e *SchemaError) Code() ErrorCode          { return SchemaErrorCode }

// RegistrationError represents an error during annotation type registration
type RegistrationError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred (optional)
	Hint string         // Suggested fix
}

func (e *RegistrationError) Error() string {
	if e.Loc.File != "" {
		return fmt.Sprintf("%s:%d:%d: registration error: %s. %s",
			e.Loc.File, e.Loc.Line, e.Loc.Column, e.Msg, e.Hint)
	}
	return fmt.Sprintf("registration error: %s. %s", e.Msg, e.Hint)
}

func (e *RegistrationError) Location() SourceLocation { return e.Loc }
func (e *RegistrationError) Suggestion() string       { return e.Hint }
func (e *RegistrationError) Code() ErrorCode          { return RegistrationErrorCode }

// MultipleAnnotationErrors represents multiple annotation errors collected together
type MultipleAnnotationErrors struct {
	Errors []AnnotationError
}

func (e *MultipleAnnotationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("multiple annotation errors (%d total):\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap returns the underlying errors for error inspection
func (e *MultipleAnnotationErrors) Unwrap() []error {
	errors := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errors[i] = err
	}
	return errors
}

// GetByType returns all errors of a specific type
func (e *MultipleAnnotationErrors) GetByType(code ErrorCode) []AnnotationError {
	var result []AnnotationError
	for _, err := range e.Errors {
		if err.Code() == code {
			result = append(result, err)
		}
	}
	return result
}

// HasType returns true if any error of the specified type exists
func (e *MultipleAnnotationErrors) HasType(code ErrorCode) bool {
	for _, err := range e.Errors {
		if err.Code() == code {
			return true
		}
	}
	return false
}

// Context-aware error message generators with fix suggestions

// NewSyntaxErrorWithContext creates a syntax error with context-aware suggestions
func NewSyntaxErrorWithContext(msg string, loc SourceLocation, context string) *SyntaxError {
	suggestion := generateSyntaxSuggestion(msg, context)
	return &SyntaxError{
		Msg:  msg,
		Loc:  loc,
		Hint: suggestion,
	}
}

// NewValidationErrorWithContext creates a validation error with context-aware suggestions
func NewValidationErrorWithContext(parameter, expected, actual string, loc SourceLocation, annotationType AnnotationType) *ValidationError {
	suggestion := generateValidationSuggestion(parameter, expected, actual, annotationType)
	return &ValidationError{
		Parameter: parameter,
		Expected:  expected,
		Actual:    actual,
		Loc:       loc,
		Hint:      suggestion,
	}
}

// NewSchemaErrorWithContext creates a schema error with context-aware suggestions
func NewSchemaErrorWithContext(msg string, loc SourceLocation, annotationType AnnotationType) *SchemaError {
	suggestion := generateSchemaSuggestion(msg, annotationType)
	return &SchemaError{
		Msg:  msg,
		Loc:  loc,
		Hint: suggestion,
	}
}

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
		return "Priority should be an integer recorded in the standard priority table. Example: -Priority=100"
	case "Async":
		return "Async is a boolean flag. Use: -Async (no value needed)"
	case "Condition":
		return "Condition should be a quoted expression over 'event' and 'source'. Example: -Condition=\"event.Total > 100\""
	default:
		return fmt.Sprintf("Listener annotation parameter '%s' should be %s, got '%s'", parameter, expected, actual)
	}
}

// generateEventValidationSuggestion provides suggestions for event annotation validation errors
func generateEventValidationSuggestion(parameter, expected, actual string) string {
	switch parameter {
	case "Name":
		return "Name should be a dotted lowercase name. Example: -Name=order.created"
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
			return "Listener annotation supports: Order, Priority, Async, Condition parameters"
		case EventAnnotation:
			return "Event annotation supports: Name parameter"
		default:
			return "Check annotation schema documentation for supported parameters"
		}
	default:
		return "Check annotation schema and parameter definitions"
	}
}

// ErrorSummary provides a summary of errors by type for better reporting
type ErrorSummary struct {
	SyntaxErrors     []AnnotationError
	ValidationErrors []AnnotationError
	SchemaErrors     []AnnotationError
	OtherErrors      []AnnotationError
	TotalCount       int
}

// SummarizeErrors creates an error summary from a collection of errors
func SummarizeErrors(errors []AnnotationError) ErrorSummary {
	summary := ErrorSummary{
		TotalCount: len(errors),
	}

	for _, err := range errors {
		switch err.Code() {
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
func (s ErrorSummary) String() string {
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
