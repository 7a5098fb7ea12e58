package errors

import (
	"fmt"
	"strings"
)

// Generator-facing error types built on the unified base types

// GeneratorError wraps any SynapseError surfaced by the code generator
type GeneratorError struct {
	SynapseError
}

// NewGeneratorError creates a new generator error wrapping a SynapseError
func NewGeneratorError(synErr SynapseError) *GeneratorError {
	return &GeneratorError{SynapseError: synErr}
}

// Type returns the error code of the wrapped error
func (e *GeneratorError) Type() ErrorCode {
	return e.ErrorCode()
}

// File returns the file name where the error occurred
func (e *GeneratorError) File() string {
	return e.Location().File
}

// Line returns the line number where the error occurred
func (e *GeneratorError) Line() int {
	return e.Location().Line
}

// Message returns the error message
func (e *GeneratorError) Message() string {
	return e.Error()
}

// Cause returns the underlying error cause
func (e *GeneratorError) Cause() error {
	return e.Unwrap()
}

// Suggestions returns helpful suggestions for fixing the error
func (e *GeneratorError) Suggestions() []string {
	return e.SynapseError.Suggestions()
}

// Context returns additional context information
func (e *GeneratorError) Context() map[string]interface{} {
	return e.SynapseError.Context()
}

// NewEventImportError reports a listener whose event type lives in a package the
// generator could not resolve to an import path
func NewEventImportError(eventType, fileName string, line int, packageName string) *GeneratorError {
	loc := SourceLocation{
		File: fileName,
		Line: line,
	}

	message := fmt.Sprintf("event type '%s' references package '%s' with no resolvable import path", eventType, packageName)
	err := New(EventImportErrorCode, message).
		WithLocation(loc).
		WithContext("event_type", eventType).
		WithContext("package", packageName).
		WithSuggestions(
			fmt.Sprintf("Annotate the event type in package '%s' with //synapse::event", packageName),
			"Run the generator over the package that defines the event",
			"Check that the event type name is spelled correctly",
		)

	return NewGeneratorError(err)
}

// NewEventNotFoundError reports a listener handling an event type the scanner never saw
func NewEventNotFoundError(eventType, listenerType, fileName string, line int, knownEvents []string) *GeneratorError {
	loc := SourceLocation{
		File: fileName,
		Line: line,
	}

	message := fmt.Sprintf("listener '%s' handles unknown event type '%s'", listenerType, eventType)

	suggestions := []string{
		fmt.Sprintf("Annotate '%s' with //synapse::event", eventType),
		"Check if the event type name is spelled correctly",
	}

	if len(knownEvents) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Known events: %s", strings.Join(knownEvents, ", ")))
	} else {
		suggestions = append(suggestions, "No event types are currently registered")
	}

	err := New(EventImportErrorCode, message).
		WithLocation(loc).
		WithContext("event_type", eventType).
		WithContext("listener_type", listenerType).
		WithContext("known_events", knownEvents).
		WithSuggestions(suggestions...)

	return NewGeneratorError(err)
}

// NewConditionCompileError reports a -Condition expression that failed to compile
func NewConditionCompileError(listenerType, condition, fileName string, line int, cause error) *GeneratorError {
	loc := SourceLocation{
		File: fileName,
		Line: line,
	}

	err := WrapConditionError(listenerType, condition, cause).WithLocation(loc)
	return NewGeneratorError(err)
}

// Generation-specific error helper functions

// NewGenerationFileError creates an error for file generation issues
func NewGenerationFileError(operation, fileName string, cause error) *GeneratorError {
	err := WrapFileSystemError(operation, fileName, cause)
	return NewGeneratorError(err)
}

// NewTemplateExecutionError creates an error for template execution issues
func NewTemplateExecutionError(templateName, operation string, cause error) *GeneratorError {
	err := WrapTemplateError(templateName, operation, cause)
	return NewGeneratorError(err)
}

// NewValidationGenerationError creates a validation error during generation
func NewValidationGenerationError(field, expected, actual, fileName string, line int) *GeneratorError {
	loc := SourceLocation{
		File: fileName,
		Line: line,
	}

	err := NewValidationError(field, expected, actual).WithLocation(loc)
	return NewGeneratorError(err)
}

// NewSyntaxGenerationError creates a syntax error during generation
func NewSyntaxGenerationError(message, fileName string, line int) *GeneratorError {
	loc := SourceLocation{
		File: fileName,
		Line: line,
	}

	err := NewSyntaxError(message).WithLocation(loc)
	return NewGeneratorError(err)
}

// Collection helpers for generator errors

// GeneratorErrorCollection helps collect multiple generator errors
type GeneratorErrorCollection struct {
	*MultipleErrors
}

// NewGeneratorErrorCollection creates a new error collection
func NewGeneratorErrorCollection() *GeneratorErrorCollection {
	return &GeneratorErrorCollection{
		MultipleErrors: NewMultipleErrors(),
	}
}

// AddGenerator adds a generator error to the collection
func (c *GeneratorErrorCollection) AddGenerator(err *GeneratorError) {
	c.Add(err.SynapseError)
}

// AddScan adds a scan error to the collection
func (c *GeneratorErrorCollection) AddScan(err *ScanError) {
	c.Add(err)
}

// AddValidation adds a validation error to the collection
func (c *GeneratorErrorCollection) AddValidation(field, expected, actual, fileName string, line int) {
	err := NewValidationGenerationError(field, expected, actual, fileName, line)
	c.AddGenerator(err)
}

// AddSyntax adds a syntax error to the collection
func (c *GeneratorErrorCollection) AddSyntax(message, fileName string, line int) {
	err := NewSyntaxGenerationError(message, fileName, line)
	c.AddGenerator(err)
}

// ToGeneratorError returns the collected errors as a single generator error
func (c *GeneratorErrorCollection) ToGeneratorError() *GeneratorError {
	if c.IsEmpty() {
		return nil
	}

	if c.Count() == 1 {
		if genErr, ok := c.Errors[0].(*GeneratorError); ok {
			return genErr
		}
		return NewGeneratorError(c.Errors[0])
	}

	return NewGeneratorError(c.MultipleErrors)
}
