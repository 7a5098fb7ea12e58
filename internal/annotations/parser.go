package annotations

import (
	"strings"
	"unicode"
)

// AnnotationMarker prefixes every annotation comment, as in //synapse::listener
const AnnotationMarker = "synapse::"

// ParserEngine interface defines the core parsing functionality
type ParserEngine interface {
	ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error)
	ValidateAnnotation(annotation *ParsedAnnotation) error
}

// NewParser creates the default annotation parser, backed by the participle
// grammar
func NewParser(registry AnnotationRegistry) ParserEngine {
	return NewParticipleParser(registry)
}

// IsAnnotationComment reports whether a comment line carries an annotation
func IsAnnotationComment(comment string) bool {
	trimmed := strings.TrimSpace(comment)
	if !strings.HasPrefix(trimmed, "//") {
		return false
	}
	rest := strings.TrimLeftFunc(trimmed[2:], unicode.IsSpace)
	return strings.HasPrefix(rest, AnnotationMarker)
}

// stripAnnotationMarker removes the comment slashes and the synapse:: marker,
// returning the annotation body
func stripAnnotationMarker(comment string, location SourceLocation) (string, error) {
	input := strings.TrimSpace(comment)

	if !strings.HasPrefix(input, "//") {
		return "", NewSyntaxErrorWithContext("invalid annotation prefix: comment must start with '//'", location, input)
	}

	withoutSlashes := strings.TrimLeftFunc(input[2:], unicode.IsSpace)
	if !strings.HasPrefix(withoutSlashes, AnnotationMarker) {
		return "", NewSyntaxErrorWithContext("invalid annotation prefix: missing 'synapse::' marker", location, input)
	}

	return strings.TrimSpace(withoutSlashes[len(AnnotationMarker):]), nil
}
