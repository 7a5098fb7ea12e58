package templates

import (
	"strconv"
	"strings"

	"github.com/toyz/synapse/internal/models"
)

// TemplateUtils provides common utilities for template generation
type TemplateUtils struct{}

// NewTemplateUtils creates a new template utilities instance
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// ToCamelCase converts a string to camelCase
func (tu *TemplateUtils) ToCamelCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ListenerVarName builds the parameter name used for a listener instance in
// generated wiring functions
func (tu *TemplateUtils) ListenerVarName(structName string) string {
	return tu.ToCamelCase(structName)
}

// ConditionLiteral renders a guard expression as a Go string literal so the
// generated source survives quotes and escapes inside the expression
func (tu *TemplateUtils) ConditionLiteral(condition string) string {
	if condition == "" {
		return ""
	}
	return strconv.Quote(condition)
}

// QuoteString wraps a string in quotes for code generation
func (tu *TemplateUtils) QuoteString(s string) string {
	return `"` + s + `"`
}

// JoinQuoted joins strings with quotes and commas for array literals
func (tu *TemplateUtils) JoinQuoted(items []string) string {
	if len(items) == 0 {
		return ""
	}

	var quoted []string
	for _, item := range items {
		quoted = append(quoted, tu.QuoteString(item))
	}

	return strings.Join(quoted, ", ")
}

// ExtractTypeName extracts the type name from a potentially qualified type
func (tu *TemplateUtils) ExtractTypeName(qualifiedType string) string {
	if strings.Contains(qualifiedType, ".") {
		parts := strings.Split(qualifiedType, ".")
		return parts[len(parts)-1]
	}
	return qualifiedType
}

// ConvertListener converts scanned listener metadata into template data
func (tu *TemplateUtils) ConvertListener(listener models.ListenerMetadata) ListenerTemplateData {
	order, hasOrder := listener.ExplicitOrder()
	priority, hasPriority := listener.StandardPriority()

	return ListenerTemplateData{
		StructName:     listener.StructName,
		VarName:        tu.ListenerVarName(listener.StructName),
		MethodName:     listener.MethodName,
		EventQualified: listener.EventType.Qualified(),
		Dereference:    !listener.EventType.IsPointer,
		Order:          order,
		HasOrder:       hasOrder,
		Priority:       priority,
		HasPriority:    hasPriority,
		Async:          listener.Async,
		ConditionLit:   tu.ConditionLiteral(listener.Condition),
		Constructor:    listener.Constructor,
	}
}

// ConvertEvent converts scanned event metadata into template data
func (tu *TemplateUtils) ConvertEvent(event models.EventMetadata) EventTemplateData {
	return EventTemplateData{
		StructName: event.StructName,
		EventName:  event.EventName,
	}
}

// DefaultTemplateUtils provides a global instance for convenience
var DefaultTemplateUtils = NewTemplateUtils()
