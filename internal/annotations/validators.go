package annotations

import (
	"fmt"
	"strings"

	"github.com/toyz/synapse/pkg/synapse/expr"
)

// Common validation functions shared by the builtin schemas

// ValidateEventName validates dotted event names such as "order.created"
func ValidateEventName(v interface{}) error {
	name := v.(string)
	if name == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	for _, segment := range strings.Split(name, ".") {
		if segment == "" {
			return fmt.Errorf("event name '%s' contains an empty segment", name)
		}
		for i, r := range segment {
			switch {
			case r >= 'a' && r <= 'z':
			case (r == '_' || r >= '0' && r <= '9') && i > 0:
			default:
				return fmt.Errorf("event name segment '%s' must start with a lowercase letter and use only lowercase letters, digits and underscores", segment)
			}
		}
	}
	return nil
}

// ValidateConditionExpression checks that a listener condition compiles, so a
// broken expression fails code generation instead of the first dispatch
func ValidateConditionExpression(v interface{}) error {
	source := v.(string)
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("condition cannot be empty")
	}
	if _, err := expr.Compile(source); err != nil {
		return fmt.Errorf("condition does not compile: %v", err)
	}
	return nil
}

// Common parameter specifications shared by the builtin schemas

// OrderParameterSpec returns the standard Order parameter specification
func OrderParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        IntType,
		Required:    false,
		Description: "Dispatch position among listeners for the same event (lower values run first)",
	}
}

// PriorityParameterSpec returns the standard Priority parameter specification
func PriorityParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        IntType,
		Required:    false,
		Description: "Standard priority recorded in the secondary ordering table, consulted when no explicit order exists",
	}
}

// AsyncParameterSpec returns the standard Async parameter specification
func AsyncParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:         BoolType,
		Required:     false,
		DefaultValue: false,
		Description:  "Deliver events to this listener on a background goroutine",
	}
}

// ConditionParameterSpec returns the standard Condition parameter specification
func ConditionParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        StringType,
		Required:    false,
		Description: "Expression over 'event' and 'source'; the listener is skipped when it evaluates to false",
		Validator:   ValidateConditionExpression,
	}
}

// EventNameParameterSpec returns the standard Name parameter specification for events
func EventNameParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        StringType,
		Required:    false,
		Description: "Dotted event name used for webhook ingest and name filters (defaults to the lower-cased type name)",
		Validator:   ValidateEventName,
	}
}
