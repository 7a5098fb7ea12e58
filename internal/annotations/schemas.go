package annotations

import "fmt"

// Built-in annotation schemas

// ListenerAnnotationSchema defines the schema for //synapse::listener annotations
var ListenerAnnotationSchema = AnnotationSchema{
	Type:        ListenerAnnotation,
	Description: "Marks a struct as an event listener whose Handle method is wired into generated dispatch registrations",
	Parameters: map[string]ParameterSpec{
		"Order":     OrderParameterSpec(),
		"Priority":  PriorityParameterSpec(),
		"Async":     AsyncParameterSpec(),
		"Condition": ConditionParameterSpec(),
	},
	Examples: []string{
		"//synapse::listener",
		"//synapse::listener -Order=10",
		"//synapse::listener -Priority=100",
		"//synapse::listener -Async",
		"//synapse::listener -Condition=\"event.Total > 100\"",
		"//synapse::listener -Order=5 -Async -Condition=\"source != null\"",
	},
}

// EventAnnotationSchema defines the schema for //synapse::event annotations
var EventAnnotationSchema = AnnotationSchema{
	Type:        EventAnnotation,
	Description: "Registers a struct as a named event payload for webhook decoding and name filters",
	Parameters: map[string]ParameterSpec{
		"Name": EventNameParameterSpec(),
	},
	Examples: []string{
		"//synapse::event",
		"//synapse::event -Name=order.created",
		"//synapse::event -Name=payment.captured.v2",
	},
}

// RegisterBuiltinSchemas registers all built-in annotation schemas with the given registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	schemas := []AnnotationSchema{
		ListenerAnnotationSchema,
		EventAnnotationSchema,
	}

	for _, schema := range schemas {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type.String(), err)
		}
	}

	return nil
}

// GetBuiltinSchemas returns all built-in annotation schemas
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		ListenerAnnotationSchema,
		EventAnnotationSchema,
	}
}

// ValidateListenerTarget ensures the annotation is attached to a type the
// generator can reference in registration code
func ValidateListenerTarget(annotation *ParsedAnnotation) error {
	if annotation.Target == "" {
		return fmt.Errorf("listener annotation must be attached to a struct type declaration")
	}
	return nil
}

// ValidateEventTarget ensures the annotation is attached to a type the
// generator can reference in registration code
func ValidateEventTarget(annotation *ParsedAnnotation) error {
	if annotation.Target == "" {
		return fmt.Errorf("event annotation must be attached to a struct type declaration")
	}
	return nil
}

// init registers custom validators for schemas that need them
func init() {
	ListenerAnnotationSchema.Validators = []CustomValidator{
		ValidateListenerTarget,
	}
	EventAnnotationSchema.Validators = []CustomValidator{
		ValidateEventTarget,
	}
}
