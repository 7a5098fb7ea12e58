package models

// Backward compatibility alias for external packages
type BaseMetadata = BaseMetadataTrait

// ListenerMetadata represents a listener struct and its Handle method
// using composition
type ListenerMetadata struct {
	BaseMetadataTrait
	SourceTrait
	OrderTrait
	PriorityTrait
	EventType   EventTypeRef // event type taken by the Handle method
	MethodName  string       // name of the handling method
	Async       bool         // dispatch on a separate goroutine
	Condition   string       // guard expression source, empty when unconditional
	Constructor string       // constructor function name, empty when none exists
}

// HasCondition reports whether the listener carries a guard expression.
func (l *ListenerMetadata) HasCondition() bool {
	return l.Condition != ""
}

// HasConstructor reports whether the package declares a constructor for
// the listener struct.
func (l *ListenerMetadata) HasConstructor() bool {
	return l.Constructor != ""
}
