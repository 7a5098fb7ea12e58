package parser

const (
	// HandlerMethodName is the conventional name for listener handler methods
	HandlerMethodName = "Handle"

	// ConstructorPrefix is prepended to a struct name to find its constructor (NewOrderListener)
	ConstructorPrefix = "New"

	// Annotation parameter names, matching the registered schemas
	ParamOrder     = "Order"
	ParamPriority  = "Priority"
	ParamAsync     = "Async"
	ParamCondition = "Condition"
	ParamName      = "Name"

	// BaseEventTypeName is the embeddable base type annotated events are expected to carry
	BaseEventTypeName = "BaseEvent"

	// SourceMethodName is the accessor that satisfies the event interface directly
	SourceMethodName = "Source"
)
