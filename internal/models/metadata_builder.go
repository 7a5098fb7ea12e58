package models

// MetadataBuilder provides a fluent interface for assembling listener and
// event metadata from scanned annotations
type MetadataBuilder struct {
	base      *BaseMetadataTrait
	source    *SourceTrait
	order     *OrderTrait
	priority  *PriorityTrait
	eventType *EventTypeRef

	methodName  string
	async       bool
	condition   string
	constructor string
}

// NewMetadataBuilder creates a new metadata builder
func NewMetadataBuilder(name, structName string) *MetadataBuilder {
	return &MetadataBuilder{
		base: &BaseMetadataTrait{
			Name:       name,
			StructName: structName,
		},
	}
}

// WithSource records the declaration site
func (b *MetadataBuilder) WithSource(fileName string, line int) *MetadataBuilder {
	b.source = &SourceTrait{FileName: fileName, Line: line}
	return b
}

// WithOrder sets an explicit dispatch order
func (b *MetadataBuilder) WithOrder(order int) *MetadataBuilder {
	b.order = &OrderTrait{Order: order, HasOrder: true}
	return b
}

// WithPriority sets a standard priority
func (b *MetadataBuilder) WithPriority(priority int) *MetadataBuilder {
	b.priority = &PriorityTrait{Priority: priority, HasPriority: true}
	return b
}

// WithEventType sets the event type handled by the listener
func (b *MetadataBuilder) WithEventType(ref EventTypeRef) *MetadataBuilder {
	b.eventType = &ref
	return b
}

// WithMethod sets the handling method name
func (b *MetadataBuilder) WithMethod(name string) *MetadataBuilder {
	b.methodName = name
	return b
}

// WithAsync marks the listener for asynchronous dispatch
func (b *MetadataBuilder) WithAsync(async bool) *MetadataBuilder {
	b.async = async
	return b
}

// WithCondition sets the guard expression source
func (b *MetadataBuilder) WithCondition(condition string) *MetadataBuilder {
	b.condition = condition
	return b
}

// WithConstructor records the constructor function name
func (b *MetadataBuilder) WithConstructor(constructor string) *MetadataBuilder {
	b.constructor = constructor
	return b
}

// BuildListener creates a ListenerMetadata
func (b *MetadataBuilder) BuildListener() *ListenerMetadata {
	listener := &ListenerMetadata{
		BaseMetadataTrait: *b.base,
		MethodName:        b.methodName,
		Async:             b.async,
		Condition:         b.condition,
		Constructor:       b.constructor,
	}

	if b.source != nil {
		listener.SourceTrait = *b.source
	}

	if b.order != nil {
		listener.OrderTrait = *b.order
	}

	if b.priority != nil {
		listener.PriorityTrait = *b.priority
	}

	if b.eventType != nil {
		listener.EventType = *b.eventType
	}

	return listener
}

// BuildEvent creates an EventMetadata. The wire name falls back to the
// lower-cased struct name when no explicit name was annotated.
func (b *MetadataBuilder) BuildEvent(eventName string, explicit bool, embedsBase bool) *EventMetadata {
	event := &EventMetadata{
		BaseMetadataTrait: *b.base,
		EventName:         eventName,
		HasExplicitName:   explicit,
		EmbedsBaseEvent:   embedsBase,
	}

	if b.source != nil {
		event.SourceTrait = *b.source
	}

	return event
}
