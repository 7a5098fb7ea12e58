package models

// Metadata is the base interface for all scanned component metadata.
type Metadata interface {
	GetName() string
	GetStructName() string
}

// SourceAware reports the declaration site of a component.
type SourceAware interface {
	GetFileName() string
	GetLine() int
}

// OrderAware reports an explicit dispatch order when one was annotated.
type OrderAware interface {
	ExplicitOrder() (int, bool)
}

// PriorityAware reports a standard priority when one was annotated.
type PriorityAware interface {
	StandardPriority() (int, bool)
}
