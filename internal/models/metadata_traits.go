package models

// Composable trait structs embedded by the scanned-component metadata
// types so listener and event models share accessors.

// BaseMetadataTrait carries the identity every scanned component shares.
// Name is the logical component name and StructName the declaring Go type.
type BaseMetadataTrait struct {
	Name       string
	StructName string
}

// GetName returns the component name.
func (b *BaseMetadataTrait) GetName() string {
	return b.Name
}

// GetStructName returns the Go struct name.
func (b *BaseMetadataTrait) GetStructName() string {
	return b.StructName
}

// SourceTrait records where in the scanned tree a component was declared.
type SourceTrait struct {
	FileName string
	Line     int
}

// GetFileName returns the file the component was declared in.
func (s *SourceTrait) GetFileName() string {
	return s.FileName
}

// GetLine returns the declaration line.
func (s *SourceTrait) GetLine() int {
	return s.Line
}

// OrderTrait carries an explicit dispatch order. HasOrder distinguishes
// an annotated -Order=0 from the absence of the parameter.
type OrderTrait struct {
	Order    int
	HasOrder bool
}

// ExplicitOrder returns the configured order and whether one was set.
func (o *OrderTrait) ExplicitOrder() (int, bool) {
	return o.Order, o.HasOrder
}

// PriorityTrait carries a standard priority registration. HasPriority
// distinguishes -Priority=0 from no priority at all.
type PriorityTrait struct {
	Priority    int
	HasPriority bool
}

// StandardPriority returns the configured priority and whether one was set.
func (p *PriorityTrait) StandardPriority() (int, bool) {
	return p.Priority, p.HasPriority
}
