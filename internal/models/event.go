package models

// EventMetadata represents an event struct declaration using composition
type EventMetadata struct {
	BaseMetadataTrait
	SourceTrait
	EventName       string // dotted wire name, explicit or derived from the type
	HasExplicitName bool   // whether -Name was annotated
	EmbedsBaseEvent bool   // whether the struct embeds the base event type
}

// EventReference points at an event struct from outside its package, as
// recorded by the cross-package event registry.
type EventReference struct {
	StructName  string `json:"struct_name"`
	EventName   string `json:"event_name"`
	PackageName string `json:"package_name"`
	ImportPath  string `json:"import_path"`
}
