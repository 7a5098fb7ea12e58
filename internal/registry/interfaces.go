package registry

import "github.com/toyz/synapse/internal/models"

// EventRegistry tracks annotated event types across scanned packages so
// listener event references can be resolved and validated during generation
type EventRegistry interface {
	RegisterPackage(metadata *models.PackageMetadata) error
	Register(ref models.EventReference) error
	ResolveName(eventName string) (models.EventReference, bool)
	ResolveType(importPath, structName string) (models.EventReference, bool)
	ValidateListeners(metadata *models.PackageMetadata) error
	KnownEvents() []string
	Clear()
}
