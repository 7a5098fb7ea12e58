package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/models"
)

// eventRegistry implements the EventRegistry interface
type eventRegistry struct {
	mu sync.RWMutex

	byName map[string]models.EventReference // wire name -> event
	byType map[string]models.EventReference // import path + struct name -> event

	// Import paths of every scanned package, annotated or not. Listener
	// references into a scanned package must resolve; references outside
	// the scan set are left to the compiler.
	scanned map[string]bool
}

// NewEventRegistry creates a new cross-package event registry
func NewEventRegistry() EventRegistry {
	return &eventRegistry{
		byName:  make(map[string]models.EventReference),
		byType:  make(map[string]models.EventReference),
		scanned: make(map[string]bool),
	}
}

// RegisterPackage records a scanned package and registers every event it declares
func (r *eventRegistry) RegisterPackage(metadata *models.PackageMetadata) error {
	if metadata == nil {
		return fmt.Errorf("package metadata cannot be nil")
	}

	r.mu.Lock()
	r.scanned[metadata.ImportPath] = true
	r.mu.Unlock()

	for _, event := range metadata.Events {
		ref := models.EventReference{
			StructName:  event.StructName,
			EventName:   event.EventName,
			PackageName: metadata.PackageName,
			ImportPath:  metadata.ImportPath,
		}
		if err := r.Register(ref); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a single event reference to the registry
func (r *eventRegistry) Register(ref models.EventReference) error {
	if ref.StructName == "" {
		return fmt.Errorf("event struct name cannot be empty")
	}
	if ref.EventName == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// The scanner catches name conflicts within a package; this catches
	// the same name claimed from two different packages.
	if existing, exists := r.byName[ref.EventName]; exists {
		if existing.ImportPath != ref.ImportPath || existing.StructName != ref.StructName {
			return errors.NewRegistrationError("event", ref.StructName,
				fmt.Sprintf("event name '%s' is already registered by %s in package '%s'",
					ref.EventName, existing.StructName, existing.ImportPath))
		}
		return nil
	}

	r.byName[ref.EventName] = ref
	r.byType[typeKey(ref.ImportPath, ref.StructName)] = ref
	return nil
}

// ResolveName looks up an event by its wire name
func (r *eventRegistry) ResolveName(eventName string) (models.EventReference, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, exists := r.byName[eventName]
	return ref, exists
}

// ResolveType looks up an event by its declaring package and struct name
func (r *eventRegistry) ResolveType(importPath, structName string) (models.EventReference, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, exists := r.byType[typeKey(importPath, structName)]
	return ref, exists
}

// ValidateListeners checks that every cross-package event reference in the
// package points at an annotated event in a scanned package. Local references
// are skipped; the compile-time assertion in generated code covers them.
func (r *eventRegistry) ValidateListeners(metadata *models.PackageMetadata) error {
	if metadata == nil {
		return nil
	}

	collection := errors.NewGeneratorErrorCollection()
	for _, listener := range metadata.Listeners {
		ref := listener.EventType
		if ref.IsLocal() {
			continue
		}

		r.mu.RLock()
		scanned := r.scanned[ref.Package]
		_, known := r.byType[typeKey(ref.Package, ref.TypeName)]
		r.mu.RUnlock()

		if scanned && !known {
			collection.AddGenerator(errors.NewEventNotFoundError(
				ref.Qualified(),
				listener.StructName,
				listener.FileName,
				listener.Line,
				r.KnownEvents(),
			))
		}
	}

	if genErr := collection.ToGeneratorError(); genErr != nil {
		return genErr
	}
	return nil
}

// KnownEvents returns the registered wire names in sorted order
func (r *eventRegistry) KnownEvents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes all registered events and scanned packages
func (r *eventRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName = make(map[string]models.EventReference)
	r.byType = make(map[string]models.EventReference)
	r.scanned = make(map[string]bool)
}

func typeKey(importPath, structName string) string {
	return importPath + "." + structName
}
