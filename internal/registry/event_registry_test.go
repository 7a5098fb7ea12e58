package registry

import (
	"strings"
	"testing"

	"github.com/toyz/synapse/internal/models"
)

func TestEventRegistry_Register(t *testing.T) {
	tests := []struct {
		name        string
		refs        []models.EventReference
		expectError bool
		errorMsg    string
	}{
		{
			name: "register single event",
			refs: []models.EventReference{
				{
					StructName:  "OrderCreated",
					EventName:   "order.created",
					PackageName: "events",
					ImportPath:  "example.com/shop/events",
				},
			},
			expectError: false,
		},
		{
			name: "register multiple events",
			refs: []models.EventReference{
				{
					StructName:  "OrderCreated",
					EventName:   "order.created",
					PackageName: "events",
					ImportPath:  "example.com/shop/events",
				},
				{
					StructName:  "PaymentSettled",
					EventName:   "payment.settled",
					PackageName: "billing",
					ImportPath:  "example.com/shop/billing",
				},
			},
			expectError: false,
		},
		{
			name: "same name from another package",
			refs: []models.EventReference{
				{
					StructName:  "OrderCreated",
					EventName:   "order.created",
					PackageName: "events",
					ImportPath:  "example.com/shop/events",
				},
				{
					StructName:  "OrderCreated",
					EventName:   "order.created",
					PackageName: "legacy",
					ImportPath:  "example.com/shop/legacy",
				},
			},
			expectError: true,
			errorMsg:    "event name 'order.created' is already registered by OrderCreated in package 'example.com/shop/events'",
		},
		{
			name: "registering the same event twice is idempotent",
			refs: []models.EventReference{
				{
					StructName:  "OrderCreated",
					EventName:   "order.created",
					PackageName: "events",
					ImportPath:  "example.com/shop/events",
				},
				{
					StructName:  "OrderCreated",
					EventName:   "order.created",
					PackageName: "events",
					ImportPath:  "example.com/shop/events",
				},
			},
			expectError: false,
		},
		{
			name: "empty struct name",
			refs: []models.EventReference{
				{
					EventName:  "order.created",
					ImportPath: "example.com/shop/events",
				},
			},
			expectError: true,
			errorMsg:    "event struct name cannot be empty",
		},
		{
			name: "empty event name",
			refs: []models.EventReference{
				{
					StructName: "OrderCreated",
					ImportPath: "example.com/shop/events",
				},
			},
			expectError: true,
			errorMsg:    "event name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewEventRegistry()

			var lastErr error
			for _, ref := range tt.refs {
				lastErr = registry.Register(ref)
				if lastErr != nil {
					break
				}
			}

			if tt.expectError {
				if lastErr == nil {
					t.Fatal("expected an error, got none")
				}
				if !strings.Contains(lastErr.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, lastErr.Error())
				}
				return
			}

			if lastErr != nil {
				t.Fatalf("unexpected error: %v", lastErr)
			}
		})
	}
}

func TestEventRegistry_RegisterPackage(t *testing.T) {
	registry := NewEventRegistry()

	metadata := &models.PackageMetadata{
		PackageName: "events",
		ImportPath:  "example.com/shop/events",
		Events: []models.EventMetadata{
			{
				BaseMetadataTrait: models.BaseMetadataTrait{Name: "OrderCreated", StructName: "OrderCreated"},
				EventName:         "order.created",
			},
			{
				BaseMetadataTrait: models.BaseMetadataTrait{Name: "OrderShipped", StructName: "OrderShipped"},
				EventName:         "order.shipped",
			},
		},
	}

	if err := registry.RegisterPackage(metadata); err != nil {
		t.Fatalf("failed to register package: %v", err)
	}

	ref, found := registry.ResolveName("order.shipped")
	if !found {
		t.Fatal("expected to resolve order.shipped")
	}
	if ref.StructName != "OrderShipped" {
		t.Errorf("expected struct OrderShipped, got %s", ref.StructName)
	}
	if ref.PackageName != "events" || ref.ImportPath != "example.com/shop/events" {
		t.Errorf("expected the declaring package to be stamped, got %+v", ref)
	}

	if _, found := registry.ResolveType("example.com/shop/events", "OrderCreated"); !found {
		t.Error("expected to resolve OrderCreated by type")
	}
	if _, found := registry.ResolveType("example.com/shop/events", "Unknown"); found {
		t.Error("did not expect to resolve an unregistered type")
	}
	if _, found := registry.ResolveName("order.cancelled"); found {
		t.Error("did not expect to resolve an unregistered name")
	}

	if err := registry.RegisterPackage(nil); err == nil {
		t.Error("expected an error for nil metadata")
	}
}

func TestEventRegistry_ValidateListeners(t *testing.T) {
	newRegistry := func(t *testing.T) EventRegistry {
		registry := NewEventRegistry()
		err := registry.RegisterPackage(&models.PackageMetadata{
			PackageName: "events",
			ImportPath:  "example.com/shop/events",
			Events: []models.EventMetadata{
				{
					BaseMetadataTrait: models.BaseMetadataTrait{Name: "OrderCreated", StructName: "OrderCreated"},
					EventName:         "order.created",
				},
			},
		})
		if err != nil {
			t.Fatalf("failed to seed registry: %v", err)
		}
		return registry
	}

	listenerWith := func(ref models.EventTypeRef) *models.PackageMetadata {
		return &models.PackageMetadata{
			PackageName: "listeners",
			ImportPath:  "example.com/shop/listeners",
			Listeners: []models.ListenerMetadata{
				{
					BaseMetadataTrait: models.BaseMetadataTrait{Name: "OrderAuditListener", StructName: "OrderAuditListener"},
					SourceTrait:       models.SourceTrait{FileName: "listeners.go", Line: 12},
					EventType:         ref,
				},
			},
		}
	}

	t.Run("local reference passes without an annotation", func(t *testing.T) {
		registry := newRegistry(t)
		metadata := listenerWith(models.EventTypeRef{TypeName: "LocalEvent", IsPointer: true})
		if err := registry.ValidateListeners(metadata); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("reference to an annotated event in a scanned package", func(t *testing.T) {
		registry := newRegistry(t)
		metadata := listenerWith(models.EventTypeRef{
			TypeName:    "OrderCreated",
			Package:     "example.com/shop/events",
			PackageName: "events",
			IsPointer:   true,
		})
		if err := registry.ValidateListeners(metadata); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("reference to an unknown type in a scanned package", func(t *testing.T) {
		registry := newRegistry(t)
		metadata := listenerWith(models.EventTypeRef{
			TypeName:    "OrderDeleted",
			Package:     "example.com/shop/events",
			PackageName: "events",
			IsPointer:   true,
		})

		err := registry.ValidateListeners(metadata)
		if err == nil {
			t.Fatal("expected an error, got none")
		}
		if !strings.Contains(err.Error(), "listener 'OrderAuditListener' handles unknown event type 'events.OrderDeleted'") {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("reference outside the scan set is left to the compiler", func(t *testing.T) {
		registry := newRegistry(t)
		metadata := listenerWith(models.EventTypeRef{
			TypeName:    "Tick",
			Package:     "example.com/other/clock",
			PackageName: "clock",
			IsPointer:   true,
		})
		if err := registry.ValidateListeners(metadata); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("nil metadata", func(t *testing.T) {
		registry := newRegistry(t)
		if err := registry.ValidateListeners(nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestEventRegistry_KnownEvents(t *testing.T) {
	registry := NewEventRegistry()

	refs := []models.EventReference{
		{StructName: "PaymentSettled", EventName: "payment.settled", ImportPath: "example.com/shop/billing"},
		{StructName: "OrderCreated", EventName: "order.created", ImportPath: "example.com/shop/events"},
		{StructName: "OrderShipped", EventName: "order.shipped", ImportPath: "example.com/shop/events"},
	}
	for _, ref := range refs {
		if err := registry.Register(ref); err != nil {
			t.Fatalf("failed to register %s: %v", ref.EventName, err)
		}
	}

	known := registry.KnownEvents()
	expected := []string{"order.created", "order.shipped", "payment.settled"}
	if len(known) != len(expected) {
		t.Fatalf("expected %d events, got %d", len(expected), len(known))
	}
	for i, name := range expected {
		if known[i] != name {
			t.Errorf("expected %s at position %d, got %s", name, i, known[i])
		}
	}
}

func TestEventRegistry_Clear(t *testing.T) {
	registry := NewEventRegistry()

	err := registry.RegisterPackage(&models.PackageMetadata{
		PackageName: "events",
		ImportPath:  "example.com/shop/events",
		Events: []models.EventMetadata{
			{
				BaseMetadataTrait: models.BaseMetadataTrait{Name: "OrderCreated", StructName: "OrderCreated"},
				EventName:         "order.created",
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to register package: %v", err)
	}

	registry.Clear()

	if _, found := registry.ResolveName("order.created"); found {
		t.Error("expected the registry to be empty after Clear")
	}
	if len(registry.KnownEvents()) != 0 {
		t.Errorf("expected no known events, got %v", registry.KnownEvents())
	}

	// A previously scanned package no longer constrains references
	metadata := &models.PackageMetadata{
		PackageName: "listeners",
		ImportPath:  "example.com/shop/listeners",
		Listeners: []models.ListenerMetadata{
			{
				BaseMetadataTrait: models.BaseMetadataTrait{Name: "OrderAuditListener", StructName: "OrderAuditListener"},
				EventType: models.EventTypeRef{
					TypeName:    "OrderCreated",
					Package:     "example.com/shop/events",
					PackageName: "events",
					IsPointer:   true,
				},
			},
		},
	}
	if err := registry.ValidateListeners(metadata); err != nil {
		t.Errorf("unexpected error after Clear: %v", err)
	}
}
