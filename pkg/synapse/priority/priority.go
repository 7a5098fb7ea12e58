// Package priority is an opt-in secondary ordering table. Importing it
// installs a fallback consulted when a listener type has no explicit
// order; without the import, order resolution treats priorities as absent.
package priority

import (
	"reflect"
	"sync"

	"github.com/toyz/synapse/pkg/synapse"
)

var (
	mu      sync.RWMutex
	entries = make(map[reflect.Type]int)
)

func init() {
	synapse.SetPrioritySource(lookup)
}

// Register records a priority value for a listener type
func Register(listenerType reflect.Type, value int) {
	mu.Lock()
	defer mu.Unlock()
	entries[indirect(listenerType)] = value
}

func lookup(listenerType reflect.Type) (int, bool) {
	mu.RLock()
	defer mu.RUnlock()
	value, ok := entries[indirect(listenerType)]
	return value, ok
}

// Clear removes all registrations
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	entries = make(map[reflect.Type]int)
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
