package synapse

import (
	"math"
	"reflect"
	"sync"
)

// Listener invocation order. Lower values run earlier.
const (
	HighestPrecedence = math.MinInt32
	LowestPrecedence  = math.MaxInt32
)

// OrderOf looks up the order registered for a type, falling back to the
// standard priority source when no order entry exists. The order entry wins
// when both are present.
func OrderOf(t reflect.Type) (int, bool) {
	if v, ok := DefaultOrderRegistry.Lookup(t); ok {
		return v, true
	}
	return PriorityOf(t)
}

// OrderOfDefault is OrderOf with a caller-supplied default for types that
// have neither an order nor a priority value
func OrderOfDefault(t reflect.Type, def int) int {
	if v, ok := OrderOf(t); ok {
		return v
	}
	return def
}

var (
	prioritySourceMu sync.RWMutex
	prioritySource   func(reflect.Type) (int, bool)
)

// SetPrioritySource installs the lookup for standard priority values. The
// priority package installs itself here when imported; a program that never
// imports it simply has no priority source.
func SetPrioritySource(source func(reflect.Type) (int, bool)) {
	prioritySourceMu.Lock()
	defer prioritySourceMu.Unlock()
	prioritySource = source
}

// PriorityOf isolates the standard-priority lookup. It reports not-found
// when no priority source is installed, never an error.
func PriorityOf(t reflect.Type) (int, bool) {
	prioritySourceMu.RLock()
	source := prioritySource
	prioritySourceMu.RUnlock()

	if source == nil {
		return 0, false
	}
	return source(t)
}
