package priority

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/synapse/pkg/synapse"
)

type reindexListener struct{}

func TestRegisteredPriorityDrivesOrdering(t *testing.T) {
	Clear()
	defer Clear()

	target := reflect.TypeOf(&reindexListener{})
	Register(target, 40)

	order, ok := synapse.OrderOf(target)
	assert.True(t, ok)
	assert.Equal(t, 40, order)
}

func TestExplicitOrderBeatsPriority(t *testing.T) {
	Clear()
	defer Clear()
	synapse.DefaultOrderRegistry = synapse.NewOrderRegistry()
	defer synapse.DefaultOrderRegistry.Clear()

	target := reflect.TypeOf(&reindexListener{})
	Register(target, 40)
	synapse.RegisterOrder(target, 3)

	order, ok := synapse.OrderOf(target)
	assert.True(t, ok)
	assert.Equal(t, 3, order)
}

func TestUnregisteredTypeHasNoPriority(t *testing.T) {
	Clear()
	synapse.DefaultOrderRegistry = synapse.NewOrderRegistry()

	_, ok := synapse.OrderOf(reflect.TypeOf(&reindexListener{}))
	assert.False(t, ok)
}
