package synapse

import (
	"fmt"

	"github.com/toyz/synapse/pkg/synapse/expr"
)

// MustCondition compiles a listener condition, panicking on parse errors.
// Generated registrations call it at init time so broken conditions fail
// at startup rather than at dispatch.
func MustCondition(source string) *expr.Expression {
	return expr.MustCompile(source)
}

// evalCondition decides whether a conditional listener receives the event.
// The expression sees the event and its source as variables.
func evalCondition(cond *expr.Expression, event Event) (bool, error) {
	if cond == nil {
		return true, nil
	}
	ectx := expr.NewContext().
		SetVariable("event", event).
		SetVariable("source", event.Source())
	ok, err := cond.EvalBool(ectx)
	if err != nil {
		return false, fmt.Errorf("evaluating condition %q: %w", cond.String(), err)
	}
	return ok, nil
}
