package expr

import "reflect"

// ValueRef is an indirect handle on a location that holds a value. Resolving
// an expression to a ref evaluates the target exactly once; reads and writes
// then go through the ref without re-evaluating anything. Compound
// assignments rely on this to avoid running a target sub-expression twice.
type ValueRef interface {
	// GetValue returns the referenced value without re-evaluating any expression
	GetValue() (TypedValue, error)

	// SetValue assigns through the reference without re-evaluating any expression
	SetValue(v any) error

	// IsWritable reports whether assignment through this reference is permitted
	IsWritable() bool
}

// nullRef is the ref produced for the null literal. It has no source
// context of its own, so write failures report position 0.
type nullRef struct{}

// NullRef is the shared ref representing an absent target. Reads return
// NullValue and writes always fail.
var NullRef ValueRef = nullRef{}

func (nullRef) GetValue() (TypedValue, error) {
	return NullValue, nil
}

func (nullRef) SetValue(v any) error {
	return newEvalError(0, NotAssignable, "null is not assignable")
}

func (nullRef) IsWritable() bool {
	return false
}

// HolderRef wraps a single already-computed value. The node is retained only
// so write failures can report where the unassignable expression came from.
type HolderRef struct {
	value TypedValue
	node  Node
}

// NewHolderRef creates a read-only ref around an evaluated value
func NewHolderRef(value TypedValue, node Node) *HolderRef {
	return &HolderRef{value: value, node: node}
}

func (r *HolderRef) GetValue() (TypedValue, error) {
	return r.value, nil
}

func (r *HolderRef) SetValue(v any) error {
	return newEvalError(r.node.Pos(), NotAssignable, "expression %q is not assignable", r.node.ExprString())
}

func (r *HolderRef) IsWritable() bool {
	return false
}

// variableRef reads and writes a context variable. Writes create the
// variable when it does not exist yet.
type variableRef struct {
	ctx  *Context
	name string
	pos  int
}

func (r *variableRef) GetValue() (TypedValue, error) {
	v, ok := r.ctx.Variable(r.name)
	if !ok {
		return NullValue, newEvalError(r.pos, UnknownVariable, "unknown variable %q", r.name)
	}
	return TypedValueOf(v), nil
}

func (r *variableRef) SetValue(v any) error {
	r.ctx.SetVariable(r.name, v)
	return nil
}

func (r *variableRef) IsWritable() bool {
	return true
}

// elementRef points at a slice or array element
type elementRef struct {
	elem reflect.Value
	text string
	pos  int
}

func (r *elementRef) GetValue() (TypedValue, error) {
	return TypedValueOf(r.elem.Interface()), nil
}

func (r *elementRef) SetValue(v any) error {
	if !r.elem.CanSet() {
		return newEvalError(r.pos, NotAssignable, "expression %q is not assignable", r.text)
	}
	nv, err := convertAssign(r.pos, v, r.elem.Type())
	if err != nil {
		return err
	}
	r.elem.Set(nv)
	return nil
}

func (r *elementRef) IsWritable() bool {
	return r.elem.CanSet()
}

// mapEntryRef points at a map entry. Reading a missing entry yields null.
type mapEntryRef struct {
	entries reflect.Value
	key     reflect.Value
	text    string
	pos     int
}

func (r *mapEntryRef) GetValue() (TypedValue, error) {
	if r.entries.IsNil() {
		return NullValue, nil
	}
	mv := r.entries.MapIndex(r.key)
	if !mv.IsValid() {
		return NullValue, nil
	}
	return TypedValueOf(mv.Interface()), nil
}

func (r *mapEntryRef) SetValue(v any) error {
	if r.entries.IsNil() {
		return newEvalError(r.pos, NotAssignable, "cannot assign to entry of nil map in %q", r.text)
	}
	nv, err := convertAssign(r.pos, v, r.entries.Type().Elem())
	if err != nil {
		return err
	}
	r.entries.SetMapIndex(r.key, nv)
	return nil
}

func (r *mapEntryRef) IsWritable() bool {
	return !r.entries.IsNil()
}

// fieldRef points at a struct field. Writability follows reflect: the field
// must be exported and the struct reachable through a pointer.
type fieldRef struct {
	field reflect.Value
	owner string
	name  string
	pos   int
}

func (r *fieldRef) GetValue() (TypedValue, error) {
	return TypedValueOf(r.field.Interface()), nil
}

func (r *fieldRef) SetValue(v any) error {
	if !r.field.CanSet() {
		return newEvalError(r.pos, NotAssignable, "property %q on %s is not assignable", r.name, r.owner)
	}
	nv, err := convertAssign(r.pos, v, r.field.Type())
	if err != nil {
		return err
	}
	r.field.Set(nv)
	return nil
}

func (r *fieldRef) IsWritable() bool {
	return r.field.CanSet()
}
