package expr

import (
	"fmt"
	"reflect"
)

// Node is a parsed expression node. Nodes are immutable after parsing and
// safe for concurrent evaluation with independent contexts.
type Node interface {
	// Pos returns the byte offset of the node in the expression source
	Pos() int

	// ExprString returns the canonical source text of the node
	ExprString() string

	eval(ctx *Context) (TypedValue, error)
}

// refNode is implemented by nodes that can produce a ValueRef for their
// target location instead of just a value
type refNode interface {
	Node
	evalRef(ctx *Context) (ValueRef, error)
}

// refOf resolves a node to a ValueRef. Nodes that do not denote an
// assignable location are wrapped in a HolderRef so that reads succeed and
// writes fail with the node's position and text.
func refOf(n Node, ctx *Context) (ValueRef, error) {
	if rn, ok := n.(refNode); ok {
		return rn.evalRef(ctx)
	}
	v, err := n.eval(ctx)
	if err != nil {
		return nil, err
	}
	return NewHolderRef(v, n), nil
}

// deref unwraps pointers and interfaces. It returns an invalid Value when a
// nil pointer is encountered along the way.
func deref(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// literalNode is an int, float, string, boolean or null literal
type literalNode struct {
	pos   int
	text  string
	value TypedValue
}

func (n *literalNode) Pos() int           { return n.pos }
func (n *literalNode) ExprString() string { return n.text }

func (n *literalNode) eval(ctx *Context) (TypedValue, error) {
	return n.value, nil
}

func (n *literalNode) evalRef(ctx *Context) (ValueRef, error) {
	if n.value.IsNull() {
		return NullRef, nil
	}
	return NewHolderRef(n.value, n), nil
}

// variableNode reads or writes a context variable
type variableNode struct {
	pos  int
	name string
}

func (n *variableNode) Pos() int           { return n.pos }
func (n *variableNode) ExprString() string { return n.name }

func (n *variableNode) eval(ctx *Context) (TypedValue, error) {
	v, ok := ctx.Variable(n.name)
	if !ok {
		return NullValue, newEvalError(n.pos, UnknownVariable, "unknown variable %q", n.name)
	}
	return TypedValueOf(v), nil
}

func (n *variableNode) evalRef(ctx *Context) (ValueRef, error) {
	return &variableRef{ctx: ctx, name: n.name, pos: n.pos}, nil
}

// propertyNode accesses a struct field or string-keyed map entry
type propertyNode struct {
	pos      int
	receiver Node
	name     string
}

func (n *propertyNode) Pos() int { return n.pos }

func (n *propertyNode) ExprString() string {
	return n.receiver.ExprString() + "." + n.name
}

func (n *propertyNode) eval(ctx *Context) (TypedValue, error) {
	ref, err := n.evalRef(ctx)
	if err != nil {
		return NullValue, err
	}
	return ref.GetValue()
}

func (n *propertyNode) evalRef(ctx *Context) (ValueRef, error) {
	recv, err := n.receiver.eval(ctx)
	if err != nil {
		return nil, err
	}
	// Typed nil maps fall through to mapEntryRef, which reads null and
	// refuses writes
	if recv.Value == nil {
		return nil, newEvalError(n.pos, UnknownProperty, "cannot read property %q of null", n.name)
	}

	rv := deref(reflect.ValueOf(recv.Value))
	if !rv.IsValid() {
		return nil, newEvalError(n.pos, UnknownProperty, "cannot read property %q of null", n.name)
	}

	switch rv.Kind() {
	case reflect.Struct:
		sf, ok := rv.Type().FieldByName(n.name)
		if !ok || !sf.IsExported() {
			return nil, newEvalError(n.pos, UnknownProperty, "unknown property %q on %s", n.name, rv.Type())
		}
		return &fieldRef{field: rv.FieldByName(n.name), owner: rv.Type().String(), name: n.name, pos: n.pos}, nil

	case reflect.Map:
		keyType := rv.Type().Key()
		if keyType.Kind() != reflect.String {
			return nil, newEvalError(n.pos, UnknownProperty, "map with %s keys does not support property access", keyType)
		}
		key := reflect.ValueOf(n.name).Convert(keyType)
		return &mapEntryRef{entries: rv, key: key, text: n.ExprString(), pos: n.pos}, nil

	default:
		return nil, newEvalError(n.pos, UnknownProperty, "type %s has no property %q", rv.Type(), n.name)
	}
}

// indexNode accesses a slice element, map entry or string byte
type indexNode struct {
	pos      int
	receiver Node
	index    Node
}

func (n *indexNode) Pos() int { return n.pos }

func (n *indexNode) ExprString() string {
	return n.receiver.ExprString() + "[" + n.index.ExprString() + "]"
}

func (n *indexNode) eval(ctx *Context) (TypedValue, error) {
	ref, err := n.evalRef(ctx)
	if err != nil {
		return NullValue, err
	}
	return ref.GetValue()
}

func (n *indexNode) evalRef(ctx *Context) (ValueRef, error) {
	recv, err := n.receiver.eval(ctx)
	if err != nil {
		return nil, err
	}
	if recv.Value == nil {
		return nil, newEvalError(n.pos, TypeMismatch, "cannot index null")
	}

	idx, err := n.index.eval(ctx)
	if err != nil {
		return nil, err
	}

	rv := deref(reflect.ValueOf(recv.Value))
	if !rv.IsValid() {
		return nil, newEvalError(n.pos, TypeMismatch, "cannot index null")
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := toInt64(idx.Value)
		if !ok {
			return nil, newEvalError(n.pos, InvalidIndexKey, "index must be an integer, got %s", idx.TypeName())
		}
		if i < 0 || i >= int64(rv.Len()) {
			return nil, newEvalError(n.pos, IndexOutOfRange, "index %d out of range for length %d", i, rv.Len())
		}
		return &elementRef{elem: rv.Index(int(i)), text: n.ExprString(), pos: n.pos}, nil

	case reflect.Map:
		key, err := convertMapKey(n.pos, idx, rv.Type().Key())
		if err != nil {
			return nil, err
		}
		return &mapEntryRef{entries: rv, key: key, text: n.ExprString(), pos: n.pos}, nil

	case reflect.String:
		i, ok := toInt64(idx.Value)
		if !ok {
			return nil, newEvalError(n.pos, InvalidIndexKey, "index must be an integer, got %s", idx.TypeName())
		}
		s := rv.String()
		if i < 0 || i >= int64(len(s)) {
			return nil, newEvalError(n.pos, IndexOutOfRange, "index %d out of range for length %d", i, len(s))
		}
		return NewHolderRef(TypedValueOf(string(s[i])), n), nil

	default:
		return nil, newEvalError(n.pos, TypeMismatch, "type %s does not support indexing", rv.Type())
	}
}

// unaryNode is a prefix - or ! operation
type unaryNode struct {
	pos     int
	op      string
	operand Node
}

func (n *unaryNode) Pos() int           { return n.pos }
func (n *unaryNode) ExprString() string { return n.op + n.operand.ExprString() }

func (n *unaryNode) eval(ctx *Context) (TypedValue, error) {
	v, err := n.operand.eval(ctx)
	if err != nil {
		return NullValue, err
	}

	switch n.op {
	case "-":
		if isFloatValue(v.Value) {
			f, _ := toFloat64(v.Value)
			return TypedValueOf(-f), nil
		}
		if i, ok := toInt64(v.Value); ok {
			return TypedValueOf(-i), nil
		}
		return NullValue, newEvalError(n.pos, TypeMismatch, "operator - requires a numeric operand, got %s", v.TypeName())

	case "!":
		b, ok := v.Value.(bool)
		if !ok {
			return NullValue, newEvalError(n.pos, TypeMismatch, "operator ! requires a boolean operand, got %s", v.TypeName())
		}
		return TypedValueOf(!b), nil

	default:
		return NullValue, newEvalError(n.pos, ParseError, "unknown unary operator %q", n.op)
	}
}

// binaryNode is an infix arithmetic, comparison or logical operation
type binaryNode struct {
	pos   int
	op    string
	left  Node
	right Node
}

func (n *binaryNode) Pos() int { return n.pos }

func (n *binaryNode) ExprString() string {
	return fmt.Sprintf("%s %s %s", n.left.ExprString(), n.op, n.right.ExprString())
}

func (n *binaryNode) eval(ctx *Context) (TypedValue, error) {
	// Logical operators short-circuit, everything else evaluates both sides
	switch n.op {
	case "&&", "||":
		return n.evalLogical(ctx)
	}

	left, err := n.left.eval(ctx)
	if err != nil {
		return NullValue, err
	}
	right, err := n.right.eval(ctx)
	if err != nil {
		return NullValue, err
	}
	return applyBinary(n.pos, n.op, left, right)
}

func (n *binaryNode) evalLogical(ctx *Context) (TypedValue, error) {
	left, err := n.left.eval(ctx)
	if err != nil {
		return NullValue, err
	}
	lb, ok := left.Value.(bool)
	if !ok {
		return NullValue, newEvalError(n.pos, TypeMismatch, "operator %s requires boolean operands, got %s", n.op, left.TypeName())
	}

	if n.op == "&&" && !lb {
		return TypedValueOf(false), nil
	}
	if n.op == "||" && lb {
		return TypedValueOf(true), nil
	}

	right, err := n.right.eval(ctx)
	if err != nil {
		return NullValue, err
	}
	rb, ok := right.Value.(bool)
	if !ok {
		return NullValue, newEvalError(n.pos, TypeMismatch, "operator %s requires boolean operands, got %s", n.op, right.TypeName())
	}
	return TypedValueOf(rb), nil
}

// ternaryNode is a cond ? then : else expression
type ternaryNode struct {
	pos  int
	cond Node
	then Node
	els  Node
}

func (n *ternaryNode) Pos() int { return n.pos }

func (n *ternaryNode) ExprString() string {
	return fmt.Sprintf("%s ? %s : %s", n.cond.ExprString(), n.then.ExprString(), n.els.ExprString())
}

func (n *ternaryNode) eval(ctx *Context) (TypedValue, error) {
	cond, err := n.cond.eval(ctx)
	if err != nil {
		return NullValue, err
	}
	cb, ok := cond.Value.(bool)
	if !ok {
		return NullValue, newEvalError(n.pos, TypeMismatch, "ternary condition must be a boolean, got %s", cond.TypeName())
	}
	if cb {
		return n.then.eval(ctx)
	}
	return n.els.eval(ctx)
}

// assignNode is a plain or compound assignment. The target is resolved to a
// ValueRef exactly once, then read and written through that ref, so target
// sub-expressions with side effects never run twice.
type assignNode struct {
	pos    int
	op     string
	target Node
	value  Node
}

func (n *assignNode) Pos() int { return n.pos }

func (n *assignNode) ExprString() string {
	return fmt.Sprintf("%s %s %s", n.target.ExprString(), n.op, n.value.ExprString())
}

func (n *assignNode) eval(ctx *Context) (TypedValue, error) {
	ref, err := refOf(n.target, ctx)
	if err != nil {
		return NullValue, err
	}

	if n.op == "=" {
		rhs, err := n.value.eval(ctx)
		if err != nil {
			return NullValue, err
		}
		if err := ref.SetValue(rhs.Value); err != nil {
			return NullValue, err
		}
		return rhs, nil
	}

	// Compound assignment reads the current value through the ref rather
	// than re-evaluating the target expression
	current, err := ref.GetValue()
	if err != nil {
		return NullValue, err
	}
	rhs, err := n.value.eval(ctx)
	if err != nil {
		return NullValue, err
	}

	combined, err := applyBinary(n.pos, n.op[:1], current, rhs)
	if err != nil {
		return NullValue, err
	}
	if err := ref.SetValue(combined.Value); err != nil {
		return NullValue, err
	}
	return combined, nil
}
