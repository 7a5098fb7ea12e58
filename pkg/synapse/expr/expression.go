// Package expr implements the small expression language used for listener
// conditions and value binding: literals, variables, property access,
// indexing, arithmetic, comparisons, ternaries and (compound) assignment.
package expr

import "fmt"

// Expression is a compiled expression. It is immutable and safe to share
// across goroutines; per-evaluation state lives in the Context.
type Expression struct {
	source string
	root   Node
}

// Compile parses an expression and returns it in compiled form
func Compile(source string) (*Expression, error) {
	root, err := parseSource(source)
	if err != nil {
		return nil, err
	}
	return &Expression{source: source, root: root}, nil
}

// MustCompile is like Compile but panics on parse failure. It is intended
// for generated code and package-level variables.
func MustCompile(source string) *Expression {
	e, err := Compile(source)
	if err != nil {
		panic(fmt.Sprintf("expr: MustCompile(%q): %v", source, err))
	}
	return e
}

// String returns the original expression source
func (e *Expression) String() string {
	return e.source
}

// Eval evaluates the expression against the given context. A nil context
// evaluates with no variables defined.
func (e *Expression) Eval(ctx *Context) (any, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	v, err := e.root.eval(ctx)
	if err != nil {
		return nil, err
	}
	return v.Value, nil
}

// EvalBool evaluates the expression and requires a boolean result
func (e *Expression) EvalBool(ctx *Context) (bool, error) {
	v, err := e.Eval(ctx)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, newEvalError(e.root.Pos(), TypeMismatch, "expression %q did not evaluate to a boolean, got %s", e.source, TypedValueOf(v).TypeName())
	}
	return b, nil
}

// EvalRef resolves the expression to a ValueRef, evaluating the target
// location exactly once. Non-assignable expressions yield a read-only ref
// whose writes fail.
func (e *Expression) EvalRef(ctx *Context) (ValueRef, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	return refOf(e.root, ctx)
}
