package expr

import "reflect"

// TypedValue carries an evaluated value together with its dynamic type.
// The zero TypedValue represents null.
type TypedValue struct {
	Value any
	Type  reflect.Type
}

// NullValue is the shared representation of "no value"
var NullValue = TypedValue{}

// TypedValueOf wraps a raw value in a TypedValue, mapping nil to NullValue
func TypedValueOf(v any) TypedValue {
	if v == nil {
		return NullValue
	}
	return TypedValue{Value: v, Type: reflect.TypeOf(v)}
}

// IsNull reports whether the value represents null. Typed nil pointers,
// maps, slices, channels and funcs count as null.
func (v TypedValue) IsNull() bool {
	if v.Value == nil {
		return true
	}
	rv := reflect.ValueOf(v.Value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// TypeName returns a printable name for the value's type, "null" for null values
func (v TypedValue) TypeName() string {
	if v.IsNull() {
		return "null"
	}
	return v.Type.String()
}
