package expr

import (
	"reflect"
	"strings"
)

// toInt64 converts any integer-kinded value to int64
func toInt64(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	default:
		return 0, false
	}
}

// toFloat64 converts any numeric value to float64
func toFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// isFloatValue reports whether the value has a float kind
func isFloatValue(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// isNumericValue reports whether the value has an integer or float kind
func isNumericValue(v any) bool {
	_, ok := toFloat64(v)
	return ok
}

// isNumericKind reports whether a type can participate in numeric conversion
func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// toStringValue unwraps string-kinded values, covering named string types
func toStringValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// applyBinary applies an arithmetic, comparison or equality operator to two
// evaluated operands. Integer pairs stay in int64 arithmetic, any float
// operand promotes both sides to float64.
func applyBinary(pos int, op string, left, right TypedValue) (TypedValue, error) {
	switch op {
	case "+":
		if ls, ok := toStringValue(left.Value); ok {
			if rs, ok := toStringValue(right.Value); ok {
				return TypedValueOf(ls + rs), nil
			}
		}
		return applyArithmetic(pos, op, left, right)
	case "-", "*", "/", "%":
		return applyArithmetic(pos, op, left, right)
	case "<", "<=", ">", ">=":
		return compareValues(pos, op, left, right)
	case "==":
		return TypedValueOf(equalValues(left, right)), nil
	case "!=":
		return TypedValueOf(!equalValues(left, right)), nil
	default:
		return NullValue, newEvalError(pos, ParseError, "unknown operator %q", op)
	}
}

func applyArithmetic(pos int, op string, left, right TypedValue) (TypedValue, error) {
	if !isNumericValue(left.Value) || !isNumericValue(right.Value) {
		return NullValue, newEvalError(pos, TypeMismatch, "operator %s not defined for %s and %s", op, left.TypeName(), right.TypeName())
	}

	// Modulo is integer-only
	if op == "%" {
		li, lok := toInt64(left.Value)
		ri, rok := toInt64(right.Value)
		if !lok || !rok {
			return NullValue, newEvalError(pos, TypeMismatch, "operator %% requires integer operands, got %s and %s", left.TypeName(), right.TypeName())
		}
		if ri == 0 {
			return NullValue, newEvalError(pos, DivideByZero, "division by zero")
		}
		return TypedValueOf(li % ri), nil
	}

	if !isFloatValue(left.Value) && !isFloatValue(right.Value) {
		li, _ := toInt64(left.Value)
		ri, _ := toInt64(right.Value)
		switch op {
		case "+":
			return TypedValueOf(li + ri), nil
		case "-":
			return TypedValueOf(li - ri), nil
		case "*":
			return TypedValueOf(li * ri), nil
		case "/":
			if ri == 0 {
				return NullValue, newEvalError(pos, DivideByZero, "division by zero")
			}
			return TypedValueOf(li / ri), nil
		}
	}

	lf, _ := toFloat64(left.Value)
	rf, _ := toFloat64(right.Value)
	switch op {
	case "+":
		return TypedValueOf(lf + rf), nil
	case "-":
		return TypedValueOf(lf - rf), nil
	case "*":
		return TypedValueOf(lf * rf), nil
	case "/":
		if rf == 0 {
			return NullValue, newEvalError(pos, DivideByZero, "division by zero")
		}
		return TypedValueOf(lf / rf), nil
	}
	return NullValue, newEvalError(pos, ParseError, "unknown operator %q", op)
}

// compareValues orders two numeric or two string operands
func compareValues(pos int, op string, left, right TypedValue) (TypedValue, error) {
	var cmp int
	switch {
	case isNumericValue(left.Value) && isNumericValue(right.Value):
		lf, _ := toFloat64(left.Value)
		rf, _ := toFloat64(right.Value)
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	default:
		ls, lok := toStringValue(left.Value)
		rs, rok := toStringValue(right.Value)
		if !lok || !rok {
			return NullValue, newEvalError(pos, NotComparable, "cannot compare %s and %s", left.TypeName(), right.TypeName())
		}
		cmp = strings.Compare(ls, rs)
	}

	switch op {
	case "<":
		return TypedValueOf(cmp < 0), nil
	case "<=":
		return TypedValueOf(cmp <= 0), nil
	case ">":
		return TypedValueOf(cmp > 0), nil
	case ">=":
		return TypedValueOf(cmp >= 0), nil
	}
	return NullValue, newEvalError(pos, ParseError, "unknown comparison %q", op)
}

// equalValues compares two operands, treating numeric values of different
// kinds as equal when their numeric values match
func equalValues(left, right TypedValue) bool {
	if left.IsNull() || right.IsNull() {
		return left.IsNull() && right.IsNull()
	}
	if isNumericValue(left.Value) && isNumericValue(right.Value) {
		lf, _ := toFloat64(left.Value)
		rf, _ := toFloat64(right.Value)
		return lf == rf
	}
	return reflect.DeepEqual(left.Value, right.Value)
}

// convertAssign coerces a value for assignment into a location of the given
// type. Only assignable values and numeric-to-numeric conversions are
// accepted.
func convertAssign(pos int, v any, target reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch target.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(target), nil
		default:
			return reflect.Value{}, newEvalError(pos, TypeMismatch, "cannot assign null to %s", target)
		}
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if isNumericKind(rv.Kind()) && isNumericKind(target.Kind()) {
		return rv.Convert(target), nil
	}
	if rv.Kind() == target.Kind() && rv.Type().ConvertibleTo(target) {
		return rv.Convert(target), nil
	}
	return reflect.Value{}, newEvalError(pos, TypeMismatch, "cannot assign %s to %s", rv.Type(), target)
}

// convertMapKey coerces an index value into a map's key type
func convertMapKey(pos int, key TypedValue, keyType reflect.Type) (reflect.Value, error) {
	if key.IsNull() {
		return reflect.Value{}, newEvalError(pos, InvalidIndexKey, "map key must not be null")
	}
	kv := reflect.ValueOf(key.Value)
	if kv.Type().AssignableTo(keyType) {
		return kv, nil
	}
	if isNumericKind(kv.Kind()) && isNumericKind(keyType.Kind()) {
		return kv.Convert(keyType), nil
	}
	if kv.Kind() == keyType.Kind() && kv.Type().ConvertibleTo(keyType) {
		return kv.Convert(keyType), nil
	}
	return reflect.Value{}, newEvalError(pos, InvalidIndexKey, "cannot use %s as map key of type %s", kv.Type(), keyType)
}
