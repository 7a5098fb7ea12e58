package expr

import "fmt"

// ErrorCode classifies expression failures so callers can react to the
// failure kind without parsing messages
type ErrorCode int

const (
	ParseError ErrorCode = iota
	NotAssignable
	UnknownVariable
	UnknownProperty
	TypeMismatch
	DivideByZero
	IndexOutOfRange
	InvalidIndexKey
	NotComparable
)

// String returns a stable identifier for the error code
func (c ErrorCode) String() string {
	switch c {
	case ParseError:
		return "parse_error"
	case NotAssignable:
		return "not_assignable"
	case UnknownVariable:
		return "unknown_variable"
	case UnknownProperty:
		return "unknown_property"
	case TypeMismatch:
		return "type_mismatch"
	case DivideByZero:
		return "divide_by_zero"
	case IndexOutOfRange:
		return "index_out_of_range"
	case InvalidIndexKey:
		return "invalid_index_key"
	case NotComparable:
		return "not_comparable"
	default:
		return "unknown"
	}
}

// EvalError is the error type for everything that can go wrong while
// compiling or evaluating an expression. Pos is the byte offset into the
// expression source where the failure was detected.
type EvalError struct {
	Pos     int       `json:"pos"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *EvalError) Error() string {
	return fmt.Sprintf("expression error at position %d: %s", e.Pos, e.Message)
}

// newEvalError creates an EvalError at the given source position
func newEvalError(pos int, code ErrorCode, format string, args ...any) *EvalError {
	return &EvalError{
		Pos:     pos,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
