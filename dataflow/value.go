package dataflow

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrTypeMismatch reports a typed access against a value or cell slot that
// holds a payload of a different concrete type.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeMismatchError carries the context of a failed typed access. Port is
// set by connect-time and emitted-output checks; Key is set when a cell
// rejects a write. Both are empty for a plain As.
type TypeMismatchError struct {
	Port     string
	Key      string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("type mismatch on port %q key %q: expected %s, got %s",
			e.Port, e.Key, e.Expected, e.Actual)
	}
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// A Value is a type-erased container for one payload. Values flow across
// port boundaries and into memory cell slots; every access names the
// expected concrete type and fails instead of coercing. Values are
// immutable after construction.
type Value struct {
	payload any
}

// NewValue wraps a payload. The payload must be safe to share across
// goroutines once wrapped; the cycle engine never mutates it.
func NewValue[T any](payload T) Value {
	return Value{payload: payload}
}

// IsZero reports whether the value carries no payload. The zero Value
// stands for "absent" in input maps and cell slots.
func (v Value) IsZero() bool {
	return v.payload == nil
}

// Payload returns the erased payload.
func (v Value) Payload() any {
	return v.payload
}

// Type returns the reflect type of the payload, or nil for the zero Value.
func (v Value) Type() reflect.Type {
	if v.payload == nil {
		return nil
	}
	return reflect.TypeOf(v.payload)
}

// TypeName returns the payload's type name for error reporting.
func (v Value) TypeName() string {
	if v.payload == nil {
		return "<none>"
	}
	return reflect.TypeOf(v.payload).String()
}

// As extracts the payload as T. It fails with ErrTypeMismatch if the value
// holds a payload of another concrete type or no payload at all.
func As[T any](v Value) (T, error) {
	payload, ok := v.payload.(T)
	if !ok {
		var zero T
		return zero, &TypeMismatchError{
			Expected: TypeOf[T]().String(),
			Actual:   v.TypeName(),
		}
	}
	return payload, nil
}

// TypeOf returns the reflect type for T. Used by port declarations and
// memory modules to record declared payload types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
