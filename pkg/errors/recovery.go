// Package errors provides panic recovery for the public preprocessing entry points.
//
// Numeric code built on gonum panics on shape errors instead of returning them.
// Recover converts such panics into structured errors at the API boundary.

package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// PanicError is a panic recovered at a public entry point.
type PanicError struct {
	PanicValue interface{}
	StackTrace string
	Operation  string
	// Prior is the error the function had already set when it panicked.
	Prior error
}

func (e *PanicError) Error() string {
	if e.Prior != nil {
		return fmt.Sprintf("panic in %s: %v (original error: %v)", e.Operation, e.PanicValue, e.Prior)
	}
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap returns Prior, or the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if e.Prior != nil {
		return e.Prior
	}
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String includes the stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("%s\nStack trace:\n%s", e.Error(), e.StackTrace)
}

// MarshalZerologObject adds the panic details to a zerolog event.
func (e *PanicError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Str("panic", fmt.Sprint(e.PanicValue)).
		Str("type", "PanicError")
	if e.Prior != nil {
		event.Str("prior", e.Prior.Error())
	}
}

// NewPanicError captures the current stack for a recovered panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover is meant to be deferred with a pointer to the named error result.
//
//	func (p *Preprocessor) Fit(X *frame.Table) (err error) {
//	    defer errors.Recover(&err, "Preprocessor.Fit")
//	    ...
//	}
//
// An error already set when the panic happened is kept as PanicError.Prior.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		p := NewPanicError(operation, r)
		p.Prior = *err
		*err = p
	}
}
