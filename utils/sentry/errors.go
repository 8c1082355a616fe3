package sentry

import (
	"errors"
	"fmt"
)

// ErrNilError is returned when Report or Extract is given a nil error
var ErrNilError = errors.New("sentry: cannot report a nil error")

// ExtractionError is returned when a stack tracer panics while reading an error's trace.
// No event is sent when it occurs.
type ExtractionError struct {
	Value any
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("sentry: stack extraction failed: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error
func (e *ExtractionError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Error is an error with a type name and the stack it was created on
type Error struct {
	Name    string
	Message string
	callers []uintptr
}

// NewError creates an Error recording the caller's stack
func NewError(name, message string) *Error {
	return &Error{
		Name:    name,
		Message: message,
		callers: callers(1),
	}
}

func (e *Error) Error() string {
	return e.Message
}

// ErrorType is reported as the exception type
func (e *Error) ErrorType() string {
	return e.Name
}

// Callers returns the program counters captured by NewError
func (e *Error) Callers() []uintptr {
	return e.callers
}
