package core

import (
	"errors"
	"fmt"
	"strings"
)

// Registration reasons
var (
	ErrNoInvoker       = errors.New("frames: handler has no invoker")
	ErrParamCount      = errors.New("frames: handler must declare exactly one frame parameter")
	ErrNotFrameType    = errors.New("frames: handler parameter is not a frame type")
	ErrDuplicateKind   = errors.New("frames: another handler already declares this frame type")
	ErrTooManyHandlers = errors.New("frames: too many handlers for one receiver")
	ErrNotFunction     = errors.New("frames: handler must be a function")
	ErrBadReturn       = errors.New("frames: handler must return nothing or error")
	ErrNoHandlers      = errors.New("frames: receiver has no frame handlers")
)

// Dispatch errors
var (
	ErrNilFrame     = errors.New("frames: cannot dispatch a nil frame")
	ErrFrameType    = errors.New("frames: frame does not match the handler parameter type")
	ErrInvalidKind  = errors.New("frames: invalid kind name")
	ErrKindTooLong  = errors.New("frames: kind name too long")
	ErrKindExists   = errors.New("frames: kind already defined")
	ErrUnknownKind  = errors.New("frames: unknown kind")
	ErrNoParents    = errors.New("frames: kind must have at least one parent")
	ErrTooManyKinds = errors.New("frames: too many kinds defined")
	ErrTypeConflict = errors.New("frames: type is not assignable along its kind's ancestry")
	ErrInvalidLabel = errors.New("frames: invalid handler label")
)

// RegistrationError rejects a whole registration batch because of one candidate.
type RegistrationError struct {
	Label string
	// Conflict is the label of the earlier candidate for ErrDuplicateKind.
	Conflict string
	Err      error
}

func (e *RegistrationError) Error() string {
	if e.Conflict != "" {
		return fmt.Sprintf("register %s: %v (conflicts with %s)", e.Label, e.Err, e.Conflict)
	}
	return fmt.Sprintf("register %s: %v", e.Label, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// DispatchAmbiguityError reports that no single handler is the most specific
// match for a frame kind.
type DispatchAmbiguityError struct {
	Kind   string
	Labels []string
}

func (e *DispatchAmbiguityError) Error() string {
	return fmt.Sprintf("frames: ambiguous dispatch for %s: %s", e.Kind, strings.Join(e.Labels, ", "))
}

// HandlerInvocationError wraps a failure raised by a handler.
type HandlerInvocationError struct {
	Label string
	Kind  string
	Err   error
}

func (e *HandlerInvocationError) Error() string {
	return fmt.Sprintf("handler %s (%s): %v", e.Label, e.Kind, e.Err)
}

func (e *HandlerInvocationError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
