package frames

import (
	"github.com/jdziat/simple-frame-handlers/pkg/core"
	"github.com/jdziat/simple-frame-handlers/pkg/frame"
)

type (
	// RegistrationError rejects a whole registration batch because of one candidate.
	RegistrationError = core.RegistrationError

	// DispatchAmbiguityError reports that no single handler is the most specific match.
	DispatchAmbiguityError = core.DispatchAmbiguityError

	// HandlerInvocationError wraps a failure raised by a handler.
	HandlerInvocationError = core.HandlerInvocationError

	// PanicError carries a value recovered from a panicking handler.
	PanicError = core.PanicError
)

// Registration errors
var (
	ErrNoInvoker       = core.ErrNoInvoker
	ErrParamCount      = core.ErrParamCount
	ErrNotFrameType    = core.ErrNotFrameType
	ErrDuplicateKind   = core.ErrDuplicateKind
	ErrTooManyHandlers = core.ErrTooManyHandlers
	ErrNotFunction     = core.ErrNotFunction
	ErrBadReturn       = core.ErrBadReturn
	ErrNoHandlers      = core.ErrNoHandlers
	ErrInvalidLabel    = core.ErrInvalidLabel
)

// Hierarchy and dispatch errors
var (
	ErrNilFrame      = core.ErrNilFrame
	ErrFrameType     = core.ErrFrameType
	ErrInvalidKind   = core.ErrInvalidKind
	ErrKindTooLong   = core.ErrKindTooLong
	ErrKindExists    = core.ErrKindExists
	ErrUnknownKind   = core.ErrUnknownKind
	ErrNoParents     = core.ErrNoParents
	ErrTooManyKinds  = core.ErrTooManyKinds
	ErrTypeConflict  = core.ErrTypeConflict
	ErrUnknownOpcode = frame.ErrUnknownOpcode
)
