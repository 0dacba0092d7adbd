package core

import "context"

// Invoker runs a bound handler with a frame.
type Invoker func(ctx context.Context, f Frame) error

// Candidate describes one handler offered for registration.
// A leading context.Context parameter is not part of Params.
type Candidate struct {
	Label  string
	Params []Kind
	Invoke Invoker
}
