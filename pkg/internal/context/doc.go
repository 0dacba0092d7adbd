// Package context provides internal context helpers for frame dispatch.
//
// This package is internal and should not be imported directly.
// It provides the context value that tells a running handler which
// binding, receiver and handler the current frame was routed to.
package context
