// Package context provides context helpers for the frames package.
package context

import (
	"context"
)

// DispatchKey is the key for storing dispatch info in context.Context.
type DispatchKey struct{}

// DispatchInfo describes the dispatch a handler is running under.
type DispatchInfo struct {
	BindingID string
	Receiver  string
	Label     string
	Kind      string
}

// GetDispatch retrieves dispatch info from a context.Context.
func GetDispatch(ctx context.Context) (DispatchInfo, bool) {
	if ctx == nil {
		return DispatchInfo{}, false
	}
	info, ok := ctx.Value(DispatchKey{}).(DispatchInfo)
	return info, ok
}

// WithDispatch adds dispatch info to a context.Context.
func WithDispatch(ctx context.Context, info DispatchInfo) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, DispatchKey{}, info)
}
