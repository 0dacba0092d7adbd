package registry

import (
	"context"

	intctx "github.com/jdziat/simple-frame-handlers/pkg/internal/context"
)

// DispatchInfo describes the dispatch a handler is running under.
// BindingID and Receiver are set when the frame arrived through an endpoint.
type DispatchInfo = intctx.DispatchInfo

// InfoFromContext returns the dispatch info of the running handler.
func InfoFromContext(ctx context.Context) (DispatchInfo, bool) {
	return intctx.GetDispatch(ctx)
}

// WithInfo returns a context carrying info. Dispatch fills in Label and Kind.
func WithInfo(ctx context.Context, info DispatchInfo) context.Context {
	return intctx.WithDispatch(ctx, info)
}
