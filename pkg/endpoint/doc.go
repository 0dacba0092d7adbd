// Package endpoint holds the frame handler registries bound to one endpoint.
//
// Receivers are bound with Bind, which discovers their handler methods,
// validates them into a registry.Registry and publishes a new immutable
// snapshot of the endpoint's bindings. Dispatch reads the current snapshot
// once and fans a frame out to every bound receiver in bind order. Binding
// and unbinding never block dispatch.
//
// Hooks and the event stream report every dispatch outcome:
//
//	ep := endpoint.New(endpoint.WithLogger(logger))
//	ep.OnFail(func(ctx context.Context, b endpoint.Binding, f core.Frame, err error) {
//		metrics.Inc(b.Label)
//	})
//	id, err := ep.Bind(&Socket{})
package endpoint
