package endpoint

import (
	"context"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
	"github.com/jdziat/simple-frame-handlers/pkg/registry"
	"github.com/jdziat/simple-frame-handlers/pkg/scan"
	"github.com/jdziat/simple-frame-handlers/pkg/security"
)

// Binding describes a bound receiver.
type Binding struct {
	ID       string
	Label    string
	Handlers int
}

// Result is the outcome of dispatching a frame to one binding.
type Result struct {
	BindingID string
	Receiver  string
	Outcome   registry.Outcome
}

type bound struct {
	Binding
	reg *registry.Registry
}

// Endpoint publishes receiver registries and dispatches frames to them.
type Endpoint struct {
	opts *Options

	// bindings is replaced, never mutated. Writers hold writeMu.
	bindings atomic.Pointer[[]*bound]
	writeMu  sync.Mutex

	mu          sync.RWMutex
	onHandled   []func(context.Context, Binding, *registry.Descriptor, core.Frame)
	onUnhandled []func(context.Context, Binding, core.Frame)
	onFail      []func(context.Context, Binding, core.Frame, error)
	eventSubs   []chan core.Event
}

// New creates an Endpoint with no bindings.
func New(opts ...Option) *Endpoint {
	o := NewOptions()
	for _, opt := range opts {
		opt.Apply(o)
	}
	if o.Types == nil {
		o.Types = scan.DefaultTypesFor(o.Hierarchy)
	}
	e := &Endpoint{opts: o}
	e.bindings.Store(&[]*bound{})
	return e
}

// Hierarchy returns the endpoint's frame hierarchy.
func (e *Endpoint) Hierarchy() core.Hierarchy {
	return e.opts.Hierarchy
}

// Logger returns the endpoint's logger.
func (e *Endpoint) Logger() *slog.Logger {
	return e.opts.Logger
}

// Bind discovers receiver's handler methods, registers them and publishes
// the result. It returns the binding ID.
func (e *Endpoint) Bind(receiver any, opts ...BindOption) (string, error) {
	bo := &BindOptions{}
	for _, opt := range opts {
		opt.ApplyBind(bo)
	}

	cands, err := scan.Methods(receiver, e.opts.Types, scan.WithPrefix(e.opts.MethodPrefix))
	if err != nil {
		return "", err
	}
	if bo.Label == "" {
		bo.Label = scan.TypeName(reflect.TypeOf(receiver))
	}
	return e.BindCandidates(bo.Label, cands)
}

// BindCandidates registers explicit candidates under label and publishes the
// result. It returns the binding ID.
func (e *Endpoint) BindCandidates(label string, cands []core.Candidate) (string, error) {
	if err := security.ValidateLabel(label); err != nil {
		return "", &core.RegistrationError{Label: label, Err: err}
	}

	reg, err := registry.Register(e.opts.Hierarchy, cands)
	if err != nil {
		e.opts.Logger.Warn("receiver rejected", "receiver", label, "error", err)
		return "", err
	}

	b := &bound{
		Binding: Binding{
			ID:       uuid.New().String(),
			Label:    label,
			Handlers: reg.Len(),
		},
		reg: reg,
	}

	e.writeMu.Lock()
	next := append(slices.Clone(*e.bindings.Load()), b)
	e.bindings.Store(&next)
	e.writeMu.Unlock()

	e.opts.Logger.Info("receiver bound", "receiver", label, "binding_id", b.ID, "handlers", b.Handlers)
	e.Emit(&core.ReceiverBound{
		BindingID: b.ID,
		Receiver:  label,
		Handlers:  b.Handlers,
		Timestamp: time.Now(),
	})
	return b.ID, nil
}

// Unbind withdraws a binding. It reports whether the binding existed.
// Dispatches already in progress finish against the old snapshot.
func (e *Endpoint) Unbind(id string) bool {
	e.writeMu.Lock()
	cur := *e.bindings.Load()
	i := slices.IndexFunc(cur, func(b *bound) bool { return b.ID == id })
	if i < 0 {
		e.writeMu.Unlock()
		return false
	}
	removed := cur[i]
	next := slices.Delete(slices.Clone(cur), i, i+1)
	e.bindings.Store(&next)
	e.writeMu.Unlock()

	e.opts.Logger.Info("receiver unbound", "receiver", removed.Label, "binding_id", id)
	e.Emit(&core.ReceiverUnbound{
		BindingID: id,
		Receiver:  removed.Label,
		Timestamp: time.Now(),
	})
	return true
}

// Bindings returns the current bindings in bind order.
func (e *Endpoint) Bindings() []Binding {
	cur := *e.bindings.Load()
	out := make([]Binding, len(cur))
	for i, b := range cur {
		out[i] = b.Binding
	}
	return out
}

// Registry returns the registry of a binding.
func (e *Endpoint) Registry(id string) (*registry.Registry, bool) {
	for _, b := range *e.bindings.Load() {
		if b.ID == id {
			return b.reg, true
		}
	}
	return nil, false
}

// Dispatch sends f to every bound receiver in bind order. The first error
// stops the fan-out and is returned along with the results so far.
func (e *Endpoint) Dispatch(ctx context.Context, f core.Frame) ([]Result, error) {
	if f == nil {
		return nil, core.ErrNilFrame
	}
	if ctx == nil {
		ctx = context.Background()
	}

	snap := *e.bindings.Load()
	kind := e.opts.Hierarchy.Name(f.Kind())
	results := make([]Result, 0, len(snap))

	for _, b := range snap {
		bctx := registry.WithInfo(ctx, registry.DispatchInfo{BindingID: b.ID, Receiver: b.Label})
		start := time.Now()
		out, err := b.reg.Dispatch(bctx, f)
		results = append(results, Result{BindingID: b.ID, Receiver: b.Label, Outcome: out})

		if err != nil {
			e.opts.Logger.Error("dispatch failed",
				"receiver", b.Label, "binding_id", b.ID, "kind", kind, "error", err)
			e.Emit(&core.DispatchFailed{
				BindingID: b.ID,
				Receiver:  b.Label,
				Kind:      kind,
				Error:     err,
				Timestamp: time.Now(),
			})
			e.callFailHooks(ctx, b.Binding, f, err)
			return results, err
		}

		switch out.Status {
		case registry.Handled:
			e.Emit(&core.FrameHandled{
				BindingID: b.ID,
				Receiver:  b.Label,
				Label:     out.Descriptor.Label,
				Kind:      kind,
				Duration:  time.Since(start),
				Timestamp: time.Now(),
			})
			e.callHandledHooks(ctx, b.Binding, out.Descriptor, f)
		case registry.Unhandled:
			e.opts.Logger.Debug("frame unhandled", "receiver", b.Label, "kind", kind)
			e.Emit(&core.FrameUnhandled{
				BindingID: b.ID,
				Receiver:  b.Label,
				Kind:      kind,
				Timestamp: time.Now(),
			})
			e.callUnhandledHooks(ctx, b.Binding, f)
		}
	}
	return results, nil
}

// OnHandled registers a hook called after a handler returns without error.
func (e *Endpoint) OnHandled(fn func(context.Context, Binding, *registry.Descriptor, core.Frame)) {
	e.mu.Lock()
	e.onHandled = append(e.onHandled, fn)
	e.mu.Unlock()
}

// OnUnhandled registers a hook called when a receiver has no handler for a frame.
func (e *Endpoint) OnUnhandled(fn func(context.Context, Binding, core.Frame)) {
	e.mu.Lock()
	e.onUnhandled = append(e.onUnhandled, fn)
	e.mu.Unlock()
}

// OnFail registers a hook called when dispatch is ambiguous or a handler fails.
func (e *Endpoint) OnFail(fn func(context.Context, Binding, core.Frame, error)) {
	e.mu.Lock()
	e.onFail = append(e.onFail, fn)
	e.mu.Unlock()
}

func (e *Endpoint) callHandledHooks(ctx context.Context, b Binding, d *registry.Descriptor, f core.Frame) {
	e.mu.RLock()
	hooks := slices.Clone(e.onHandled)
	e.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, b, d, f)
	}
}

func (e *Endpoint) callUnhandledHooks(ctx context.Context, b Binding, f core.Frame) {
	e.mu.RLock()
	hooks := slices.Clone(e.onUnhandled)
	e.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, b, f)
	}
}

func (e *Endpoint) callFailHooks(ctx context.Context, b Binding, f core.Frame, err error) {
	e.mu.RLock()
	hooks := slices.Clone(e.onFail)
	e.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, b, f, err)
	}
}

// Events returns a channel for receiving endpoint events.
// The caller must call Unsubscribe when done to prevent resource leaks.
func (e *Endpoint) Events() <-chan core.Event {
	return e.EventsBuffered(100)
}

// EventsBuffered is Events with a chosen buffer size, clamped to
// [1, security.MaxEventBuffer].
func (e *Endpoint) EventsBuffered(size int) <-chan core.Event {
	ch := make(chan core.Event, security.ClampEventBuffer(size))
	e.mu.Lock()
	e.eventSubs = append(e.eventSubs, ch)
	e.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel created by Events.
// The channel is not closed. After Unsubscribe returns, no further events
// will be sent to it.
func (e *Endpoint) Unsubscribe(ch <-chan core.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, sub := range e.eventSubs {
		if sub == ch {
			e.eventSubs = append(e.eventSubs[:i], e.eventSubs[i+1:]...)
			return
		}
	}
}

// Emit sends an event to all subscribers, dropping it for full ones.
// Sends never block, so they happen under the read lock and cannot race
// Unsubscribe.
func (e *Endpoint) Emit(ev core.Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, ch := range e.eventSubs {
		select {
		case ch <- ev:
		default:
			// Drop if full
		}
	}
}
