package registry

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
	"github.com/jdziat/simple-frame-handlers/pkg/frame"
	intctx "github.com/jdziat/simple-frame-handlers/pkg/internal/context"
	"github.com/jdziat/simple-frame-handlers/pkg/security"
)

// Descriptor is one validated handler.
type Descriptor struct {
	Label string
	Kind  core.Kind
	Rank  int
	// Index is the declaration position within the registration batch.
	Index int

	invoke core.Invoker
}

func (d *Descriptor) String() string {
	return d.Label
}

// OutcomeStatus says whether a handler ran.
type OutcomeStatus int

const (
	Unhandled OutcomeStatus = iota
	Handled
)

func (s OutcomeStatus) String() string {
	switch s {
	case Handled:
		return "handled"
	case Unhandled:
		return "unhandled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of a dispatch. Descriptor is set when Status is
// Handled, including when the handler returned an error.
type Outcome struct {
	Status     OutcomeStatus
	Descriptor *Descriptor
}

func (o Outcome) String() string {
	if o.Descriptor == nil {
		return o.Status.String()
	}
	return o.Status.String() + " by " + o.Descriptor.Label
}

type resolution struct {
	d *Descriptor
	// tied lists the unbeaten candidates when resolution is ambiguous.
	tied []string
}

// Registry is an immutable set of handlers for one receiver.
type Registry struct {
	hierarchy   core.Hierarchy
	descriptors []*Descriptor
	// byRank holds descriptors by descending rank, then declaration order.
	byRank []*Descriptor
	table  map[core.Kind]resolution
}

// Register validates candidates and builds a Registry. A nil hierarchy means
// frame.Default(). Registration is all-or-nothing: the first invalid
// candidate fails the batch with a *core.RegistrationError.
func Register(h core.Hierarchy, candidates []core.Candidate) (*Registry, error) {
	if h == nil {
		h = frame.Default()
	}
	if len(candidates) > security.MaxHandlersPerReceiver {
		return nil, &core.RegistrationError{
			Label: candidates[security.MaxHandlersPerReceiver].Label,
			Err:   core.ErrTooManyHandlers,
		}
	}

	r := &Registry{
		hierarchy:   h,
		descriptors: make([]*Descriptor, 0, len(candidates)),
	}
	seen := make(map[core.Kind]string, len(candidates))

	for i, c := range candidates {
		if err := security.ValidateLabel(c.Label); err != nil {
			return nil, &core.RegistrationError{Label: c.Label, Err: err}
		}
		if c.Invoke == nil {
			return nil, &core.RegistrationError{Label: c.Label, Err: core.ErrNoInvoker}
		}
		if len(c.Params) != 1 {
			return nil, &core.RegistrationError{
				Label: c.Label,
				Err:   fmt.Errorf("%w: got %d", core.ErrParamCount, len(c.Params)),
			}
		}
		k := c.Params[0]
		if k == core.KindInvalid || !h.IsSubtypeOf(k, h.Base()) {
			return nil, &core.RegistrationError{Label: c.Label, Err: core.ErrNotFrameType}
		}
		if prev, dup := seen[k]; dup {
			return nil, &core.RegistrationError{Label: c.Label, Conflict: prev, Err: core.ErrDuplicateKind}
		}
		seen[k] = c.Label

		r.descriptors = append(r.descriptors, &Descriptor{
			Label:  c.Label,
			Kind:   k,
			Rank:   h.Rank(k),
			Index:  i,
			invoke: c.Invoke,
		})
	}

	r.byRank = slices.Clone(r.descriptors)
	slices.SortStableFunc(r.byRank, func(a, b *Descriptor) int {
		return b.Rank - a.Rank
	})

	kinds := h.Kinds()
	r.table = make(map[core.Kind]resolution, len(kinds))
	for _, k := range kinds {
		r.table[k] = r.resolve(k)
	}
	return r, nil
}

// resolve computes the most specific descriptor for k. Candidates are
// visited by descending rank, so the first one found is unbeaten; the rest
// are still checked for ties.
func (r *Registry) resolve(k core.Kind) resolution {
	var cands []*Descriptor
	for _, d := range r.byRank {
		if r.hierarchy.IsSubtypeOf(k, d.Kind) {
			cands = append(cands, d)
		}
	}
	if len(cands) == 0 {
		return resolution{}
	}

	var maximal []*Descriptor
	for _, d := range cands {
		beaten := false
		for _, o := range cands {
			if o != d && r.hierarchy.IsSubtypeOf(o.Kind, d.Kind) {
				beaten = true
				break
			}
		}
		if !beaten {
			maximal = append(maximal, d)
		}
	}

	if len(maximal) == 1 {
		return resolution{d: maximal[0]}
	}
	slices.SortFunc(maximal, func(a, b *Descriptor) int {
		return a.Index - b.Index
	})
	tied := make([]string, len(maximal))
	for i, d := range maximal {
		tied[i] = d.Label
	}
	return resolution{tied: tied}
}

// Resolve returns the handler a frame of kind k would be dispatched to,
// without invoking it. It returns (nil, nil) when no handler applies.
func (r *Registry) Resolve(k core.Kind) (*Descriptor, error) {
	res, ok := r.table[k]
	if !ok {
		// Kind defined after registration.
		res = r.resolve(k)
	}
	if res.tied != nil {
		return nil, &core.DispatchAmbiguityError{
			Kind:   r.hierarchy.Name(k),
			Labels: slices.Clone(res.tied),
		}
	}
	return res.d, nil
}

// Dispatch routes f to its most specific handler and invokes it once.
// Handler errors and panics are returned as *core.HandlerInvocationError.
func (r *Registry) Dispatch(ctx context.Context, f core.Frame) (Outcome, error) {
	if f == nil {
		return Outcome{}, core.ErrNilFrame
	}
	if ctx == nil {
		ctx = context.Background()
	}

	k := f.Kind()
	if !r.hierarchy.IsSubtypeOf(k, r.hierarchy.Base()) {
		return Outcome{Status: Unhandled}, nil
	}

	d, err := r.Resolve(k)
	if err != nil {
		return Outcome{Status: Unhandled}, err
	}
	if d == nil {
		return Outcome{Status: Unhandled}, nil
	}

	out := Outcome{Status: Handled, Descriptor: d}
	if err := r.invoke(ctx, d, k, f); err != nil {
		return out, &core.HandlerInvocationError{
			Label: d.Label,
			Kind:  r.hierarchy.Name(k),
			Err:   err,
		}
	}
	return out, nil
}

func (r *Registry) invoke(ctx context.Context, d *Descriptor, k core.Kind, f core.Frame) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &core.PanicError{Value: p, Stack: debug.Stack()}
		}
	}()

	info, _ := intctx.GetDispatch(ctx)
	info.Label = d.Label
	info.Kind = r.hierarchy.Name(k)
	return d.invoke(intctx.WithDispatch(ctx, info), f)
}

// Len returns the number of handlers.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Descriptors returns a copy of the handlers in declaration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	for i, d := range r.descriptors {
		out[i] = *d
	}
	return out
}

// Hierarchy returns the hierarchy the registry was validated against.
func (r *Registry) Hierarchy() core.Hierarchy {
	return r.hierarchy
}
