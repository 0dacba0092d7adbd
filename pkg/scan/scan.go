package scan

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
	"github.com/jdziat/simple-frame-handlers/pkg/internal/handler"
	"github.com/jdziat/simple-frame-handlers/pkg/security"
)

// DefaultPrefix marks a method as a frame handler.
const DefaultPrefix = "OnFrame"

// Options configures Methods.
type Options struct {
	Prefix string
}

// Option modifies Options.
type Option interface {
	Apply(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) Apply(o *Options) { f(o) }

// WithPrefix sets the method name prefix that marks a handler.
// An empty prefix is ignored.
func WithPrefix(p string) Option {
	return optionFunc(func(o *Options) {
		if p != "" {
			o.Prefix = p
		}
	})
}

// Func turns fn into a candidate. A nil types uses DefaultTypes. Accepted shapes are func(F), func(F) error,
// func(context.Context, F) and func(context.Context, F) error. Other parameter
// counts are passed through so registration can report them.
func Func(label string, fn any, types *TypeTable) (core.Candidate, error) {
	if err := security.ValidateLabel(label); err != nil {
		return core.Candidate{}, &core.RegistrationError{Label: label, Err: err}
	}
	h, err := handler.New(fn)
	if err != nil {
		return core.Candidate{}, &core.RegistrationError{Label: label, Err: err}
	}
	return candidate(label, h, types), nil
}

// Typed builds a candidate from a statically typed handler. Reflection is
// used only to look up the kind of F.
func Typed[F core.Frame](label string, fn func(context.Context, F) error, types *TypeTable) (core.Candidate, error) {
	if err := security.ValidateLabel(label); err != nil {
		return core.Candidate{}, &core.RegistrationError{Label: label, Err: err}
	}
	if fn == nil {
		return core.Candidate{}, &core.RegistrationError{Label: label, Err: core.ErrNotFunction}
	}

	typ := reflect.TypeOf((*F)(nil)).Elem()
	types = orDefault(types)
	return core.Candidate{
		Label:  label,
		Params: []core.Kind{types.KindOf(typ)},
		Invoke: func(ctx context.Context, f core.Frame) error {
			if f == nil {
				return core.ErrNilFrame
			}
			v, ok := f.(F)
			if !ok {
				return fmt.Errorf("%w: %T is not assignable to %s", core.ErrFrameType, f, typ)
			}
			if ctx == nil {
				ctx = context.Background()
			}
			return fn(ctx, v)
		},
	}, nil
}

// Methods collects the handler methods of receiver in method name order.
// Labels take the form "Type.Method".
func Methods(receiver any, types *TypeTable, opts ...Option) ([]core.Candidate, error) {
	o := &Options{Prefix: DefaultPrefix}
	for _, opt := range opts {
		opt.Apply(o)
	}

	rv := reflect.ValueOf(receiver)
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return nil, &core.RegistrationError{Label: "<nil>", Err: core.ErrNoHandlers}
	}
	rt := rv.Type()
	name := TypeName(rt)

	var cands []core.Candidate
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !strings.HasPrefix(m.Name, o.Prefix) {
			continue
		}
		label := name + "." + m.Name
		h, err := handler.FromValue(rv.Method(i))
		if err != nil {
			return nil, &core.RegistrationError{Label: label, Err: err}
		}
		cands = append(cands, candidate(label, h, types))
	}

	if len(cands) == 0 {
		return nil, &core.RegistrationError{Label: name, Err: core.ErrNoHandlers}
	}
	return cands, nil
}

// TypeName returns the name of t, dereferencing pointers.
func TypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

func candidate(label string, h *handler.Handler, types *TypeTable) core.Candidate {
	types = orDefault(types)
	params := make([]core.Kind, len(h.Params))
	for i, p := range h.Params {
		params[i] = types.KindOf(p)
	}
	return core.Candidate{
		Label:  label,
		Params: params,
		Invoke: h.Invoke,
	}
}
