// Package handler provides reflection-based handler analysis for the frames package.
package handler

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Handler holds the analysed signature of a handler function.
type Handler struct {
	Fn         reflect.Value
	Params     []reflect.Type // declared parameters after an optional context
	HasContext bool
	ReturnsErr bool
}

// New analyses fn, which must be a function.
// Accepted results are none or a single error. The parameter list is
// recorded as declared; its shape is judged by the registry.
func New(fn any) (*Handler, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: got nil", core.ErrNotFunction)
	}
	return FromValue(reflect.ValueOf(fn))
}

// FromValue is New for an existing reflect.Value, such as a bound method.
func FromValue(fnVal reflect.Value) (*Handler, error) {
	// Check for typed nil (e.g., var fn func(*frame.TextFrame) = nil)
	if !fnVal.IsValid() {
		return nil, fmt.Errorf("%w: got nil", core.ErrNotFunction)
	}
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %s", core.ErrNotFunction, fnType)
	}
	if fnVal.IsNil() {
		return nil, fmt.Errorf("%w: got nil %s", core.ErrNotFunction, fnType)
	}

	h := &Handler{Fn: fnVal}

	start := 0
	if fnType.NumIn() > 0 && fnType.In(0) == contextType {
		h.HasContext = true
		start = 1
	}
	for i := start; i < fnType.NumIn(); i++ {
		h.Params = append(h.Params, fnType.In(i))
	}

	switch fnType.NumOut() {
	case 0:
	case 1:
		if fnType.Out(0) != errorType {
			return nil, fmt.Errorf("%w: got %s", core.ErrBadReturn, fnType.Out(0))
		}
		h.ReturnsErr = true
	default:
		return nil, fmt.Errorf("%w: got %d results", core.ErrBadReturn, fnType.NumOut())
	}

	return h, nil
}

// Invoke calls the handler with f. The handler must declare exactly one
// parameter and f must be assignable to it.
func (h *Handler) Invoke(ctx context.Context, f core.Frame) error {
	if !h.Fn.IsValid() || h.Fn.IsNil() {
		return fmt.Errorf("handler function is nil or invalid")
	}
	if len(h.Params) != 1 {
		return core.ErrParamCount
	}

	fv := reflect.ValueOf(f)
	if !fv.IsValid() {
		return core.ErrNilFrame
	}
	if !fv.Type().AssignableTo(h.Params[0]) {
		return fmt.Errorf("%w: %s is not assignable to %s", core.ErrFrameType, fv.Type(), h.Params[0])
	}

	args := make([]reflect.Value, 0, 2)
	if h.HasContext {
		if ctx == nil {
			ctx = context.Background()
		}
		args = append(args, reflect.ValueOf(ctx))
	}
	args = append(args, fv)

	results := h.Fn.Call(args)
	if h.ReturnsErr && !results[0].IsNil() {
		return results[0].Interface().(error)
	}
	return nil
}
