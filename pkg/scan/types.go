package scan

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
	"github.com/jdziat/simple-frame-handlers/pkg/frame"
)

var frameType = reflect.TypeOf((*core.Frame)(nil)).Elem()

// TypeTable maps Go parameter types onto frame kinds of one hierarchy.
// Bindings must agree with Go assignability: a type bound to a kind is
// assignable to every type bound to one of that kind's ancestors.
// It is safe for concurrent use.
type TypeTable struct {
	mu        sync.RWMutex
	hierarchy core.Hierarchy
	kinds     map[reflect.Type]core.Kind
}

// NewTypeTable returns an empty table over frame.Default().
func NewTypeTable() *TypeTable {
	return NewTypeTableFor(nil)
}

// NewTypeTableFor returns an empty table over h. A nil h means frame.Default().
func NewTypeTableFor(h core.Hierarchy) *TypeTable {
	if h == nil {
		h = frame.Default()
	}
	return &TypeTable{hierarchy: h, kinds: make(map[reflect.Type]core.Kind)}
}

// DefaultTypes returns a table over frame.Default() holding the built-in
// frame types.
func DefaultTypes() *TypeTable {
	return DefaultTypesFor(nil)
}

// DefaultTypesFor returns a table over h holding the built-in frame types.
func DefaultTypesFor(h core.Hierarchy) *TypeTable {
	t := NewTypeTableFor(h)
	t.mustBind(frameType, frame.KindFrame)
	t.mustBind(reflect.TypeOf((*frame.Data)(nil)).Elem(), frame.KindData)
	t.mustBind(reflect.TypeOf((*frame.Control)(nil)).Elem(), frame.KindControl)
	t.mustBind(reflect.TypeOf(&frame.TextFrame{}), frame.KindText)
	t.mustBind(reflect.TypeOf(&frame.BinaryFrame{}), frame.KindBinary)
	t.mustBind(reflect.TypeOf(&frame.ContinuationFrame{}), frame.KindContinuation)
	t.mustBind(reflect.TypeOf(&frame.CloseFrame{}), frame.KindClose)
	t.mustBind(reflect.TypeOf(&frame.PingFrame{}), frame.KindPing)
	t.mustBind(reflect.TypeOf(&frame.PongFrame{}), frame.KindPong)
	return t
}

var sharedDefault = sync.OnceValue(DefaultTypes)

// orDefault returns t, or a shared DefaultTypes table when t is nil.
func orDefault(t *TypeTable) *TypeTable {
	if t == nil {
		return sharedDefault()
	}
	return t
}

func (t *TypeTable) mustBind(typ reflect.Type, k core.Kind) {
	if err := t.Bind(typ, k); err != nil {
		panic(err)
	}
}

// Bind maps typ onto k, replacing any earlier mapping. typ must implement
// core.Frame and agree with the types bound to k's ancestors and descendants,
// otherwise a handler could be chosen for a value it cannot accept.
func (t *TypeTable) Bind(typ reflect.Type, k core.Kind) error {
	if typ == nil || !typ.Implements(frameType) {
		return fmt.Errorf("bind %v: %w", typ, core.ErrNotFrameType)
	}
	if k == core.KindInvalid {
		return fmt.Errorf("bind %v: %w", typ, core.ErrInvalidKind)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for other, bound := range t.kinds {
		if other == typ || bound == k {
			continue
		}
		if t.hierarchy.IsSubtypeOf(k, bound) && !typ.AssignableTo(other) {
			return fmt.Errorf("bind %v to %s: %w: not assignable to %v (%s)",
				typ, t.hierarchy.Name(k), core.ErrTypeConflict, other, t.hierarchy.Name(bound))
		}
		if t.hierarchy.IsSubtypeOf(bound, k) && !other.AssignableTo(typ) {
			return fmt.Errorf("bind %v to %s: %w: %v (%s) is not assignable to it",
				typ, t.hierarchy.Name(k), core.ErrTypeConflict, other, t.hierarchy.Name(bound))
		}
	}
	t.kinds[typ] = k
	return nil
}

// BindType maps the type parameter onto k.
func BindType[T core.Frame](t *TypeTable, k core.Kind) error {
	return t.Bind(reflect.TypeOf((*T)(nil)).Elem(), k)
}

// KindOf returns the kind bound to typ, or core.KindInvalid.
func (t *TypeTable) KindOf(typ reflect.Type) core.Kind {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.kinds[typ]
}

// Hierarchy returns the hierarchy bindings are checked against.
func (t *TypeTable) Hierarchy() core.Hierarchy {
	return t.hierarchy
}

// Len returns the number of bound types.
func (t *TypeTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.kinds)
}
