package frame

import (
	"fmt"
	"sync"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
	"github.com/jdziat/simple-frame-handlers/pkg/security"
)

// Built-in kinds. NewHierarchy defines them in this order so the constants
// are valid in every Hierarchy.
const (
	KindFrame core.Kind = iota + 1
	KindData
	KindControl
	KindText
	KindBinary
	KindContinuation
	KindClose
	KindPing
	KindPong
)

type kindInfo struct {
	name    string
	parents []core.Kind
	rank    int
	// ancestors holds every kind this one is a subtype of, itself included.
	ancestors map[core.Kind]struct{}
}

// Hierarchy is an extensible frame type hierarchy rooted at KindFrame.
// Kinds may have several parents. Kinds are never removed.
type Hierarchy struct {
	mu     sync.RWMutex
	kinds  []kindInfo // index is Kind-1
	byName map[string]core.Kind
}

var _ core.Hierarchy = (*Hierarchy)(nil)

// NewHierarchy creates a hierarchy holding the built-in RFC 6455 kinds.
func NewHierarchy() *Hierarchy {
	h := &Hierarchy{byName: make(map[string]core.Kind)}
	h.mustDefine("Frame")
	h.mustDefine("DataFrame", KindFrame)
	h.mustDefine("ControlFrame", KindFrame)
	h.mustDefine("TextFrame", KindData)
	h.mustDefine("BinaryFrame", KindData)
	h.mustDefine("ContinuationFrame", KindData)
	h.mustDefine("CloseFrame", KindControl)
	h.mustDefine("PingFrame", KindControl)
	h.mustDefine("PongFrame", KindControl)
	return h
}

var (
	defaultOnce      sync.Once
	defaultHierarchy *Hierarchy
)

// Default returns the process-wide hierarchy.
func Default() *Hierarchy {
	defaultOnce.Do(func() {
		defaultHierarchy = NewHierarchy()
	})
	return defaultHierarchy
}

func (h *Hierarchy) mustDefine(name string, parents ...core.Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.define(name, parents); err != nil {
		panic(err)
	}
}

// Define adds a kind below the given parents and returns it.
func (h *Hierarchy) Define(name string, parents ...core.Kind) (core.Kind, error) {
	if err := security.ValidateKindName(name); err != nil {
		return core.KindInvalid, fmt.Errorf("define %q: %w", name, err)
	}
	if len(parents) == 0 {
		return core.KindInvalid, fmt.Errorf("define %q: %w", name, core.ErrNoParents)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.define(name, parents)
}

// define requires h.mu held. Only the root may have no parents.
func (h *Hierarchy) define(name string, parents []core.Kind) (core.Kind, error) {
	if len(h.kinds) >= security.MaxKinds {
		return core.KindInvalid, fmt.Errorf("define %q: %w", name, core.ErrTooManyKinds)
	}
	if _, ok := h.byName[name]; ok {
		return core.KindInvalid, fmt.Errorf("define %q: %w", name, core.ErrKindExists)
	}

	info := kindInfo{
		name:      name,
		parents:   append([]core.Kind(nil), parents...),
		ancestors: make(map[core.Kind]struct{}),
	}
	for _, p := range parents {
		pi, ok := h.lookup(p)
		if !ok {
			return core.KindInvalid, fmt.Errorf("define %q: parent %v: %w", name, p, core.ErrUnknownKind)
		}
		if pi.rank+1 > info.rank {
			info.rank = pi.rank + 1
		}
		for a := range pi.ancestors {
			info.ancestors[a] = struct{}{}
		}
	}

	k := core.Kind(len(h.kinds) + 1)
	info.ancestors[k] = struct{}{}
	h.kinds = append(h.kinds, info)
	h.byName[name] = k
	return k, nil
}

func (h *Hierarchy) lookup(k core.Kind) (*kindInfo, bool) {
	if k == core.KindInvalid || int(k) > len(h.kinds) {
		return nil, false
	}
	return &h.kinds[k-1], true
}

// Base returns KindFrame.
func (h *Hierarchy) Base() core.Kind {
	return KindFrame
}

// IsSubtypeOf reports whether a is b or a descendant of b.
// Unknown kinds are subtypes of nothing.
func (h *Hierarchy) IsSubtypeOf(a, b core.Kind) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ai, ok := h.lookup(a)
	if !ok {
		return false
	}
	_, ok = ai.ancestors[b]
	return ok
}

// Rank returns the length of the longest path from KindFrame to k, or -1.
func (h *Hierarchy) Rank(k core.Kind) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if ki, ok := h.lookup(k); ok {
		return ki.rank
	}
	return -1
}

// Name returns the kind's name, or its numeric form when unknown.
func (h *Hierarchy) Name(k core.Kind) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if ki, ok := h.lookup(k); ok {
		return ki.name
	}
	return k.String()
}

// Parents returns the direct parents of k.
func (h *Hierarchy) Parents(k core.Kind) []core.Kind {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if ki, ok := h.lookup(k); ok {
		return append([]core.Kind(nil), ki.parents...)
	}
	return nil
}

// Lookup returns the kind with the given name.
func (h *Hierarchy) Lookup(name string) (core.Kind, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	k, ok := h.byName[name]
	return k, ok
}

// Kinds returns every known kind in definition order.
func (h *Hierarchy) Kinds() []core.Kind {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]core.Kind, len(h.kinds))
	for i := range h.kinds {
		out[i] = core.Kind(i + 1)
	}
	return out
}
