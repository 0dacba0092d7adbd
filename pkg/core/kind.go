// Package core provides the domain types and interfaces for the frames package.
package core

import "strconv"

// Kind is a type tag identifying a frame type within a Hierarchy.
type Kind uint16

// KindInvalid is never a frame kind. Discovery uses it for a declared
// parameter whose type is not a frame type.
const KindInvalid Kind = 0

// String returns the numeric form of the kind. Use Hierarchy.Name for the
// human-readable name.
func (k Kind) String() string {
	if k == KindInvalid {
		return "invalid"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Hierarchy is the frame type hierarchy consumed by the registry.
type Hierarchy interface {
	// Base returns the common base frame kind.
	Base() Kind

	// IsSubtypeOf reports whether a is b or a descendant of b.
	IsSubtypeOf(a, b Kind) bool

	// Rank returns the specificity rank of k: 0 for the base, strictly
	// greater than every ancestor otherwise, -1 when k is unknown.
	Rank(k Kind) int

	// Name returns a diagnostic name for k.
	Name(k Kind) string

	// Kinds returns every known kind in definition order.
	Kinds() []Kind
}

// Frame is implemented by every value that can be dispatched.
type Frame interface {
	Kind() Kind
}
