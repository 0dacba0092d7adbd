// Package core provides the fundamental types and interfaces for the frames package.
//
// This package contains:
//   - Kind and the Hierarchy interface used to compare frame types
//   - The Frame interface implemented by every dispatchable value
//   - Candidate, the plain-data description of a handler produced by discovery
//   - Error types for registration, resolution and handler failures
//   - Event types for endpoint monitoring
//
// Most users should import the root package github.com/jdziat/simple-frame-handlers
// instead of this package directly.
package core
