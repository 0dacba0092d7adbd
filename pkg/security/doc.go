// Package security provides validation, sanitization, and limits for the frames package.
//
// This package includes:
//   - Input validation for kind names and handler labels
//   - Error message sanitization before errors are stored as statistics
//   - Limits on handler counts and name lengths
//
// Most users should import the root package github.com/jdziat/simple-frame-handlers
// which re-exports these functions.
package security
