// Package handler provides internal reflection-based handler analysis.
//
// This package is internal and should not be imported directly.
// It provides:
//   - Handler: the analysed signature of a frame handler function
//   - Reflection-based invocation with a frame argument
package handler
