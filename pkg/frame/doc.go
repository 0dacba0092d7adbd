// Package frame provides the frame type hierarchy consumed by the registry.
//
// This package includes:
//   - Hierarchy: an extensible, multi-parent kind hierarchy rooted at KindFrame
//   - The built-in RFC 6455 kinds (data: text, binary, continuation;
//     control: close, ping, pong) and their Go frame types
//   - FromOpcode for turning an already-decoded frame into a typed value
//
// Wire encoding and decoding are left to the transport.
package frame
