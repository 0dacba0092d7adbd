// Package security provides validation, sanitization, and limits for the frames package.
package security

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
)

// Limits
const (
	// MaxKindNameLength is the maximum length for kind names
	MaxKindNameLength = 128

	// MaxKinds bounds the kinds one hierarchy may hold
	MaxKinds = 4096

	// MaxLabelLength is the maximum length for handler and receiver labels
	MaxLabelLength = 255

	// MaxHandlersPerReceiver bounds one registration batch
	MaxHandlersPerReceiver = 256

	// MaxEventBuffer is the hard limit for an event subscriber's buffer
	MaxEventBuffer = 10000

	// MaxErrorMessageLength is the maximum length for stored error messages
	MaxErrorMessageLength = 4096
)

// validKindName matches Go-identifier-like names with dots and hyphens
var validKindName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-\.]*$`)

// ValidateKindName validates a frame kind name
func ValidateKindName(name string) error {
	if name == "" {
		return core.ErrInvalidKind
	}
	if len(name) > MaxKindNameLength {
		return core.ErrKindTooLong
	}
	if !validKindName.MatchString(name) {
		return core.ErrInvalidKind
	}
	return nil
}

// ValidateLabel validates a handler or receiver label.
// Labels are free text but must be non-blank, bounded and printable.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" || len(label) > MaxLabelLength {
		return core.ErrInvalidLabel
	}
	for _, r := range label {
		if !unicode.IsPrint(r) {
			return core.ErrInvalidLabel
		}
	}
	return nil
}

// SanitizeErrorMessage truncates and sanitizes error messages for storage
func SanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}

	// Remove any null bytes or control characters (except newlines)
	var sanitized strings.Builder
	sanitized.Grow(len(msg))

	for _, r := range msg {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()

	if utf8.RuneCountInString(result) > MaxErrorMessageLength {
		runes := []rune(result)
		result = string(runes[:MaxErrorMessageLength-3]) + "..."
	}

	return result
}

// ClampEventBuffer ensures a subscriber buffer size is within limits
func ClampEventBuffer(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxEventBuffer {
		return MaxEventBuffer
	}
	return n
}
