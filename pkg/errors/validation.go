package errors

import (
	"strings"
	"unicode"
)

// MaxGraph6Length bounds graph6 text accepted from untrusted callers.
// 1 MiB covers every graph up to roughly 3500 vertices.
const MaxGraph6Length = 1 << 20

// ValidateGraph6Text performs cheap sanity checks on graph6 text before it
// reaches the decoder. It rejects input that could never decode, so callers
// like the HTTP service can refuse it without doing real work.
//
// The validation rules are intentionally conservative:
//   - No empty text
//   - Maximum length of maxLen bytes (0 means [MaxGraph6Length])
//   - No control characters other than a trailing newline
//
// Byte range and body length are checked by the decoder itself.
func ValidateGraph6Text(s string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = MaxGraph6Length
	}
	s = strings.TrimRight(s, "\r\n")
	if strings.TrimSpace(s) == "" {
		return New(ErrCodeInvalidInput, "graph6 text cannot be empty")
	}
	if len(s) > maxLen {
		return New(ErrCodeInvalidInput, "graph6 text too long (max %d bytes)", maxLen)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "graph6 text contains control characters")
		}
	}
	return nil
}

// ValidateSelectorText validates a raw highlight expression from untrusted callers.
func ValidateSelectorText(s string) error {
	const maxSelectorLength = 64 << 10
	if len(s) > maxSelectorLength {
		return New(ErrCodeInvalidSelector, "highlight expression too long (max %d bytes)", maxSelectorLength)
	}
	for _, r := range s {
		if r == '\x00' {
			return New(ErrCodeInvalidSelector, "highlight expression contains null bytes")
		}
	}
	return nil
}
