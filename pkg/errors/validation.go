package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier supplied by a collaborator.
// Node ids are opaque strings, but a few shapes are rejected outright
// because they would corrupt edge ids or the overflow id scheme:
//   - empty ids
//   - ids longer than 256 characters
//   - ids containing control characters or null bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidNodeID, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node id contains control characters")
		}
	}

	if strings.Contains(id, "\x00") {
		return New(ErrCodeInvalidNodeID, "node id contains null byte")
	}

	return nil
}
