package utils

import (
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// GenerateID returns a fresh opaque identifier.
func GenerateID() string {
	return uuid.NewString()
}

// NormalizeAnswer lowers and trims a guess so comparison ignores case and
// surrounding whitespace. Interior whitespace is collapsed to single spaces.
func NormalizeAnswer(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// SameAnswer reports whether a guess matches the canonical card name.
func SameAnswer(guess, name string) bool {
	normalized := NormalizeAnswer(guess)
	return normalized != "" && normalized == NormalizeAnswer(name)
}
