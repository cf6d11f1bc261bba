package errors

import (
	"strings"
	"unicode"
)

// ValidateDataRoot validates a data root directory path for safety.
// It rejects paths that could be used for traversal or injection.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
func ValidateDataRoot(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "data root cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "data root too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "data root contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
