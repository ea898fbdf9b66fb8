package errors

import (
	"strings"
	"unicode"
)

// ValidateFilename validates an output base name for safety.
// It ensures the name is a simple basename without path components.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators
//   - No hidden files
//   - Maximum length of 200 characters
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if len(name) > 200 {
		return New(ErrCodeInvalidPath, "filename too long (max 200 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators: %q", name)
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file: %q", name)
	}

	return nil
}
