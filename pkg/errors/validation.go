package errors

import (
	"strings"
	"unicode"
)

// ValidateThemePath validates a theme-relative file path for safety.
// It prevents path traversal and ensures a reasonable length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateThemePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateCheckCode validates a check code from configuration.
// Check codes are CamelCase identifiers like "BlockIdComparison".
func ValidateCheckCode(code string) error {
	if code == "" {
		return New(ErrCodeInvalidConfig, "check code cannot be empty")
	}
	if len(code) > 128 {
		return New(ErrCodeInvalidConfig, "check code too long (max 128 characters)")
	}
	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return New(ErrCodeInvalidConfig, "check code must be alphanumeric: %q", code)
		}
	}
	if !unicode.IsUpper(rune(code[0])) {
		return New(ErrCodeInvalidConfig, "check code must start with an uppercase letter: %q", code)
	}
	return nil
}
