package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// gemNamePattern follows the characters RubyGems accepts in gem names.
var gemNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateGemName validates a gem name before it is placed into a URL.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Maximum length of 256 characters
//   - Letters, digits, '.', '_' and '-' only, starting with a letter or digit
func ValidateGemName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "gem name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "gem name too long (max 256 characters)")
	}
	if !gemNamePattern.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid gem name: %q", name)
	}
	return nil
}

// ValidatePath validates a file path within a repository for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Relative, slash-separated, without ".." segments
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if strings.HasPrefix(path, "/") || strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path must be relative and slash-separated")
	}
	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "path too long (max 500 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain '..'")
		}
	}
	return nil
}
