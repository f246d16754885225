package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxNameLength bounds module names shown on faceplates.
const maxNameLength = 64

// ValidateModuleName validates a display name for a custom module.
//
// The rules are intentionally simple:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 64 characters
func ValidateModuleName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidModule, "module name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidModule, "module name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModule, "module name contains invalid control characters")
		}
	}

	return nil
}

// ValidateIdentifier validates a module id or instance id.
// Identifiers are used as map keys, URL path segments and TOML values, so
// they are restricted to a conservative character set.
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "%s too long (max 128 characters)", kind)
	}

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return New(ErrCodeInvalidInput, "%s contains invalid character %q", kind, r)
		}
	}

	return nil
}

// ValidateHalfUnits checks that u is a positive multiple of 0.5.
func ValidateHalfUnits(u float64) error {
	if math.IsNaN(u) || math.IsInf(u, 0) || u <= 0 {
		return New(ErrCodeInvalidModule, "module height must be a positive number, got %v", u)
	}

	if doubled := u * 2; doubled != math.Trunc(doubled) {
		return New(ErrCodeInvalidModule, "module height must be a multiple of 0.5U, got %v", u)
	}

	return nil
}
