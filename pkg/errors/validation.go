package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateAttrName validates a presentation attribute name taken from a style
// mapping. Style attributes are written verbatim into markup, so the name must
// be a plain XML name.
//
// Validation rules:
//   - Name cannot be empty
//   - First character is a letter or underscore
//   - Remaining characters are letters, digits, '-', '_', '.' or ':'
func ValidateAttrName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidStyle, "style attribute name cannot be empty")
	}

	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.' || r == ':'):
		default:
			return New(ErrCodeInvalidStyle, "style attribute %q contains invalid character %q", name, r)
		}
	}
	return nil
}

// ValidateAttrValue rejects attribute values containing control characters,
// which cannot be represented in XML 1.0.
func ValidateAttrValue(name, value string) error {
	for _, r := range value {
		if r != '\t' && r != '\n' && r != '\r' && unicode.IsControl(r) {
			return New(ErrCodeInvalidStyle, "style attribute %q contains control characters", name)
		}
	}
	return nil
}

// ValidateStyle validates every key/value pair of a style mapping.
func ValidateStyle(style map[string]string) error {
	for k, v := range style {
		if err := ValidateAttrName(k); err != nil {
			return err
		}
		if err := ValidateAttrValue(k, v); err != nil {
			return err
		}
	}
	return nil
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "dot": true}

// ValidateFormat checks that format names a supported output kind.
func ValidateFormat(format string) error {
	if !validFormats[strings.ToLower(format)] {
		return New(ErrCodeInvalidFormat, "invalid format: %s (must be 'svg' or 'dot')", format)
	}
	return nil
}

// ValidateFinite reports an INVALID_INPUT error when v is NaN or infinite.
func ValidateFinite(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", what, v)
	}
	return nil
}
