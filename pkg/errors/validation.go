package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Text limits enforced by the input form of the original editor.
const (
	MaxHeadlineRunes = 60
	MaxCTARunes      = 20
)

// MaxTargetKB bounds export compression targets.
const MaxTargetKB = 20 * 1024

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a CSS-style hex colour (#rgb or #rrggbb).
func ValidateHexColor(s string) error {
	if s == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", s)
	}
	return nil
}

// ValidateText validates user-entered copy for a named field.
//
// The validation rules:
//   - At most max runes (0 disables the length check)
//   - Valid UTF-8
//   - No control characters other than newline
func ValidateText(field, s string, max int) error {
	if !utf8.ValidString(s) {
		return New(ErrCodeInvalidInput, "%s is not valid UTF-8", field)
	}
	if max > 0 && utf8.RuneCountInString(s) > max {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, max)
	}
	for _, r := range s {
		if r != '\n' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateTargetSize validates an export size target in kilobytes.
func ValidateTargetSize(kb int) error {
	if kb <= 0 {
		return New(ErrCodeInvalidInput, "target size must be positive, got %d KB", kb)
	}
	if kb > MaxTargetKB {
		return New(ErrCodeInvalidInput, "target size too large (max %d KB)", MaxTargetKB)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
