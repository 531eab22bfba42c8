package tags

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// Sanitizer turns raw tag strings into safe path segments. It wraps the
// shared slug normalizer so tag listing pages follow the same slug rules as
// the rest of the publishing stack: lowercase, whitespace to hyphens,
// disallowed characters stripped.
type Sanitizer = slug.Normalizer

// DefaultSanitizer returns the default slug normalizer.
func DefaultSanitizer() Sanitizer {
	return slug.Default()
}

// Sanitize derives the path segment for a tag. Deterministic: the same tag
// always yields the same segment. Tags that normalize to an empty segment
// cannot be routed and are rejected.
func Sanitize(tag string) (string, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", &UnsanitizableError{Tag: tag}
	}
	segment, err := slug.Normalize(trimmed)
	if err != nil || strings.TrimSpace(segment) == "" {
		return "", &UnsanitizableError{Tag: tag}
	}
	return segment, nil
}
