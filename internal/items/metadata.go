package items

import (
	"maps"
	"strconv"
	"strings"
	"time"
)

// Metadata is the typed view over an item's front-matter style key/value
// pairs. Values stay strings; accessors surface enumerated failures instead
// of defaulting, so a bad date in one post is a diagnosable error rather than
// a silently unsorted feed.
type Metadata map[string]string

// Keys every loader normalises into. Custom front-matter keys pass through
// untouched.
const (
	FieldTitle    = "title"
	FieldSlug     = "slug"
	FieldDate     = "date"
	FieldTags     = "tags"
	FieldAuthor   = "author"
	FieldSummary  = "summary"
	FieldTemplate = "template"
	FieldDraft    = "draft"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Lookup reports the raw value and whether the key is present.
func (m Metadata) Lookup(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	value, ok := m[key]
	return value, ok
}

// Get returns the value for key or a FieldError wrapping ErrFieldMissing.
func (m Metadata) Get(key string) (string, error) {
	value, ok := m.Lookup(key)
	if !ok {
		return "", missingField(key)
	}
	return value, nil
}

// Date parses the value under key using the accepted layouts.
func (m Metadata) Date(key string) (time.Time, error) {
	value, err := m.Get(key)
	if err != nil {
		return time.Time{}, err
	}
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if ts, parseErr := time.Parse(layout, trimmed); parseErr == nil {
			return ts, nil
		}
	}
	return time.Time{}, unparsableField(key, value, "unrecognized date layout")
}

// Bool parses the value under key with strconv semantics.
func (m Metadata) Bool(key string) (bool, error) {
	value, err := m.Get(key)
	if err != nil {
		return false, err
	}
	parsed, parseErr := strconv.ParseBool(strings.TrimSpace(value))
	if parseErr != nil {
		return false, unparsableField(key, value, "not a boolean")
	}
	return parsed, nil
}

// List splits the value under key on delimiter, trimming each entry and
// dropping empties. A present-but-blank value yields an empty list, not an
// error.
func (m Metadata) List(key, delimiter string) ([]string, error) {
	value, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	if delimiter == "" {
		delimiter = ","
	}
	parts := strings.Split(value, delimiter)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

// Clone returns an independent copy of the metadata map.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	copied := make(Metadata, len(m))
	maps.Copy(copied, m)
	return copied
}
