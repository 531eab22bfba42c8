package items

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldMissing indicates a metadata key was absent from an item.
	ErrFieldMissing = errors.New("items: metadata field missing")
	// ErrFieldUnparsable indicates a metadata value exists but could not be
	// interpreted as the requested type.
	ErrFieldUnparsable = errors.New("items: metadata field unparsable")
)

// FieldError reports a metadata accessor failure. It distinguishes a missing
// key from a present value that failed to parse so callers never fall back to
// silent defaults.
type FieldError struct {
	Identifier Identifier
	Field      string
	Value      string
	Missing    bool
	Reason     string
}

func (e *FieldError) Error() string {
	if e.Missing {
		if e.Identifier != "" {
			return fmt.Sprintf("items: metadata field missing: field=%s identifier=%s", e.Field, e.Identifier)
		}
		return fmt.Sprintf("items: metadata field missing: field=%s", e.Field)
	}
	msg := fmt.Sprintf("items: metadata field unparsable: field=%s value=%q", e.Field, e.Value)
	if e.Reason != "" {
		msg += " reason=" + e.Reason
	}
	if e.Identifier != "" {
		msg += " identifier=" + string(e.Identifier)
	}
	return msg
}

func (e *FieldError) Unwrap() error {
	if e.Missing {
		return ErrFieldMissing
	}
	return ErrFieldUnparsable
}

func missingField(field string) error {
	return &FieldError{Field: field, Missing: true}
}

func unparsableField(field, value, reason string) error {
	return &FieldError{Field: field, Value: value, Reason: reason}
}
