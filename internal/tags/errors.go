package tags

import (
	"errors"
	"fmt"
)

var (
	// ErrTagCollision indicates two distinct tags sanitized to the same path
	// segment, which would make their listing pages overwrite each other.
	ErrTagCollision = errors.New("tags: sanitized tag collision")
	// ErrTagUnsanitizable indicates a tag produced an empty segment after
	// sanitization and so cannot be routed.
	ErrTagUnsanitizable = errors.New("tags: tag not sanitizable")
)

// CollisionError carries both originals so the fix is obvious from the
// message alone.
type CollisionError struct {
	Segment string
	First   string
	Second  string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("tags: sanitized tag collision: segment=%q first=%q second=%q", e.Segment, e.First, e.Second)
}

func (e *CollisionError) Unwrap() error { return ErrTagCollision }

// UnsanitizableError reports a tag that sanitized to nothing.
type UnsanitizableError struct {
	Tag string
}

func (e *UnsanitizableError) Error() string {
	return fmt.Sprintf("tags: tag not sanitizable: tag=%q", e.Tag)
}

func (e *UnsanitizableError) Unwrap() error { return ErrTagUnsanitizable }
