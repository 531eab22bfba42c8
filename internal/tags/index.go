package tags

import (
	"errors"
	"sort"

	"github.com/goliatone/go-sitegen/internal/items"
)

// Options tunes how the index reads item metadata.
type Options struct {
	// Field is the metadata key holding the tag list. Defaults to "tags".
	Field string
	// Delimiter splits the raw value into individual tags. Defaults to ",".
	Delimiter string
}

// Bucket collects the items carrying one tag. Items keep discovery order
// until Sort is applied.
type Bucket struct {
	// Tag is the original spelling, as first seen.
	Tag string
	// Segment is the sanitized path segment shared by every spelling the
	// collision check allows (which is exactly one).
	Segment string
	Items   []*items.Item
}

// Index is the tag -> items reverse index for one build run. Built in a
// single pass over all matched items and read-only afterwards.
type Index struct {
	order   []string
	buckets map[string]*Bucket
}

// BuildIndex scans items once and groups them per tag. Items without the tag
// field are skipped; a present-but-degenerate value is reported. Two distinct
// spellings sanitizing to one segment make the index unroutable, so all such
// collisions are collected and returned as a single fatal error.
func BuildIndex(list []*items.Item, opts Options) (*Index, error) {
	field := opts.Field
	if field == "" {
		field = items.FieldTags
	}
	delimiter := opts.Delimiter
	if delimiter == "" {
		delimiter = ","
	}

	idx := &Index{buckets: map[string]*Bucket{}}
	var errs []error
	for _, item := range list {
		if item == nil {
			continue
		}
		raw, err := item.Metadata.List(field, delimiter)
		if err != nil {
			if errors.Is(err, items.ErrFieldMissing) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		seen := map[string]struct{}{}
		for _, tag := range raw {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}

			segment, sanitizeErr := Sanitize(tag)
			if sanitizeErr != nil {
				errs = append(errs, sanitizeErr)
				continue
			}
			bucket, ok := idx.buckets[segment]
			if !ok {
				bucket = &Bucket{Tag: tag, Segment: segment}
				idx.buckets[segment] = bucket
				idx.order = append(idx.order, segment)
			} else if bucket.Tag != tag {
				errs = append(errs, &CollisionError{Segment: segment, First: bucket.Tag, Second: tag})
				continue
			}
			bucket.Items = append(bucket.Items, item)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return idx, nil
}

// Segments lists sanitized segments in first-seen order.
func (idx *Index) Segments() []string {
	if idx == nil {
		return nil
	}
	return append([]string(nil), idx.order...)
}

// Bucket returns the bucket for a sanitized segment.
func (idx *Index) Bucket(segment string) (*Bucket, bool) {
	if idx == nil {
		return nil, false
	}
	bucket, ok := idx.buckets[segment]
	return bucket, ok
}

// Len reports the number of distinct tags.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.order)
}

// Sort re-orders every bucket with the supplied comparator. Sorting is
// stable, so items the comparator cannot distinguish keep discovery order.
func (idx *Index) Sort(less func(a, b *items.Item) bool) {
	if idx == nil || less == nil {
		return
	}
	for _, bucket := range idx.buckets {
		entries := bucket.Items
		sort.SliceStable(entries, func(i, j int) bool {
			return less(entries[i], entries[j])
		})
	}
}

// ByDateDesc orders items newest first by the given date metadata field.
// Items whose date is missing or unparsable sort last.
func ByDateDesc(field string) func(a, b *items.Item) bool {
	if field == "" {
		field = items.FieldDate
	}
	return func(a, b *items.Item) bool {
		at, _ := a.Metadata.Date(field)
		bt, _ := b.Metadata.Date(field)
		return at.After(bt)
	}
}
