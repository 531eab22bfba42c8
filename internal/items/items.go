package items

import (
	"path"
	"strings"
	"time"
)

// Identifier is the stable, path-shaped key of a content item. Identifiers
// always use forward slashes and never carry a leading slash, so the same
// source file yields the same identifier on every platform. Immutable once
// assigned.
type Identifier string

// NewIdentifier normalises a source path into an identifier.
func NewIdentifier(p string) Identifier {
	normalized := strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	normalized = strings.TrimPrefix(normalized, "./")
	normalized = strings.TrimPrefix(normalized, "/")
	return Identifier(path.Clean(normalized))
}

func (id Identifier) String() string { return string(id) }

// Ext returns the identifier's extension including the leading dot, or ""
// when the identifier has none.
func (id Identifier) Ext() string {
	return path.Ext(string(id))
}

// WithExt returns a copy of the identifier with its extension replaced.
func (id Identifier) WithExt(ext string) Identifier {
	base := strings.TrimSuffix(string(id), path.Ext(string(id)))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return Identifier(base + ext)
}

// Dir returns the identifier's directory portion, "" for top-level items.
func (id Identifier) Dir() string {
	dir := path.Dir(string(id))
	if dir == "." {
		return ""
	}
	return dir
}

// Stem returns the final path element without its extension.
func (id Identifier) Stem() string {
	base := path.Base(string(id))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Item is one content unit flowing through the pipeline. It is created at
// discovery time and discarded when the build run ends; nothing here persists
// across runs.
type Item struct {
	ID       Identifier
	Body     []byte
	Metadata Metadata
	Source   string
	Checksum string
	Modified time.Time
}

// New constructs an item. A nil metadata map is replaced with an empty one so
// accessors stay safe on sparse content.
func New(id Identifier, body []byte, meta Metadata) *Item {
	if meta == nil {
		meta = Metadata{}
	}
	return &Item{ID: id, Body: body, Metadata: meta}
}

// Clone returns a deep copy. Compiler chains mutate their working copy of the
// body; cloning keeps item-by-rule products independent of each other.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	dup := *it
	dup.Body = append([]byte(nil), it.Body...)
	dup.Metadata = it.Metadata.Clone()
	return &dup
}
