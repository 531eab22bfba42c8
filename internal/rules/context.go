package rules

import (
	"time"

	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/snapshots"
	"github.com/goliatone/go-sitegen/internal/tags"
)

// BuildContext is the explicit build-run state handed to every compiler
// invocation. It is constructed when a build starts and discarded when it
// ends; nothing in it survives across runs and nothing lives in package
// globals.
type BuildContext struct {
	// StartedAt anchors generated timestamps (feeds, sitemap) for the run.
	StartedAt time.Time
	// BaseURL is the absolute site root used by URL rewriting and feeds.
	BaseURL string
	// Site carries site-level template fields (title, description, author).
	Site map[string]any
	// Items is the full discovered item set, read-only. Compilers declaring
	// DependAllItems may range over it; self-dependent compilers should only
	// touch the item they were invoked with.
	Items []*items.Item
	// Snapshots is the per-run snapshot store.
	Snapshots *snapshots.Store
	// Tags is the per-run tag index. Nil while self-dependent rules compile;
	// populated before cross-item rules run.
	Tags *tags.Index
}

// Lookup finds a discovered item by identifier.
func (b *BuildContext) Lookup(id items.Identifier) (*items.Item, bool) {
	if b == nil {
		return nil, false
	}
	for _, item := range b.Items {
		if item != nil && item.ID == id {
			return item, true
		}
	}
	return nil, false
}
