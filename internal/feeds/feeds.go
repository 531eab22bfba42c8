package feeds

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/snapshots"
)

const defaultFeedEntries = 100

// ErrSnapshotName indicates the feed was configured without a content
// snapshot to read from.
var ErrSnapshotName = errors.New("feeds: content snapshot name required")

// Entry is the feed-specific view of one item: its metadata plus the
// designated content snapshot. Entry content always comes from that
// snapshot, never from the page-rendered output, so site chrome stays out of
// the feed.
type Entry struct {
	Identifier  items.Identifier
	Title       string
	Summary     string
	Content     string
	Link        string
	GUID        string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// Channel describes the feed itself.
type Channel struct {
	Title       string
	Description string
	Author      string
	Link        string
	FeedPath    string
}

// Options tunes entry assembly.
type Options struct {
	// SnapshotName designates which capture provides entry content.
	SnapshotName string
	// Limit caps the number of entries; 0 applies the default cap of 100.
	// A configured limit is honored as-is, even above the default.
	Limit int
	// DateField is the metadata key ordering entries. Defaults to "date".
	DateField string
	// Now anchors entries whose date metadata is absent.
	Now time.Time
}

// Assembler turns items into ordered feed entries.
type Assembler struct {
	store    *snapshots.Store
	base     string
	routeFor func(items.Identifier) (string, bool)
}

// NewAssembler binds the assembler to the snapshot store, the absolute site
// root, and the route lookup for entry links.
func NewAssembler(store *snapshots.Store, base string, routeFor func(items.Identifier) (string, bool)) *Assembler {
	return &Assembler{store: store, base: base, routeFor: routeFor}
}

// Assemble builds entries sorted by date descending; items the comparator
// cannot distinguish keep their input order. Items without a published route
// are skipped silently; a missing content snapshot or an unparsable date is
// collected and reported while the remaining entries still assemble, so one
// bad post does not empty the feed.
func (a *Assembler) Assemble(list []*items.Item, opts Options) ([]Entry, error) {
	if strings.TrimSpace(opts.SnapshotName) == "" {
		return nil, ErrSnapshotName
	}
	dateField := opts.DateField
	if dateField == "" {
		dateField = items.FieldDate
	}
	fallback := opts.Now
	if fallback.IsZero() {
		fallback = time.Now().UTC()
	}

	entries := make([]Entry, 0, len(list))
	var errs []error
	for _, item := range list {
		if item == nil {
			continue
		}
		route, ok := a.routeFor(item.ID)
		if !ok {
			continue
		}
		content, err := a.store.Load(item.ID, opts.SnapshotName)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		published, err := item.Metadata.Date(dateField)
		if err != nil {
			if !errors.Is(err, items.ErrFieldMissing) {
				errs = append(errs, err)
				continue
			}
			published = fallback
		}
		updated := published
		if ts, err := item.Metadata.Date("updated"); err == nil {
			updated = ts
		} else if !errors.Is(err, items.ErrFieldMissing) {
			errs = append(errs, err)
			continue
		}

		title, _ := item.Metadata.Lookup(items.FieldTitle)
		if strings.TrimSpace(title) == "" {
			title = string(item.ID)
		}
		summary, _ := item.Metadata.Lookup(items.FieldSummary)

		entries = append(entries, Entry{
			Identifier:  item.ID,
			Title:       strings.TrimSpace(title),
			Summary:     normalizeWhitespace(summary),
			Content:     string(content),
			Link:        absoluteURL(a.base, route),
			GUID:        identity.ItemUUID(string(item.ID)).String(),
			PublishedAt: published,
			UpdatedAt:   updated,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PublishedAt.After(entries[j].PublishedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultFeedEntries
	}
	if len(entries) > limit {
		entries = append([]Entry(nil), entries[:limit]...)
	}

	if len(errs) > 0 {
		return entries, errors.Join(errs...)
	}
	return entries, nil
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func normalizeWhitespace(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	return strings.Join(strings.Fields(input), " ")
}
