package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/feeds"
	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/patterns"
	"github.com/goliatone/go-sitegen/internal/rules"
	"github.com/goliatone/go-sitegen/internal/tags"
)

const (
	tagSetName  = "tags"
	tagRuleName = "tag-page"
)

// synthesizeTagPages renders one listing page per tag through the configured
// template. Tag pages are engine products with no backing source file, so the
// registry never sees them and their identifiers derive from the sanitized
// segment.
func (s *service) synthesizeTagPages(
	ctx context.Context,
	build *rules.BuildContext,
	index *tags.Index,
	plan buildPlan,
) ([]CompiledProduct, []ProductDiagnostic, []error) {
	if !s.cfg.Tags.Enabled || index == nil || index.Len() == 0 {
		return nil, nil, nil
	}

	templateName := strings.TrimSpace(s.cfg.Tags.Template)
	if templateName == "" {
		templateName = "tag"
	}

	products := make([]CompiledProduct, 0, index.Len())
	var diags []ProductDiagnostic
	var errs []error
	for _, segment := range index.Segments() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		bucket, ok := index.Bucket(segment)
		if !ok {
			continue
		}
		route := s.tagRoute(segment)
		diag := ProductDiagnostic{
			Identifier: tagIdentifier(segment),
			Set:        tagSetName,
			Rule:       tagRuleName,
			Route:      route,
		}

		start := time.Now()
		rendered, err := s.deps.Renderer.Render(templateName, s.tagPageData(build, bucket, route, plan))
		diag.Duration = time.Since(start)
		if err != nil {
			wrapped := fmt.Errorf("engine: render tag page %q: %w", bucket.Tag, err)
			diag.Err = wrapped
			diags = append(diags, diag)
			errs = append(errs, wrapped)
			continue
		}
		diags = append(diags, diag)
		products = append(products, CompiledProduct{
			Identifier: diag.Identifier,
			Set:        tagSetName,
			Rule:       tagRuleName,
			Route:      route,
			Body:       []byte(rendered),
			Checksum:   computeHashFromString(rendered),
			Modified:   build.StartedAt,
			Duration:   diag.Duration,
		})
	}
	return products, diags, errs
}

func (s *service) tagPageData(build *rules.BuildContext, bucket *tags.Bucket, route string, plan buildPlan) map[string]any {
	entries := make([]map[string]any, 0, len(bucket.Items))
	for _, item := range bucket.Items {
		if item == nil {
			continue
		}
		url, ok := plan.routeFor(item.ID)
		if !ok {
			continue
		}
		title, _ := item.Metadata.Lookup(items.FieldTitle)
		if strings.TrimSpace(title) == "" {
			title = item.ID.String()
		}
		entry := map[string]any{
			"Identifier": item.ID.String(),
			"Title":      title,
			"URL":        url,
		}
		if date, err := item.Metadata.Date(s.dateField()); err == nil {
			entry["Date"] = date
		}
		if summary, ok := item.Metadata.Lookup(items.FieldSummary); ok && summary != "" {
			entry["Summary"] = summary
		}
		entries = append(entries, entry)
	}
	return map[string]any{
		"Site":        build.Site,
		"Tag":         bucket.Tag,
		"Segment":     bucket.Segment,
		"URL":         publicPath(route),
		"Items":       entries,
		"Count":       len(entries),
		"GeneratedAt": build.StartedAt,
	}
}

// feedDocument is one rendered syndication file awaiting write.
type feedDocument struct {
	Path        string
	Content     string
	ContentType string
}

// synthesizeFeeds assembles entries from the designated content snapshot and
// renders the configured syndication documents. Assembly errors are partial:
// a post with a missing snapshot or a broken date is reported while the rest
// of the feed still publishes.
func (s *service) synthesizeFeeds(build *rules.BuildContext, plan buildPlan) ([]feedDocument, int, []error) {
	if !s.cfg.Feed.Enabled {
		return nil, 0, nil
	}

	snapshotName := strings.TrimSpace(s.cfg.Feed.Snapshot)
	if snapshotName == "" {
		snapshotName = "feed-content"
	}

	scope := build.Items
	if expr := strings.TrimSpace(s.cfg.Feed.Pattern); expr != "" {
		pattern := patterns.Glob(expr)
		scoped := make([]*items.Item, 0, len(build.Items))
		for _, item := range build.Items {
			if item != nil && pattern.Matches(item.ID) {
				scoped = append(scoped, item)
			}
		}
		scope = scoped
	}

	assembler := feeds.NewAssembler(build.Snapshots, s.cfg.BaseURL, plan.routeFor)
	var errs []error
	entries, err := assembler.Assemble(scope, feeds.Options{
		SnapshotName: snapshotName,
		Limit:        s.cfg.Feed.Limit,
		DateField:    s.dateField(),
		Now:          build.StartedAt,
	})
	if err != nil {
		errs = append(errs, err)
	}

	channel := feeds.Channel{
		Title:       s.feedTitle(),
		Description: s.cfg.Feed.Description,
		Author:      s.cfg.Feed.Author,
		Link:        s.cfg.BaseURL,
		FeedPath:    s.feedPath(),
	}

	docs := []feedDocument{{
		Path:        s.feedPath(),
		Content:     feeds.RenderRSS(channel, entries, build.StartedAt),
		ContentType: "application/rss+xml",
	}}
	if atomPath := strings.TrimSpace(s.cfg.Feed.AtomPath); atomPath != "" {
		atomChannel := channel
		atomChannel.FeedPath = atomPath
		docs = append(docs, feedDocument{
			Path:        atomPath,
			Content:     feeds.RenderAtom(atomChannel, entries, build.StartedAt),
			ContentType: "application/atom+xml",
		})
	}
	return docs, len(entries), errs
}

func (s *service) feedTitle() string {
	if title := strings.TrimSpace(s.cfg.Feed.Title); title != "" {
		return title
	}
	if title, ok := s.cfg.Site["Title"].(string); ok {
		return title
	}
	return ""
}
