package engine

import (
	"errors"
	"strings"

	"github.com/goliatone/go-sitegen/internal/patterns"
	"github.com/goliatone/go-sitegen/internal/routes"
	"github.com/goliatone/go-sitegen/internal/rules"
	"github.com/goliatone/go-sitegen/internal/urlrewrite"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var errParserRequired = errors.New("engine: document parser is required")

// DefaultRegistry assembles the conventional site rule sets from
// configuration: a pages set compiling documents through the full chain, and
// an assets set copying raw files through verbatim.
//
// The page chain externalizes URLs before capturing the feed snapshot and
// internalizes them again before layout templating, so the one compiled body
// serves absolute-link syndication and root-relative pages from a single
// markdown pass.
func DefaultRegistry(cfg Config, parser interfaces.DocumentParser, renderer interfaces.TemplateRenderer) (*rules.Registry, error) {
	if parser == nil {
		return nil, errParserRequired
	}
	if renderer == nil {
		return nil, errRendererRequired
	}

	var rewriter *urlrewrite.Rewriter
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		rw, err := urlrewrite.New(base)
		if err != nil {
			return nil, err
		}
		rewriter = rw
	}

	contentPattern := strings.TrimSpace(cfg.ContentPattern)
	if contentPattern == "" {
		contentPattern = "**.md"
	}
	pageTemplate := strings.TrimSpace(cfg.PageTemplate)
	if pageTemplate == "" {
		pageTemplate = "page"
	}
	snapshotName := ""
	if cfg.Feed.Enabled {
		snapshotName = strings.TrimSpace(cfg.Feed.Snapshot)
		if snapshotName == "" {
			snapshotName = "feed-content"
		}
	}

	steps := []rules.Compiler{NewMarkdownCompiler(parser)}
	if rewriter != nil {
		steps = append(steps, NewExternalizeCompiler(rewriter))
	}
	if snapshotName != "" {
		steps = append(steps, rules.CaptureSnapshot(snapshotName))
	}
	if rewriter != nil {
		steps = append(steps, NewInternalizeCompiler(rewriter))
	}
	steps = append(steps, NewTemplateCompiler(renderer, pageTemplate))

	registry := rules.NewRegistry(rules.WithStrict(!cfg.AllowOverlappingRules))

	pages := registry.Set("pages")
	if err := pages.Match(patterns.Glob(contentPattern)).
		Named("pages").
		Route(routes.SetExtension(".html")).
		Compile(steps...); err != nil {
		return nil, err
	}

	if len(cfg.RawPatterns) > 0 {
		assets := registry.Set("assets")
		for _, raw := range cfg.RawPatterns {
			expr := strings.TrimSpace(raw)
			if expr == "" {
				continue
			}
			if err := assets.Match(patterns.Glob(expr)).
				Named("raw:" + expr).
				Route(routes.Identity()).
				Compile(NewCopyCompiler()); err != nil {
				return nil, err
			}
		}
	}

	return registry, nil
}
