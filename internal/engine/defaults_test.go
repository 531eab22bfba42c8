package engine

import (
	"errors"
	"testing"

	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/rules"
)

func TestDefaultRegistryBuildsConventionalSets(t *testing.T) {
	cfg := Config{
		BaseURL:     "https://example.com",
		RawPatterns: []string{"static/**"},
		Feed:        FeedConfig{Enabled: true},
	}
	registry, err := DefaultRegistry(cfg, &stubParser{}, &recordingRenderer{})
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	if registry.Len() != 2 {
		t.Fatalf("expected 2 rules, got %d", registry.Len())
	}

	matches := registry.MatchAll(items.NewIdentifier("posts/hello.md"))
	if len(matches) != 1 {
		t.Fatalf("expected single page match, got %d", len(matches))
	}
	page := matches[0]
	if page.Set != "pages" {
		t.Fatalf("expected pages set, got %s", page.Set)
	}
	wantSteps := []string{"markdown", "externalize", "snapshot(feed-content)", "internalize", "template"}
	if len(page.Rule.Steps) != len(wantSteps) {
		t.Fatalf("expected %d steps, got %d", len(wantSteps), len(page.Rule.Steps))
	}
	for i, compiler := range page.Rule.Steps {
		if compiler.Name() != wantSteps[i] {
			t.Fatalf("expected step %d to be %q, got %q", i, wantSteps[i], compiler.Name())
		}
	}
	route, ok := page.Rule.Route.Resolve(items.NewIdentifier("posts/hello.md"), page.Captures)
	if !ok || route != "posts/hello.html" {
		t.Fatalf("expected extension swap route, got %q (%v)", route, ok)
	}

	assetMatches := registry.MatchAll(items.NewIdentifier("static/css/site.css"))
	if len(assetMatches) != 1 {
		t.Fatalf("expected single asset match, got %d", len(assetMatches))
	}
	asset := assetMatches[0]
	if asset.Set != "assets" {
		t.Fatalf("expected assets set, got %s", asset.Set)
	}
	if asset.Rule.DisplayName() != "raw:static/**" {
		t.Fatalf("unexpected asset rule name %s", asset.Rule.DisplayName())
	}
	route, ok = asset.Rule.Route.Resolve(items.NewIdentifier("static/css/site.css"), asset.Captures)
	if !ok || route != "static/css/site.css" {
		t.Fatalf("expected identity route, got %q (%v)", route, ok)
	}
}

func TestDefaultRegistrySkipsRewriteStepsWithoutBaseURL(t *testing.T) {
	registry, err := DefaultRegistry(Config{}, &stubParser{}, &recordingRenderer{})
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	matches := registry.MatchAll(items.NewIdentifier("a.md"))
	if len(matches) != 1 {
		t.Fatalf("expected root-level match, got %d", len(matches))
	}
	steps := matches[0].Rule.Steps
	if len(steps) != 2 || steps[0].Name() != "markdown" || steps[1].Name() != "template" {
		names := make([]string, 0, len(steps))
		for _, compiler := range steps {
			names = append(names, compiler.Name())
		}
		t.Fatalf("expected minimal chain, got %v", names)
	}
}

func TestDefaultRegistryRequiresCollaborators(t *testing.T) {
	if _, err := DefaultRegistry(Config{}, nil, &recordingRenderer{}); !errors.Is(err, errParserRequired) {
		t.Fatalf("expected parser error, got %v", err)
	}
	if _, err := DefaultRegistry(Config{}, &stubParser{}, nil); !errors.Is(err, errRendererRequired) {
		t.Fatalf("expected renderer error, got %v", err)
	}
}

func TestDefaultRegistryOverlapPolicy(t *testing.T) {
	cfg := Config{RawPatterns: []string{"static/**", "**.css"}}
	if _, err := DefaultRegistry(cfg, &stubParser{}, &recordingRenderer{}); !errors.Is(err, rules.ErrPatternAmbiguity) {
		t.Fatalf("expected ambiguity rejection, got %v", err)
	}

	cfg.AllowOverlappingRules = true
	registry, err := DefaultRegistry(cfg, &stubParser{}, &recordingRenderer{})
	if err != nil {
		t.Fatalf("expected overlap allowed, got %v", err)
	}
	matches := registry.MatchAll(items.NewIdentifier("static/site.css"))
	if len(matches) != 1 {
		t.Fatalf("expected first-registered rule to win, got %d matches", len(matches))
	}
	if matches[0].Rule.DisplayName() != "raw:static/**" {
		t.Fatalf("expected first raw rule selected, got %s", matches[0].Rule.DisplayName())
	}
}
