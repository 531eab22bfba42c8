package markdown

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-sitegen/internal/items"
)

var fixtureModTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestSource(tb testing.TB, recursive bool) *Source {
	tb.Helper()

	site := fstest.MapFS{
		"posts/first.md":  &fstest.MapFile{Data: []byte("---\ntitle: First\ndate: 2024-01-01\n---\nFirst body.\n"), ModTime: fixtureModTime},
		"posts/second.md": &fstest.MapFile{Data: []byte("---\ntitle: Second\ndate: 2024-02-01\n---\nSecond body.\n"), ModTime: fixtureModTime},
		"about.md":        &fstest.MapFile{Data: []byte("About page.\n"), ModTime: fixtureModTime},
		"css/site.css":    &fstest.MapFile{Data: []byte("body { margin: 0 }\n"), ModTime: fixtureModTime},
		"notes.txt":       &fstest.MapFile{Data: []byte("not content\n"), ModTime: fixtureModTime},
	}

	return NewSourceFS(site, SourceConfig{
		Pattern:     "**.md",
		RawPatterns: []string{"css/**"},
		Recursive:   recursive,
	})
}

func TestSourceItems(t *testing.T) {
	src := newTestSource(t, true)

	loaded, err := src.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}

	if len(loaded) != 4 {
		t.Fatalf("expected 4 items, got %d", len(loaded))
	}

	want := []items.Identifier{"about.md", "css/site.css", "posts/first.md", "posts/second.md"}
	for i, item := range loaded {
		if item.ID != want[i] {
			t.Fatalf("unexpected discovery order at %d: got %q, want %q", i, item.ID, want[i])
		}
		if item.Checksum == "" {
			t.Fatalf("expected checksum set for %s", item.ID)
		}
	}
}

func TestSourceItems_RawAssetsKeptVerbatim(t *testing.T) {
	src := newTestSource(t, true)

	loaded, err := src.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}

	var css *items.Item
	for _, item := range loaded {
		if item.ID == "css/site.css" {
			css = item
		}
	}

	if css == nil {
		t.Fatalf("expected css asset to be loaded")
	}
	if string(css.Body) != "body { margin: 0 }\n" {
		t.Fatalf("expected raw body preserved, got %q", string(css.Body))
	}
	if len(css.Metadata) != 0 {
		t.Fatalf("expected raw asset metadata to stay empty: %#v", css.Metadata)
	}
}

func TestSourceItems_NonRecursive(t *testing.T) {
	src := newTestSource(t, false)

	loaded, err := src.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}

	if len(loaded) != 1 {
		t.Fatalf("expected only the root document, got %d items", len(loaded))
	}
	if loaded[0].ID != "about.md" {
		t.Fatalf("expected about.md, got %s", loaded[0].ID)
	}
}

func TestSourceLoad(t *testing.T) {
	src := newTestSource(t, true)

	item, err := src.Load(context.Background(), "posts/first.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if item.Metadata[items.FieldTitle] != "First" {
		t.Fatalf("title mismatch, got %q", item.Metadata[items.FieldTitle])
	}
	if item.Metadata[items.FieldDate] != "2024-01-01" {
		t.Fatalf("date mismatch, got %q", item.Metadata[items.FieldDate])
	}
	if !item.Modified.Equal(fixtureModTime) {
		t.Fatalf("expected modification time from the filesystem, got %v", item.Modified)
	}
}

func TestLoaderPatternOverride(t *testing.T) {
	src := newTestSource(t, true)

	loaded, err := src.loader.LoadDirectory(context.Background(), ".", LoadParams{
		Pattern: "posts/*.md",
	})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	if len(loaded) != 3 {
		t.Fatalf("expected the two posts plus the css asset, got %d items", len(loaded))
	}
	if loaded[0].ID != "css/site.css" {
		t.Fatalf("unexpected first item %s", loaded[0].ID)
	}
}
