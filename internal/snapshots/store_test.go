package snapshots

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-sitegen/internal/items"
)

func TestCaptureThenLoadReturnsLatest(t *testing.T) {
	store := NewStore()

	store.Capture("posts/welcome.md", "body", []byte("first"))
	got, err := store.Load("posts/welcome.md", "body")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "first" {
		t.Fatalf("expected first capture, got %q", got)
	}

	// Loading again is a pure lookup and stays stable.
	again, err := store.Load("posts/welcome.md", "body")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if string(again) != "first" {
		t.Fatalf("expected identical content on repeat load, got %q", again)
	}

	// Re-capturing under the same name overwrites.
	store.Capture("posts/welcome.md", "body", []byte("second"))
	got, err = store.Load("posts/welcome.md", "body")
	if err != nil {
		t.Fatalf("load after overwrite: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected overwritten capture, got %q", got)
	}
}

func TestCapturesAreImmutable(t *testing.T) {
	store := NewStore()
	original := []byte("pristine")
	store.Capture("posts/welcome.md", "body", original)

	original[0] = 'X'
	loaded, err := store.Load("posts/welcome.md", "body")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(loaded) != "pristine" {
		t.Fatalf("caller mutation reached the store: %q", loaded)
	}

	loaded[0] = 'Y'
	reloaded, err := store.Load("posts/welcome.md", "body")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if string(reloaded) != "pristine" {
		t.Fatalf("loaded-slice mutation reached the store: %q", reloaded)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	store := NewStore()

	_, err := store.Load("posts/welcome.md", "body")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	if notFound.Identifier != "posts/welcome.md" || notFound.Snapshot != "body" {
		t.Fatalf("unexpected error detail: %+v", notFound)
	}
	if !strings.Contains(err.Error(), "producing rule runs before") {
		t.Fatalf("expected ordering hint in message, got %q", err.Error())
	}

	// With other captures present the error lists what exists.
	store.Capture("posts/welcome.md", "summary", []byte("s"))
	store.Capture("posts/welcome.md", "html", []byte("h"))
	_, err = store.Load("posts/welcome.md", "body")
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	if !reflect.DeepEqual(notFound.Captured, []string{"html", "summary"}) {
		t.Fatalf("expected sorted captured names, got %v", notFound.Captured)
	}
}

func TestHasNamesLen(t *testing.T) {
	store := NewStore()
	store.Capture("a.md", "body", []byte("1"))
	store.Capture("a.md", "html", []byte("2"))
	store.Capture("b.md", "body", []byte("3"))

	if !store.Has("a.md", "body") || store.Has("a.md", "feed") || store.Has("c.md", "body") {
		t.Fatal("Has answered incorrectly")
	}
	if got := store.Names("a.md"); !reflect.DeepEqual(got, []string{"body", "html"}) {
		t.Fatalf("expected sorted names, got %v", got)
	}
	if store.Names("c.md") != nil {
		t.Fatal("expected nil names for unknown identifier")
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 captures, got %d", store.Len())
	}
}

func TestStoreConcurrentCaptures(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("posts/%d.md", n)
			store.Capture(items.Identifier(id), "body", []byte(id))
			if _, err := store.Load(items.Identifier(id), "body"); err != nil {
				t.Errorf("load %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()
	if store.Len() != 16 {
		t.Fatalf("expected 16 captures, got %d", store.Len())
	}
}
