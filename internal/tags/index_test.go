package tags

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-sitegen/internal/items"
)

func post(id string, meta items.Metadata) *items.Item {
	return items.New(items.Identifier(id), []byte("body"), meta)
}

func bucketIDs(t *testing.T, idx *Index, segment string) []items.Identifier {
	t.Helper()
	bucket, ok := idx.Bucket(segment)
	if !ok {
		t.Fatalf("expected bucket %q", segment)
	}
	out := make([]items.Identifier, 0, len(bucket.Items))
	for _, item := range bucket.Items {
		out = append(out, item.ID)
	}
	return out
}

func TestBuildIndexGroupsByTag(t *testing.T) {
	list := []*items.Item{
		post("posts/one.md", items.Metadata{items.FieldTags: "a, b"}),
		post("posts/two.md", items.Metadata{items.FieldTags: "b"}),
		post("posts/three.md", nil),
	}

	idx, err := BuildIndex(list, Options{})
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("expected 2 tags, got %d", idx.Len())
	}
	if got := idx.Segments(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected first-seen segment order, got %v", got)
	}
	if got := bucketIDs(t, idx, "a"); !reflect.DeepEqual(got, []items.Identifier{"posts/one.md"}) {
		t.Fatalf("unexpected bucket a: %v", got)
	}
	// Discovery order inside the bucket, before any re-sort.
	if got := bucketIDs(t, idx, "b"); !reflect.DeepEqual(got, []items.Identifier{"posts/one.md", "posts/two.md"}) {
		t.Fatalf("unexpected bucket b: %v", got)
	}
}

func TestBuildIndexNeverInventsMembership(t *testing.T) {
	list := []*items.Item{
		post("posts/one.md", items.Metadata{items.FieldTags: "go, go, builds"}),
		post("posts/two.md", items.Metadata{items.FieldTags: "builds"}),
	}

	idx, err := BuildIndex(list, Options{})
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	// Duplicate spellings in one item collapse to a single appearance.
	if got := bucketIDs(t, idx, "go"); !reflect.DeepEqual(got, []items.Identifier{"posts/one.md"}) {
		t.Fatalf("expected one appearance per item per tag, got %v", got)
	}
	for _, segment := range idx.Segments() {
		bucket, _ := idx.Bucket(segment)
		for _, item := range bucket.Items {
			raw, err := item.Metadata.List(items.FieldTags, ",")
			if err != nil {
				t.Fatalf("member without tags in bucket %q: %v", segment, err)
			}
			found := false
			for _, tag := range raw {
				if seg, _ := Sanitize(tag); seg == segment {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("item %s indexed under tag it does not carry: %q", item.ID, segment)
			}
		}
	}
}

func TestBuildIndexCustomFieldAndDelimiter(t *testing.T) {
	list := []*items.Item{
		post("posts/one.md", items.Metadata{"keywords": "go|cms"}),
	}

	idx, err := BuildIndex(list, Options{Field: "keywords", Delimiter: "|"})
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	if got := idx.Segments(); !reflect.DeepEqual(got, []string{"go", "cms"}) {
		t.Fatalf("expected custom split, got %v", got)
	}
}

func TestBuildIndexSanitizationCollision(t *testing.T) {
	list := []*items.Item{
		post("posts/one.md", items.Metadata{items.FieldTags: "Static Sites"}),
		post("posts/two.md", items.Metadata{items.FieldTags: "static-sites"}),
	}

	_, err := BuildIndex(list, Options{})
	if !errors.Is(err, ErrTagCollision) {
		t.Fatalf("expected ErrTagCollision, got %v", err)
	}
	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected CollisionError, got %T", err)
	}
	if collision.Segment != "static-sites" {
		t.Fatalf("unexpected segment %q", collision.Segment)
	}
	if collision.First != "Static Sites" || collision.Second != "static-sites" {
		t.Fatalf("expected both spellings reported, got %+v", collision)
	}
}

func TestBuildIndexUnsanitizableTag(t *testing.T) {
	list := []*items.Item{
		post("posts/one.md", items.Metadata{items.FieldTags: "go, !!!"}),
	}

	_, err := BuildIndex(list, Options{})
	if !errors.Is(err, ErrTagUnsanitizable) {
		t.Fatalf("expected ErrTagUnsanitizable, got %v", err)
	}
}

func TestSortByDateDesc(t *testing.T) {
	list := []*items.Item{
		post("posts/old.md", items.Metadata{items.FieldTags: "go", items.FieldDate: "2024-01-01"}),
		post("posts/new.md", items.Metadata{items.FieldTags: "go", items.FieldDate: "2025-06-01"}),
		post("posts/mid.md", items.Metadata{items.FieldTags: "go", items.FieldDate: "2024-09-15"}),
		post("posts/undated.md", items.Metadata{items.FieldTags: "go"}),
	}

	idx, err := BuildIndex(list, Options{})
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	idx.Sort(ByDateDesc(""))

	want := []items.Identifier{"posts/new.md", "posts/mid.md", "posts/old.md", "posts/undated.md"}
	if got := bucketIDs(t, idx, "go"); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected date-descending order with undated last, got %v", got)
	}
}

func TestSanitizeDeterministic(t *testing.T) {
	first, err := Sanitize("Static Sites")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if first != "static-sites" {
		t.Fatalf("expected static-sites, got %q", first)
	}
	second, _ := Sanitize("Static Sites")
	if second != first {
		t.Fatalf("sanitize not deterministic: %q then %q", first, second)
	}
	if _, err := Sanitize("   "); !errors.Is(err, ErrTagUnsanitizable) {
		t.Fatalf("expected ErrTagUnsanitizable for blank tag, got %v", err)
	}
}
