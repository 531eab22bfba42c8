package feeds

import (
	"strings"
	"testing"
	"time"
)

func renderFixtures() (Channel, []Entry, time.Time) {
	channel := Channel{
		Title:       "Example Site",
		Description: "Notes & updates",
		Author:      "Jordan",
		Link:        "https://example.com/",
		FeedPath:    "feed.atom.xml",
	}
	entries := []Entry{
		{
			Identifier:  "posts/welcome.md",
			Title:       "Welcome <b>all</b>",
			Summary:     "hello",
			Content:     `<p><a href="https://example.com/about.html">about</a></p>`,
			Link:        "https://example.com/posts/welcome.html",
			GUID:        "11111111-2222-3333-4444-555555555555",
			PublishedAt: time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2025, 1, 7, 8, 0, 0, 0, time.UTC),
		},
	}
	generatedAt := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)
	return channel, entries, generatedAt
}

func TestRenderRSS(t *testing.T) {
	channel, entries, generatedAt := renderFixtures()

	doc := RenderRSS(channel, entries, generatedAt)
	for _, want := range []string{
		`<rss version="2.0">`,
		"<title>Example Site</title>",
		"<link>https://example.com</link>",
		"<description>Notes &amp; updates</description>",
		"<managingEditor>Jordan</managingEditor>",
		"<title>Welcome &lt;b&gt;all&lt;/b&gt;</title>",
		"<link>https://example.com/posts/welcome.html</link>",
		`<guid isPermaLink="false">11111111-2222-3333-4444-555555555555</guid>`,
		"<pubDate>Mon, 06 Jan 2025 10:00:00 +0000</pubDate>",
		"&lt;p&gt;&lt;a href=&#34;https://example.com/about.html&#34;&gt;about&lt;/a&gt;&lt;/p&gt;",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("RSS missing %q in:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "<content") {
		t.Fatal("RSS must carry content in description, not a content element")
	}
}

func TestRenderRSSFallbacks(t *testing.T) {
	doc := RenderRSS(Channel{}, nil, time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC))
	if !strings.Contains(doc, "<title>Site Feed</title>") {
		t.Fatalf("expected default title, got:\n%s", doc)
	}
	if !strings.Contains(doc, "<description>Latest updates</description>") {
		t.Fatalf("expected default description, got:\n%s", doc)
	}
	if strings.Contains(doc, "managingEditor") {
		t.Fatal("expected no editor element without an author")
	}
}

func TestRenderAtom(t *testing.T) {
	channel, entries, generatedAt := renderFixtures()

	doc := RenderAtom(channel, entries, generatedAt)
	for _, want := range []string{
		`<feed xmlns="http://www.w3.org/2005/Atom">`,
		"<id>https://example.com/feed.atom.xml</id>",
		"<title>Example Site</title>",
		"<updated>2025-01-08T09:00:00Z</updated>",
		"<name>Jordan</name>",
		`<link rel="alternate" href="https://example.com" />`,
		`<link rel="self" href="https://example.com/feed.atom.xml" />`,
		"<id>urn:uuid:11111111-2222-3333-4444-555555555555</id>",
		"<published>2025-01-06T10:00:00Z</published>",
		"<updated>2025-01-07T08:00:00Z</updated>",
		"<summary>hello</summary>",
		`<content type="html">`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("Atom missing %q in:\n%s", want, doc)
		}
	}
}

func TestRenderAtomZeroDatesFallBack(t *testing.T) {
	generatedAt := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)
	doc := RenderAtom(Channel{Link: "https://example.com"}, []Entry{{Title: "Undated"}}, generatedAt)
	if !strings.Contains(doc, "<updated>2025-01-08T09:00:00Z</updated>") {
		t.Fatalf("expected generation time fallback, got:\n%s", doc)
	}
	if strings.Contains(doc, "<published>") {
		t.Fatal("expected no published element for zero publish date")
	}
}
