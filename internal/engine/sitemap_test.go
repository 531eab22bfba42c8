package engine

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSitemapListsOnlyPages(t *testing.T) {
	fallback := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	modified := time.Date(2025, 3, 28, 9, 30, 0, 0, time.UTC)
	products := []CompiledProduct{
		{Route: "about.html", Modified: modified},
		{Route: "static/site.css", Modified: modified},
		{Route: "posts/hello/index.html"},
	}

	sitemap := buildSitemap("https://example.com/", products, fallback)
	if !strings.HasPrefix(sitemap, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("expected xml prologue:\n%s", sitemap)
	}
	if !strings.Contains(sitemap, "<loc>https://example.com/about.html</loc>") {
		t.Fatalf("expected about entry:\n%s", sitemap)
	}
	if !strings.Contains(sitemap, "<loc>https://example.com/posts/hello/</loc>") {
		t.Fatalf("expected folded directory URL:\n%s", sitemap)
	}
	if strings.Contains(sitemap, "site.css") {
		t.Fatalf("expected assets excluded:\n%s", sitemap)
	}
	if strings.Contains(sitemap, ".com//") {
		t.Fatalf("expected trailing slash trimmed from base:\n%s", sitemap)
	}
	if !strings.Contains(sitemap, "<lastmod>2025-03-28T09:30:00Z</lastmod>") {
		t.Fatalf("expected product timestamp:\n%s", sitemap)
	}
	if !strings.Contains(sitemap, "<lastmod>2025-04-01T12:00:00Z</lastmod>") {
		t.Fatalf("expected fallback timestamp for undated product:\n%s", sitemap)
	}
	about := strings.Index(sitemap, "https://example.com/about.html")
	hello := strings.Index(sitemap, "https://example.com/posts/hello/")
	if about > hello {
		t.Fatalf("expected entries sorted by location:\n%s", sitemap)
	}
}

func TestBuildSitemapDeduplicatesLocations(t *testing.T) {
	products := []CompiledProduct{
		{Route: "docs/index.html"},
		{Route: "docs/index.html"},
	}
	sitemap := buildSitemap("https://example.com", products, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC))
	if got := strings.Count(sitemap, "<loc>"); got != 1 {
		t.Fatalf("expected single location, got %d:\n%s", got, sitemap)
	}
}

func TestBuildRobotsOutput(t *testing.T) {
	plain := buildRobots("https://example.com", false)
	if plain != "User-agent: *\nAllow: /\n" {
		t.Fatalf("unexpected robots output %q", plain)
	}
	withMap := buildRobots("https://example.com/", true)
	if !strings.Contains(withMap, "Sitemap: https://example.com/sitemap.xml\n") {
		t.Fatalf("expected sitemap reference, got %q", withMap)
	}
	localhost := buildRobots("", true)
	if !strings.Contains(localhost, "Sitemap: http://localhost/sitemap.xml") {
		t.Fatalf("expected localhost fallback, got %q", localhost)
	}
}

func TestPublicPathFoldsDirectoryIndexes(t *testing.T) {
	cases := map[string]string{
		"":                       "/",
		"index.html":             "/",
		"docs/index.html":        "/docs/",
		"about.html":             "/about.html",
		"posts/hello/index.html": "/posts/hello/",
	}
	for route, want := range cases {
		if got := publicPath(route); got != want {
			t.Fatalf("publicPath(%q) = %q, want %q", route, got, want)
		}
	}
}
