package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOSWriterRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writer := newOSWriter(root)

	if err := writer.EnsureDir(ctx, "posts"); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	req := writeFileRequest{
		Path:    "posts/hello.html",
		Content: strings.NewReader("<html></html>"),
	}
	if err := writer.WriteFile(ctx, req); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "posts", "hello.html"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "<html></html>" {
		t.Fatalf("unexpected file contents %q", data)
	}
	if err := writer.RemoveAll(ctx, "."); err != nil {
		t.Fatalf("remove all: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "posts")); !os.IsNotExist(err) {
		t.Fatalf("expected output tree removed, got %v", err)
	}
}

func TestWriteRequestValidation(t *testing.T) {
	ctx := context.Background()
	writer := newMemoryWriter()
	if err := writer.WriteFile(ctx, writeFileRequest{Path: "a.html"}); err == nil {
		t.Fatalf("expected missing content error")
	}
	if err := writer.WriteFile(ctx, writeFileRequest{Content: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected missing path error")
	}
}

func TestMemoryWriterRemoveAllScopesToPrefix(t *testing.T) {
	ctx := context.Background()
	writer := newMemoryWriter()
	for _, path := range []string{"index.html", "posts/a.html", "posts/b.html"} {
		if err := writer.WriteFile(ctx, writeFileRequest{Path: path, Content: strings.NewReader("x")}); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	if err := writer.RemoveAll(ctx, "posts"); err != nil {
		t.Fatalf("remove posts: %v", err)
	}
	if writer.Len() != 1 {
		t.Fatalf("expected only root file left, got %v", writer.Paths())
	}
	if err := writer.RemoveAll(ctx, "."); err != nil {
		t.Fatalf("remove all: %v", err)
	}
	if writer.Len() != 0 {
		t.Fatalf("expected empty writer, got %v", writer.Paths())
	}
}

func TestDetectContentType(t *testing.T) {
	cases := map[string]string{
		"index.html":      "text/html; charset=utf-8",
		"css/site.css":    "text/css",
		"js/app.js":       "application/javascript",
		"feed.xml":        "application/xml",
		"robots.txt":      "text/plain; charset=utf-8",
		"img/logo.png":    "image/png",
		"download.tar.gz": "application/octet-stream",
	}
	for route, want := range cases {
		if got := detectContentType(route); got != want {
			t.Fatalf("detectContentType(%q) = %q, want %q", route, got, want)
		}
	}
}

func TestThemeAssetRoute(t *testing.T) {
	if got := themeAssetRoute("css/site.css"); got != "assets/css/site.css" {
		t.Fatalf("unexpected route %q", got)
	}
	if got := themeAssetRoute("/js/app.js"); got != "assets/js/app.js" {
		t.Fatalf("expected leading slash trimmed, got %q", got)
	}
	if got := themeAssetRoute("  "); got != "" {
		t.Fatalf("expected blank name rejected, got %q", got)
	}
}
