package di

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-sitegen/internal/engine"
	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/rules"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

func TestNewContainerWiresCollaborators(t *testing.T) {
	cfg := testConfig(t)

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	if c.EngineService() == nil {
		t.Fatal("expected engine service")
	}
	if c.DocumentParser() == nil {
		t.Fatal("expected document parser")
	}
	if c.TemplateRenderer() == nil {
		t.Fatal("expected template renderer")
	}
	if c.ContentSource() == nil {
		t.Fatal("expected content source")
	}
	if c.Registry() == nil || c.Registry().Len() == 0 {
		t.Fatal("expected populated rule registry")
	}
	if c.BuildHandler() == nil || c.CleanHandler() == nil {
		t.Fatal("expected command handlers")
	}
	if c.LoggerProvider() != nil {
		t.Fatal("expected nil provider while logger feature is off")
	}
}

func TestNewContainerValidatesConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Dir = ""

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestNewContainerRequiresContentDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Dir = filepath.Join(t.TempDir(), "missing")

	_, err := NewContainer(cfg)
	if err == nil {
		t.Fatal("expected error for missing content directory")
	}
	if !strings.Contains(err.Error(), "stat base path") {
		t.Fatalf("expected stat error, got %v", err)
	}
}

func TestNewContainerRequiresTemplatesDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Templates.Dir = filepath.Join(t.TempDir(), "missing")

	_, err := NewContainer(cfg)
	if err == nil {
		t.Fatal("expected error for missing templates directory")
	}
	if !strings.Contains(err.Error(), "templates") {
		t.Fatalf("expected templates error, got %v", err)
	}
}

func TestNewContainerHonoursOverrides(t *testing.T) {
	cfg := testConfig(t)

	source := &staticSource{}
	renderer := &staticRenderer{}
	parser := &staticParser{}

	c, err := NewContainer(cfg,
		WithContentSource(source),
		WithTemplateRenderer(renderer),
		WithDocumentParser(parser),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	if c.ContentSource() != engine.ContentSource(source) {
		t.Fatal("expected content source override")
	}
	if c.TemplateRenderer() != interfaces.TemplateRenderer(renderer) {
		t.Fatal("expected renderer override")
	}
	if c.DocumentParser() != interfaces.DocumentParser(parser) {
		t.Fatal("expected parser override")
	}
}

func TestNewContainerReportsRuleAmbiguity(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.RawPatterns = []string{"static/**", "**.css"}

	if _, err := NewContainer(cfg); !errors.Is(err, rules.ErrPatternAmbiguity) {
		t.Fatalf("expected ErrPatternAmbiguity, got %v", err)
	}
}

func TestNewContainerResolvesMenus(t *testing.T) {
	cfg := testConfig(t)
	cfg.Navigation.Menus = []runtimeconfig.MenuConfig{
		{
			Name: "main",
			Items: []runtimeconfig.MenuItemConfig{
				{Label: "Home", URL: "/"},
				{Label: "About", URL: "/about.html"},
			},
		},
	}

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	menus := c.Menus()
	if len(menus["main"]) != 2 {
		t.Fatalf("expected 2 resolved entries, got %d", len(menus["main"]))
	}
	if menus["main"][1].URL != "/about.html" {
		t.Fatalf("expected fixed URL, got %q", menus["main"][1].URL)
	}
}

func TestContainerBuildWritesOutput(t *testing.T) {
	cfg := testConfig(t)

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := c.EngineService().Build(context.Background(), engine.BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.ProductsBuilt != 1 {
		t.Fatalf("expected 1 product, got %d", result.ProductsBuilt)
	}

	page, err := os.ReadFile(filepath.Join(cfg.Engine.OutputDir, "hello.html"))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(page), "<h1") {
		t.Fatalf("expected rendered heading, got %q", page)
	}
	if !strings.Contains(string(page), "Container Site") {
		t.Fatalf("expected site title in output, got %q", page)
	}
}

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()

	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	templatesDir := filepath.Join(root, "templates")

	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		t.Fatalf("mkdir content: %v", err)
	}
	if err := os.MkdirAll(templatesDir, 0o755); err != nil {
		t.Fatalf("mkdir templates: %v", err)
	}

	page := "<html><head><title>{{.Site.Title}}</title></head>" +
		"<body>{{.Site.Title}} {{.Content}}</body></html>\n"
	if err := os.WriteFile(filepath.Join(templatesDir, "page.html"), []byte(page), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := os.WriteFile(filepath.Join(contentDir, "hello.md"), []byte("# Hello\n"), 0o644); err != nil {
		t.Fatalf("write content: %v", err)
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.Title = "Container Site"
	cfg.Content.Dir = contentDir
	cfg.Templates.Dir = templatesDir
	cfg.Engine.OutputDir = filepath.Join(root, "dist")
	return cfg
}

type staticSource struct{}

func (s *staticSource) Items(context.Context) ([]*items.Item, error) {
	return nil, nil
}

type staticRenderer struct{}

func (s *staticRenderer) Render(string, any, ...io.Writer) (string, error)         { return "", nil }
func (s *staticRenderer) RenderTemplate(string, any, ...io.Writer) (string, error) { return "", nil }
func (s *staticRenderer) RenderString(string, any, ...io.Writer) (string, error)   { return "", nil }
func (s *staticRenderer) RegisterFilter(string, func(any, any) (any, error)) error { return nil }
func (s *staticRenderer) GlobalContext(any) error                                  { return nil }

type staticParser struct{}

func (s *staticParser) Parse(markdown []byte) ([]byte, error) {
	return markdown, nil
}

func (s *staticParser) ParseWithOptions(markdown []byte, _ interfaces.ParseOptions) ([]byte, error) {
	return markdown, nil
}
