package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-sitegen/internal/items"
)

// SourceConfig controls how a content source discovers files.
type SourceConfig struct {
	BasePath    string
	Pattern     string
	RawPatterns []string
	Recursive   bool
}

// Source is the filesystem-backed discovery entry the build engine consumes.
// It prepares a rooted filesystem from the configured base path and exposes
// loaded items in deterministic identifier order.
type Source struct {
	cfg    SourceConfig
	loader *Loader
}

// NewSource validates the base path and constructs the backing loader.
func NewSource(cfg SourceConfig) (*Source, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:    cfg.BasePath,
		Pattern:     cfg.Pattern,
		RawPatterns: cfg.RawPatterns,
		Recursive:   cfg.Recursive,
	})

	return &Source{
		cfg:    cfg,
		loader: loader,
	}, nil
}

// NewSourceFS builds a Source over an explicit filesystem. Tests and in-memory
// builds use this to avoid touching the real disk.
func NewSourceFS(filesystem fs.FS, cfg SourceConfig) *Source {
	return &Source{
		cfg: cfg,
		loader: NewLoader(filesystem, LoaderConfig{
			Pattern:     cfg.Pattern,
			RawPatterns: cfg.RawPatterns,
			Recursive:   cfg.Recursive,
		}),
	}
}

// Items loads every matching document beneath the base path.
func (s *Source) Items(ctx context.Context) ([]*items.Item, error) {
	return s.loader.LoadDirectory(ctx, s.normalisePath("."), LoadParams{})
}

// Load fetches a single document relative to the base path.
func (s *Source) Load(ctx context.Context, path string) (*items.Item, error) {
	return s.loader.LoadFile(ctx, s.normalisePath(path))
}

func (s *Source) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown source: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
