package markdown

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/patterns"
)

// LoaderConfig configures how content files are discovered within a base
// directory.
type LoaderConfig struct {
	// BasePath is the root directory where content documents live.
	BasePath string
	// Pattern limits parsed documents to those matching the supplied glob
	// (defaults to "**.md").
	Pattern string
	// RawPatterns enumerates globs for files loaded verbatim, without front
	// matter parsing. Assets matched here flow through copy rules untouched.
	RawPatterns []string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into build items with metadata.
type Loader struct {
	fs          fs.FS
	basePath    string
	pattern     string
	rawPatterns []string
	recursive   bool
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "**.md"
	}

	return &Loader{
		fs:          filesystem,
		basePath:    filepath.Clean(cfg.BasePath),
		pattern:     pattern,
		rawPatterns: append([]string(nil), cfg.RawPatterns...),
		recursive:   cfg.Recursive,
	}
}

// LoadFile reads and parses a single Markdown document.
func (l *Loader) LoadFile(ctx context.Context, path string) (*items.Item, error) {
	rel, data, modified, err := l.readFile(ctx, path)
	if err != nil {
		return nil, err
	}

	item, err := BuildItem(rel, data, modified)
	if err != nil {
		return nil, fmt.Errorf("markdown loader parse %s: %w", rel, err)
	}
	item.Checksum = checksum(data)

	return item, nil
}

// LoadRawFile reads a file without front matter parsing, for assets that
// should reach their route byte for byte.
func (l *Loader) LoadRawFile(ctx context.Context, path string) (*items.Item, error) {
	rel, data, modified, err := l.readFile(ctx, path)
	if err != nil {
		return nil, err
	}

	item := items.New(items.NewIdentifier(rel), data, nil)
	item.Source = rel
	item.Modified = modified
	item.Checksum = checksum(data)

	return item, nil
}

// LoadDirectory discovers content files under dir and returns build items
// sorted by identifier. Files matching the document pattern are parsed for
// front matter; files matching a raw pattern are loaded verbatim; everything
// else is skipped.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*items.Item, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(root)

	var results []*items.Item

	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if !l.shouldRecurse(root, path, opts.Recursive) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := filepath.ToSlash(path)
		switch {
		case l.matchesPattern(rel, opts.Pattern):
			item, err := l.LoadFile(ctx, rel)
			if err != nil {
				return err
			}
			results = append(results, item)
		case l.matchesRaw(rel, opts.RawPatterns):
			item, err := l.LoadRawFile(ctx, rel)
			if err != nil {
				return err
			}
			results = append(results, item)
		}
		return nil
	})

	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})

	return results, nil
}

func (l *Loader) readFile(ctx context.Context, path string) (string, []byte, time.Time, error) {
	select {
	case <-ctx.Done():
		return "", nil, time.Time{}, ctx.Err()
	default:
	}

	rel, err := l.makeRelative(path)
	if err != nil {
		return "", nil, time.Time{}, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return "", nil, time.Time{}, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return "", nil, time.Time{}, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	return rel, data, info.ModTime(), nil
}

func (l *Loader) shouldRecurse(root, current string, override *bool) bool {
	recursive := l.recursive
	if override != nil {
		recursive = *override
	}
	if recursive {
		return true
	}
	// If recursion is disabled, only walk the root directory.
	return filepath.Clean(root) == filepath.Clean(current)
}

func (l *Loader) matchesPattern(path string, override string) bool {
	pattern := override
	if strings.TrimSpace(pattern) == "" {
		pattern = l.pattern
	}
	pattern = filepath.ToSlash(pattern)
	return patterns.Glob(pattern).Matches(items.NewIdentifier(path))
}

func (l *Loader) matchesRaw(path string, overrides []string) bool {
	raw := overrides
	if len(raw) == 0 {
		raw = l.rawPatterns
	}
	id := items.NewIdentifier(path)
	for _, pattern := range raw {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		if patterns.Glob(filepath.ToSlash(pattern)).Matches(id) {
			return true
		}
	}
	return false
}

func (l *Loader) makeRelative(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ".", nil
	}
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" {
		return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", path)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("markdown loader: make relative %s: %w", path, err)
	}
	return rel, nil
}

// LoadParams provide call-specific overrides for pattern matching.
type LoadParams struct {
	Pattern     string
	RawPatterns []string
	Recursive   *bool
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
