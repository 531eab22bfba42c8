package engine

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type writeCategory string

const (
	categoryPage    writeCategory = "page"
	categoryAsset   writeCategory = "asset"
	categoryFeed    writeCategory = "feed"
	categorySitemap writeCategory = "sitemap"
	categoryRobots  writeCategory = "robots"
)

// writeFileRequest describes one output write routed through the artifact
// writer. Paths are relative to the writer's output root.
type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    writeCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// artifactWriter abstracts where build outputs land so the engine can target
// the local filesystem in production and memory in tests.
type artifactWriter interface {
	EnsureDir(ctx context.Context, dir string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	RemoveAll(ctx context.Context, dir string) error
}

func newOSWriter(root string) artifactWriter {
	return &osWriter{root: root}
}

type osWriter struct {
	root string
}

func (w *osWriter) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	return os.MkdirAll(w.target(dir), 0o755)
}

func (w *osWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if err := validateWriteRequest(req); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	return os.WriteFile(w.target(req.Path), data, 0o644)
}

func (w *osWriter) RemoveAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(w.target(dir))
}

func (w *osWriter) target(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(strings.TrimSpace(rel)))
}

func validateWriteRequest(req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("engine: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("engine: write requires path")
	}
	return nil
}

// memoryArtifact captures one write for later inspection.
type memoryArtifact struct {
	Data        []byte
	Category    writeCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// memoryWriter keeps the output tree in memory. Tests use it to assert on
// what a build would have published without touching the disk.
type memoryWriter struct {
	mu    sync.Mutex
	files map[string]memoryArtifact
	dirs  map[string]struct{}
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{
		files: map[string]memoryArtifact{},
		dirs:  map[string]struct{}{},
	}
}

func (w *memoryWriter) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if trimmed := strings.TrimSpace(dir); trimmed != "" {
		w.dirs[trimmed] = struct{}{}
	}
	return nil
}

func (w *memoryWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if err := validateWriteRequest(req); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[req.Path] = memoryArtifact{
		Data:        data,
		Category:    req.Category,
		ContentType: req.ContentType,
		Checksum:    req.Checksum,
		Metadata:    req.Metadata,
	}
	return nil
}

func (w *memoryWriter) RemoveAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	trimmed := strings.Trim(strings.TrimSpace(dir), "/")
	if trimmed == "" || trimmed == "." {
		w.files = map[string]memoryArtifact{}
		w.dirs = map[string]struct{}{}
		return nil
	}
	prefix := trimmed + "/"
	for p := range w.files {
		if p == trimmed || strings.HasPrefix(p, prefix) {
			delete(w.files, p)
		}
	}
	for d := range w.dirs {
		if d == trimmed || strings.HasPrefix(d, prefix) {
			delete(w.dirs, d)
		}
	}
	return nil
}

// Paths lists every written file path, sorted.
func (w *memoryWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// File returns the artifact written at path.
func (w *memoryWriter) File(path string) (memoryArtifact, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	artifact, ok := w.files[path]
	return artifact, ok
}

// Len reports the number of written files.
func (w *memoryWriter) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.files)
}
