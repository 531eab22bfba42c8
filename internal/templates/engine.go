// Package templates renders html/template layouts for the build engine and
// exposes go-theme selection data to template authors.
package templates

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ErrTemplateNotFound reports a render against a name no loaded file matches.
var ErrTemplateNotFound = errors.New("templates: template not found")

// Config controls template discovery and theming for the renderer.
type Config struct {
	// Dir is the root directory holding layout and partial templates.
	Dir string
	// Extensions lists the file extensions treated as templates.
	// Defaults to ".html" and ".tmpl".
	Extensions []string
	// Theme optionally points at a go-theme manifest directory whose tokens
	// and partials are exposed to every render.
	Theme ThemeConfig
}

// Engine renders html/template layouts discovered beneath a root directory.
// Every template file is parsed into one shared set, so layouts can reference
// partials by their slash-relative name. Safe for concurrent renders.
type Engine struct {
	mu      sync.RWMutex
	fsys    fs.FS
	exts    []string
	funcs   template.FuncMap
	globals map[string]any
	theme   *ThemeContext
	root    *template.Template
}

// Option customises an Engine before its templates are parsed.
type Option func(*Engine)

// WithFilter registers a helper before parsing, so layout files can call it.
func WithFilter(name string, fn func(any, any) (any, error)) Option {
	return func(e *Engine) {
		e.funcs[name] = adaptFilter(fn)
	}
}

// WithGlobal seeds a key every render sees.
func WithGlobal(key string, value any) Option {
	return func(e *Engine) {
		e.globals[key] = value
	}
}

// New constructs an Engine rooted at cfg.Dir.
func New(cfg Config, opts ...Option) (*Engine, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, errors.New("templates: dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("templates: stat dir %s: %w", dir, err)
	}
	return NewFS(os.DirFS(dir), cfg, opts...)
}

// NewFS builds an Engine over an explicit filesystem. Tests and in-memory
// builds use this to avoid touching the real disk.
func NewFS(fsys fs.FS, cfg Config, opts ...Option) (*Engine, error) {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = []string{".html", ".tmpl"}
	}

	theme, err := loadTheme(cfg.Theme)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		fsys:    fsys,
		exts:    append([]string(nil), exts...),
		funcs:   defaultFuncs(),
		globals: map[string]any{},
		theme:   theme,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// Render executes the named template with the merged global and call data.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tmpl := e.lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, e.renderData(data)); err != nil {
		return "", fmt.Errorf("templates: render %s: %w", name, err)
	}
	return flush(&buf, out)
}

// RenderTemplate is an alias for Render kept for renderer compatibility.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	return e.Render(name, data, out...)
}

// RenderString parses and executes an inline template body.
func (e *Engine) RenderString(source string, data any, out ...io.Writer) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tmpl, err := template.New("inline").Funcs(e.funcs).Parse(source)
	if err != nil {
		return "", fmt.Errorf("templates: parse inline: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, e.renderData(data)); err != nil {
		return "", fmt.Errorf("templates: render inline: %w", err)
	}
	return flush(&buf, out)
}

// RegisterFilter exposes a helper to templates. The filter receives the piped
// value plus one optional argument. Layout files are re-parsed so the new
// helper resolves everywhere.
func (e *Engine) RegisterFilter(name string, fn func(any, any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("templates: filter name is required")
	}
	if fn == nil {
		return errors.New("templates: filter func is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.funcs[name] = adaptFilter(fn)
	return e.reload()
}

// GlobalContext merges the provided map into the base data every render sees.
func (e *Engine) GlobalContext(data any) error {
	values, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("templates: global context must be map[string]any, got %T", data)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for key, value := range values {
		e.globals[key] = value
	}
	return nil
}

// Has reports whether a template resolves under the given name.
func (e *Engine) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lookup(name) != nil
}

// Theme returns the active theme context, nil when theming is disabled.
func (e *Engine) Theme() *ThemeContext {
	return e.theme
}

func (e *Engine) reload() error {
	root := template.New("").Funcs(e.funcs)

	err := fs.WalkDir(e.fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !e.isTemplate(p) {
			return nil
		}

		data, err := fs.ReadFile(e.fsys, p)
		if err != nil {
			return fmt.Errorf("templates: read %s: %w", p, err)
		}
		if _, err := root.New(path.Clean(p)).Parse(string(data)); err != nil {
			return fmt.Errorf("templates: parse %s: %w", p, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.root = root
	return nil
}

func (e *Engine) isTemplate(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, candidate := range e.exts {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}

// lookup resolves a template by exact path first, then by appending each
// configured extension, so callers can say "post" instead of "post.html".
func (e *Engine) lookup(name string) *template.Template {
	name = path.Clean(strings.TrimSpace(name))
	if tmpl := e.root.Lookup(name); tmpl != nil {
		return tmpl
	}
	for _, ext := range e.exts {
		if tmpl := e.root.Lookup(name + ext); tmpl != nil {
			return tmpl
		}
	}
	return nil
}

func (e *Engine) renderData(data any) any {
	base := make(map[string]any, len(e.globals)+2)
	for key, value := range e.globals {
		base[key] = value
	}
	if e.theme != nil {
		base["Theme"] = e.theme
	}

	switch v := data.(type) {
	case nil:
	case map[string]any:
		for key, value := range v {
			base[key] = value
		}
	default:
		if len(base) == 0 {
			return data
		}
		base["Data"] = data
	}
	return base
}

func adaptFilter(fn func(any, any) (any, error)) func(any, ...any) (any, error) {
	return func(value any, args ...any) (any, error) {
		var arg any
		if len(args) > 0 {
			arg = args[0]
		}
		return fn(value, arg)
	}
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(value any) template.HTML {
			switch v := value.(type) {
			case template.HTML:
				return v
			case string:
				return template.HTML(v)
			case []byte:
				return template.HTML(v)
			default:
				return template.HTML(fmt.Sprint(v))
			}
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"trim":  strings.TrimSpace,
		"join":  strings.Join,
		"dateFormat": func(layout string, value any) (string, error) {
			switch v := value.(type) {
			case time.Time:
				return v.Format(layout), nil
			case string:
				trimmed := strings.TrimSpace(v)
				for _, known := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
					if ts, err := time.Parse(known, trimmed); err == nil {
						return ts.Format(layout), nil
					}
				}
				return "", fmt.Errorf("templates: dateFormat: unrecognised date %q", v)
			default:
				return "", fmt.Errorf("templates: dateFormat: unsupported type %T", value)
			}
		},
	}
}

func flush(buf *bytes.Buffer, out []io.Writer) (string, error) {
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Ensure Engine implements interfaces.TemplateRenderer.
var _ interfaces.TemplateRenderer = (*Engine)(nil)
