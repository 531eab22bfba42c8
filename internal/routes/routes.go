package routes

import (
	"path"
	"strings"

	"github.com/goliatone/go-sitegen/internal/items"
)

// Route maps an identifier (plus the captures its pattern bound) to an
// output path relative to the build output directory. Routes are pure: the
// same inputs always produce the same path and resolving never touches the
// filesystem. A false return means the route does not apply and the product
// is skipped.
type Route interface {
	Resolve(id items.Identifier, captures []string) (string, bool)
}

// Func adapts a plain function to the Route interface.
type Func func(id items.Identifier, captures []string) (string, bool)

func (f Func) Resolve(id items.Identifier, captures []string) (string, bool) {
	return f(id, captures)
}

// SetExtension routes an identifier to itself with the extension swapped,
// the default publish mapping (posts/hello.md -> posts/hello.html). An empty
// ext publishes ".html".
func SetExtension(ext string) Route {
	if strings.TrimSpace(ext) == "" {
		ext = ".html"
	}
	return Func(func(id items.Identifier, _ []string) (string, bool) {
		return normalizePath(string(id.WithExt(ext))), true
	})
}

// Identity routes an identifier to itself verbatim, used for asset
// passthrough rules.
func Identity() Route {
	return Func(func(id items.Identifier, _ []string) (string, bool) {
		return normalizePath(string(id)), true
	})
}

// Constant routes every matching identifier to one fixed path, for single
// named resources.
func Constant(target string) Route {
	resolved := normalizePath(target)
	return Func(func(items.Identifier, []string) (string, bool) {
		return resolved, true
	})
}

// Composed fills the `%s` placeholders of template with the pattern captures
// in order. Resolution fails when the placeholder and capture counts differ,
// which signals a rule whose route and pattern fell out of sync.
func Composed(template string) Route {
	return Func(func(_ items.Identifier, captures []string) (string, bool) {
		filled, ok := fillPlaceholders(template, captures)
		if !ok {
			return "", false
		}
		return normalizePath(filled), true
	})
}

// Stripped removes a leading path prefix before delegating to inner, so
// content under content/posts/ can publish under posts/.
func Stripped(prefix string, inner Route) Route {
	normalized := strings.Trim(strings.TrimSpace(prefix), "/")
	return Func(func(id items.Identifier, captures []string) (string, bool) {
		stripped := strings.TrimPrefix(string(id), normalized+"/")
		return inner.Resolve(items.Identifier(stripped), captures)
	})
}

// Directory publishes pretty directory URLs: posts/hello.md ->
// posts/hello/index.html, index.md -> index.html.
func Directory() Route {
	return Func(func(id items.Identifier, _ []string) (string, bool) {
		stem := id.Stem()
		dir := id.Dir()
		if stem == "index" {
			return normalizePath(path.Join(dir, "index.html")), true
		}
		return normalizePath(path.Join(dir, stem, "index.html")), true
	})
}

func fillPlaceholders(template string, captures []string) (string, bool) {
	var sb strings.Builder
	remaining := template
	used := 0
	for {
		idx := strings.Index(remaining, "%s")
		if idx < 0 {
			break
		}
		if used >= len(captures) {
			return "", false
		}
		sb.WriteString(remaining[:idx])
		sb.WriteString(captures[used])
		used++
		remaining = remaining[idx+2:]
	}
	if used != len(captures) {
		return "", false
	}
	sb.WriteString(remaining)
	return sb.String(), true
}

func normalizePath(p string) string {
	cleaned := path.Clean(strings.ReplaceAll(strings.TrimSpace(p), "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}
