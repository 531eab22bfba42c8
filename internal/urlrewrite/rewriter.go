package urlrewrite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ErrInvalidRoot indicates the configured site root is not an absolute URL.
var ErrInvalidRoot = errors.New("urlrewrite: invalid site root")

// Rewriter switches rendered HTML between root-relative and absolute URL
// forms around a fixed site root. Feed readers need absolute links while
// in-site pages stay root-relative to survive deployment prefixes and local
// preview; both passes are idempotent and leave third-party URLs untouched,
// byte for byte.
type Rewriter struct {
	root string
}

// New validates the site root and returns a rewriter bound to it. The root
// must be absolute (scheme and host); a trailing slash is dropped.
func New(root string) (*Rewriter, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(root), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty root", ErrInvalidRoot)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRoot, root, err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q must include scheme and host", ErrInvalidRoot, root)
	}
	return &Rewriter{root: trimmed}, nil
}

// Root returns the normalized site root without a trailing slash.
func (rw *Rewriter) Root() string { return rw.root }

// Externalize prefixes root-relative link and src URLs with the site root.
// URLs carrying a scheme, protocol-relative URLs, fragments, and
// document-relative paths pass through unchanged.
func (rw *Rewriter) Externalize(doc []byte) []byte {
	return rw.rewrite(doc, rw.ExternalizeURL)
}

// Internalize strips the site root from link and src URLs, restoring
// root-relative form. URLs under any other host pass through unchanged.
func (rw *Rewriter) Internalize(doc []byte) []byte {
	return rw.rewrite(doc, rw.InternalizeURL)
}

// ExternalizeURL applies the externalize judgement to a single URL value,
// reporting whether it changed.
func (rw *Rewriter) ExternalizeURL(value string) (string, bool) {
	if !strings.HasPrefix(value, "/") || strings.HasPrefix(value, "//") {
		return value, false
	}
	return rw.root + value, true
}

// InternalizeURL applies the internalize judgement to a single URL value,
// reporting whether it changed.
func (rw *Rewriter) InternalizeURL(value string) (string, bool) {
	if value == rw.root {
		return "/", true
	}
	if strings.HasPrefix(value, rw.root+"/") {
		return value[len(rw.root):], true
	}
	return value, false
}

// rewrite walks the document token by token, emitting the tokenizer's raw
// bytes for everything it does not change so untouched markup survives
// byte-identical. Only start and self-closing tags are inspected.
func (rw *Rewriter) rewrite(doc []byte, transform func(string) (string, bool)) []byte {
	tokenizer := html.NewTokenizer(bytes.NewReader(doc))
	var out bytes.Buffer
	out.Grow(len(doc))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if err := tokenizer.Err(); err != io.EOF {
				out.Write(tokenizer.Raw())
			}
			break
		}
		raw := tokenizer.Raw()
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			if rewritten, changed := rewriteTagURLs(raw, transform); changed {
				out.Write(rewritten)
				continue
			}
		}
		out.Write(raw)
	}
	return out.Bytes()
}

// URL-bearing attributes the rewriter touches.
func isURLAttr(name []byte) bool {
	switch len(name) {
	case 3:
		return asciiEqualFold(name, "src")
	case 4:
		return asciiEqualFold(name, "href")
	}
	return false
}

// rewriteTagURLs scans the raw bytes of one tag for href/src attribute
// values and applies transform to each. The scan tracks byte offsets so
// quoting style, spacing, and attribute order are preserved exactly; only
// the value bytes of a changed URL are replaced. Transforms operate on the
// escaped attribute text, which is safe because they only prepend or strip a
// plain ASCII prefix.
func rewriteTagURLs(raw []byte, transform func(string) (string, bool)) ([]byte, bool) {
	type replacement struct {
		start, end int
		value      string
	}
	var replacements []replacement

	i := 0
	n := len(raw)
	if i < n && raw[i] == '<' {
		i++
	}
	for i < n && raw[i] != ' ' && raw[i] != '\t' && raw[i] != '\n' && raw[i] != '\r' && raw[i] != '>' && raw[i] != '/' {
		i++
	}
	for i < n {
		for i < n && isSpaceByte(raw[i]) {
			i++
		}
		if i >= n || raw[i] == '>' {
			break
		}
		if raw[i] == '/' {
			i++
			continue
		}
		nameStart := i
		for i < n && raw[i] != '=' && raw[i] != '>' && raw[i] != '/' && !isSpaceByte(raw[i]) {
			i++
		}
		name := raw[nameStart:i]
		for i < n && isSpaceByte(raw[i]) {
			i++
		}
		if i >= n || raw[i] != '=' {
			continue
		}
		i++
		for i < n && isSpaceByte(raw[i]) {
			i++
		}
		if i >= n {
			break
		}
		var valueStart, valueEnd int
		if raw[i] == '"' || raw[i] == '\'' {
			quote := raw[i]
			i++
			valueStart = i
			for i < n && raw[i] != quote {
				i++
			}
			valueEnd = i
			if i < n {
				i++
			}
		} else {
			valueStart = i
			for i < n && !isSpaceByte(raw[i]) && raw[i] != '>' {
				i++
			}
			valueEnd = i
		}
		if !isURLAttr(name) {
			continue
		}
		value := string(raw[valueStart:valueEnd])
		if rewritten, changed := transform(value); changed {
			replacements = append(replacements, replacement{start: valueStart, end: valueEnd, value: rewritten})
		}
	}

	if len(replacements) == 0 {
		return nil, false
	}
	var out bytes.Buffer
	out.Grow(len(raw) + 64)
	prev := 0
	for _, rep := range replacements {
		out.Write(raw[prev:rep.start])
		out.WriteString(rep.value)
		prev = rep.end
	}
	out.Write(raw[prev:])
	return out.Bytes(), true
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func asciiEqualFold(b []byte, lower string) bool {
	if len(b) != len(lower) {
		return false
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}
