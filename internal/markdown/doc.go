// Package markdown turns Markdown sources into build items. It wraps the
// goldmark engine for HTML rendering, extracts YAML front matter into item
// metadata, and discovers documents beneath a content root so the build
// engine can feed them through its rule chains.
package markdown
