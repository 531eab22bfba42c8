package engine

import (
	"context"
	"errors"
	"html/template"
	"strings"

	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/rules"
	"github.com/goliatone/go-sitegen/internal/urlrewrite"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// MarkdownCompiler converts markdown bodies to HTML through the document
// parser collaborator.
type MarkdownCompiler struct {
	parser interfaces.DocumentParser
}

// NewMarkdownCompiler binds the compiler to a parser carrying its own
// defaults.
func NewMarkdownCompiler(parser interfaces.DocumentParser) *MarkdownCompiler {
	return &MarkdownCompiler{parser: parser}
}

func (c *MarkdownCompiler) Name() string { return "markdown" }

func (c *MarkdownCompiler) Compile(_ context.Context, _ *rules.BuildContext, _ *items.Item, input []byte) ([]byte, error) {
	return c.parser.Parse(input)
}

// TemplateCompiler wraps compiled content in a layout template. The item's
// template metadata field overrides the default layout per page.
type TemplateCompiler struct {
	renderer interfaces.TemplateRenderer
	template string
}

func NewTemplateCompiler(renderer interfaces.TemplateRenderer, templateName string) *TemplateCompiler {
	return &TemplateCompiler{renderer: renderer, template: templateName}
}

func (c *TemplateCompiler) Name() string { return "template" }

func (c *TemplateCompiler) Compile(_ context.Context, build *rules.BuildContext, item *items.Item, input []byte) ([]byte, error) {
	name := c.template
	if override, ok := item.Metadata.Lookup(items.FieldTemplate); ok && strings.TrimSpace(override) != "" {
		name = strings.TrimSpace(override)
	}
	data, err := pageData(build, item, input)
	if err != nil {
		return nil, err
	}
	rendered, err := c.renderer.Render(name, data)
	if err != nil {
		return nil, err
	}
	return []byte(rendered), nil
}

// ExternalizeCompiler rewrites root-relative URLs absolute against the site
// root, preparing content for audiences outside the site such as feed
// readers.
type ExternalizeCompiler struct {
	rewriter *urlrewrite.Rewriter
}

func NewExternalizeCompiler(rewriter *urlrewrite.Rewriter) *ExternalizeCompiler {
	return &ExternalizeCompiler{rewriter: rewriter}
}

func (c *ExternalizeCompiler) Name() string { return "externalize" }

func (c *ExternalizeCompiler) Compile(_ context.Context, _ *rules.BuildContext, _ *items.Item, input []byte) ([]byte, error) {
	return c.rewriter.Externalize(input), nil
}

// InternalizeCompiler strips the site root back off, restoring root-relative
// links for in-site pages.
type InternalizeCompiler struct {
	rewriter *urlrewrite.Rewriter
}

func NewInternalizeCompiler(rewriter *urlrewrite.Rewriter) *InternalizeCompiler {
	return &InternalizeCompiler{rewriter: rewriter}
}

func (c *InternalizeCompiler) Name() string { return "internalize" }

func (c *InternalizeCompiler) Compile(_ context.Context, _ *rules.BuildContext, _ *items.Item, input []byte) ([]byte, error) {
	return c.rewriter.Internalize(input), nil
}

// CopyCompiler passes bodies through untouched; pair it with an identity
// route for raw asset publishing.
type CopyCompiler struct{}

func NewCopyCompiler() *CopyCompiler { return &CopyCompiler{} }

func (c *CopyCompiler) Name() string { return "copy" }

func (c *CopyCompiler) Compile(_ context.Context, _ *rules.BuildContext, _ *items.Item, input []byte) ([]byte, error) {
	return input, nil
}

// pageData assembles the template context for one page render. A present but
// unparsable date fails the product so broken front matter surfaces as a
// diagnostic instead of an oddly sorted site.
func pageData(build *rules.BuildContext, item *items.Item, body []byte) (map[string]any, error) {
	data := map[string]any{
		"Content":    template.HTML(body),
		"Identifier": item.ID.String(),
		"Metadata":   map[string]string(item.Metadata),
	}
	if build != nil {
		data["Site"] = build.Site
		data["GeneratedAt"] = build.StartedAt
	}

	title, _ := item.Metadata.Lookup(items.FieldTitle)
	if strings.TrimSpace(title) == "" {
		title = item.ID.String()
	}
	data["Title"] = title

	if author, ok := item.Metadata.Lookup(items.FieldAuthor); ok {
		data["Author"] = author
	}
	if summary, ok := item.Metadata.Lookup(items.FieldSummary); ok {
		data["Summary"] = summary
	}
	if date, err := item.Metadata.Date(items.FieldDate); err == nil {
		data["Date"] = date
	} else if !errors.Is(err, items.ErrFieldMissing) {
		return nil, err
	}
	if tagList, err := item.Metadata.List(items.FieldTags, ","); err == nil && len(tagList) > 0 {
		data["Tags"] = tagList
	}
	return data, nil
}

var (
	_ rules.Compiler = (*MarkdownCompiler)(nil)
	_ rules.Compiler = (*TemplateCompiler)(nil)
	_ rules.Compiler = (*ExternalizeCompiler)(nil)
	_ rules.Compiler = (*InternalizeCompiler)(nil)
	_ rules.Compiler = (*CopyCompiler)(nil)
)
