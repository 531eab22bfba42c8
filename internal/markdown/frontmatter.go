package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-sitegen/internal/items"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the flattened metadata, the Markdown body
// without delimiters, and any error encountered. Documents without a front
// matter block yield empty metadata and the full source as body.
func ParseFrontMatter(source []byte) (items.Metadata, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToMetadata(meta), body, nil
}

// BuildItem assembles a build item from the supplied path, raw content, and
// modification time. The body keeps its Markdown form; rendering happens
// later in the compiler chain. Items without a title get one derived from the
// identifier stem.
func BuildItem(path string, source []byte, modified time.Time) (*items.Item, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	item := items.New(items.NewIdentifier(path), body, meta)
	item.Source = path
	item.Modified = modified

	if _, ok := item.Metadata.Lookup(items.FieldTitle); !ok {
		item.Metadata[items.FieldTitle] = TitleFromIdentifier(item.ID)
	}

	return item, nil
}

// frontMatterEnvelope captures the well-known keys while letting everything
// else fall through the inline map. Date stays a string so unparsable values
// surface as enumerated field errors at read time instead of failing the
// whole document here. Tags accept both YAML lists and delimited strings.
type frontMatterEnvelope struct {
	Title    string         `yaml:"title"`
	Slug     string         `yaml:"slug"`
	Summary  string         `yaml:"summary"`
	Template string         `yaml:"template"`
	Tags     any            `yaml:"tags"`
	Author   string         `yaml:"author"`
	Date     string         `yaml:"date"`
	Draft    bool           `yaml:"draft"`
	Custom   map[string]any `yaml:",inline"`
}

func envelopeToMetadata(env frontMatterEnvelope) items.Metadata {
	meta := make(items.Metadata, len(env.Custom)+8)

	for key, value := range env.Custom {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if text, ok := scalarString(value); ok {
			meta[key] = text
		}
	}

	if env.Title != "" {
		meta[items.FieldTitle] = env.Title
	}
	if env.Slug != "" {
		meta[items.FieldSlug] = env.Slug
	}
	if env.Summary != "" {
		meta[items.FieldSummary] = env.Summary
	}
	if env.Template != "" {
		meta[items.FieldTemplate] = env.Template
	}
	if tags := normalizeTags(env.Tags); tags != "" {
		meta[items.FieldTags] = tags
	}
	if env.Author != "" {
		meta[items.FieldAuthor] = env.Author
	}
	if date := strings.TrimSpace(env.Date); date != "" {
		meta[items.FieldDate] = date
	}
	if env.Draft {
		meta[items.FieldDraft] = "true"
	}

	return meta
}

// normalizeTags flattens the YAML tags value into the canonical
// comma-delimited form the tag index splits on.
func normalizeTags(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, entry := range v {
			text, ok := scalarString(entry)
			if !ok {
				continue
			}
			if text = strings.TrimSpace(text); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// scalarString renders a YAML scalar as a string. Nested maps are dropped;
// item metadata stays flat.
func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case time.Time:
		return v.Format(time.RFC3339), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, entry := range v {
			text, ok := scalarString(entry)
			if !ok {
				return "", false
			}
			parts = append(parts, text)
		}
		return strings.Join(parts, ", "), true
	default:
		return "", false
	}
}
