package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrContentDirRequired = errors.New("sitegen config: content directory is required")
var ErrOutputDirRequired = errors.New("sitegen config: output directory is required")
var ErrBaseURLRequired = errors.New("sitegen config: site base URL is required when feeds are enabled")
var ErrBaseURLInvalid = errors.New("sitegen config: site base URL must be absolute")
var ErrFeedsFeatureRequired = errors.New("sitegen config: feeds feature must be enabled to configure feeds")
var ErrTagsFeatureRequired = errors.New("sitegen config: tags feature must be enabled to configure tag pages")
var ErrTagRouteTemplateInvalid = errors.New("sitegen config: tag route template must contain exactly one %s placeholder")
var ErrFeedLimitInvalid = errors.New("sitegen config: feed limit must be zero or positive")
var ErrWorkersInvalid = errors.New("sitegen config: worker count must be zero or positive")
var ErrLoggingProviderRequired = errors.New("sitegen config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("sitegen config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitegen config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitegen config: logging format is invalid")

// Config aggregates feature flags and behaviour for the build engine. Fields
// intentionally use simple types so host applications can extend them later.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Content    ContentConfig    `yaml:"content"`
	Markdown   MarkdownConfig   `yaml:"markdown"`
	Templates  TemplatesConfig  `yaml:"templates"`
	Tags       TagsConfig       `yaml:"tags"`
	Feed       FeedConfig       `yaml:"feed"`
	Navigation NavigationConfig `yaml:"navigation"`
	Engine     EngineConfig     `yaml:"engine"`
	Logging    LoggingConfig    `yaml:"logging"`
	Features   Features         `yaml:"features"`
}

// SiteConfig carries site-wide values exposed to templates and feeds.
type SiteConfig struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Author      string         `yaml:"author"`
	BaseURL     string         `yaml:"baseurl"`
	Params      map[string]any `yaml:"params"`
}

// ContentConfig captures filesystem discovery behaviour.
type ContentConfig struct {
	Dir string `yaml:"dir"`
	// Pattern selects the documents parsed for front matter.
	Pattern string `yaml:"pattern"`
	// RawPatterns selects assets loaded verbatim for copy rules.
	RawPatterns []string `yaml:"raw_patterns"`
	Recursive   bool     `yaml:"recursive"`
	// Drafts includes items marked draft in the build.
	Drafts bool `yaml:"drafts"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// TemplatesConfig captures layout discovery and theming.
type TemplatesConfig struct {
	Dir        string   `yaml:"dir"`
	Extensions []string `yaml:"extensions"`
	// PageTemplate names the default layout; items override it through the
	// template metadata field.
	PageTemplate string      `yaml:"page_template"`
	Theme        ThemeConfig `yaml:"theme"`
}

// ThemeConfig selects a go-theme manifest directory.
type ThemeConfig struct {
	Path              string            `yaml:"path"`
	Name              string            `yaml:"name"`
	Variant           string            `yaml:"variant"`
	CSSVariablePrefix string            `yaml:"css_variable_prefix"`
	PartialFallbacks  map[string]string `yaml:"partial_fallbacks"`
}

// TagsConfig controls tag index construction and derived tag pages.
type TagsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Field is the metadata key holding the delimited tag list.
	Field     string `yaml:"field"`
	Delimiter string `yaml:"delimiter"`
	// RouteTemplate derives each tag page path; the single %s receives the
	// sanitised tag segment.
	RouteTemplate string `yaml:"route_template"`
	// Template names the layout rendering each tag page.
	Template string `yaml:"template"`
}

// FeedConfig controls syndication output.
type FeedConfig struct {
	Enabled bool `yaml:"enabled"`
	// Pattern scopes feed entries to matching identifiers; empty includes
	// every routed item.
	Pattern     string `yaml:"pattern"`
	Path        string `yaml:"path"`
	AtomPath    string `yaml:"atom_path"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	// Snapshot names the captured body each entry embeds. Entries never use
	// the final page output.
	Snapshot  string `yaml:"snapshot"`
	Limit     int    `yaml:"limit"`
	DateField string `yaml:"date_field"`
}

// NavigationConfig captures routing configuration for menu URL resolution.
type NavigationConfig struct {
	RouteConfig  *urlkit.Config `yaml:"route_config"`
	DefaultGroup string         `yaml:"default_group"`
	Menus        []MenuConfig   `yaml:"menus"`
}

// MenuConfig declares one named navigation tree.
type MenuConfig struct {
	Name  string           `yaml:"name"`
	Items []MenuItemConfig `yaml:"items"`
}

// MenuItemConfig declares a menu entry; URL wins over Route when both are set.
type MenuItemConfig struct {
	Label    string              `yaml:"label"`
	URL      string              `yaml:"url"`
	Route    string              `yaml:"route"`
	Group    string              `yaml:"group"`
	Params   map[string]string   `yaml:"params"`
	Query    map[string][]string `yaml:"query"`
	Children []MenuItemConfig    `yaml:"children"`
}

// EngineConfig captures behaviour for the build run itself.
type EngineConfig struct {
	OutputDir string `yaml:"output_dir"`
	// CleanBuild removes the output directory before writing.
	CleanBuild bool `yaml:"clean_build"`
	// CopyAssets copies theme manifest assets into the output.
	CopyAssets      bool `yaml:"copy_assets"`
	GenerateSitemap bool `yaml:"generate_sitemap"`
	GenerateRobots  bool `yaml:"generate_robots"`
	// Workers bounds per-item compilation concurrency; zero picks a default.
	Workers int `yaml:"workers"`
	// AllowOverlappingRules disables the registration-time ambiguity check.
	// With overlap allowed, the first registered rule wins inside a set.
	AllowOverlappingRules bool          `yaml:"allow_overlapping_rules"`
	RenderTimeout         time.Duration `yaml:"-"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// Features toggles module functionality.
type Features struct {
	Tags   bool `yaml:"tags"`
	Feeds  bool `yaml:"feeds"`
	Logger bool `yaml:"logger"`
}

// DefaultConfig returns opinionated defaults for a blog-shaped site.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Params: map[string]any{},
		},
		Content: ContentConfig{
			Dir:       "content",
			Pattern:   "**.md",
			Recursive: true,
		},
		Markdown: MarkdownConfig{},
		Templates: TemplatesConfig{
			Dir:          "templates",
			PageTemplate: "page",
		},
		Tags: TagsConfig{
			Field:         "tags",
			Delimiter:     ",",
			RouteTemplate: "tags/%s/index.html",
			Template:      "tag",
		},
		Feed: FeedConfig{
			Path:      "feed.xml",
			AtomPath:  "feed.atom.xml",
			Snapshot:  "feed-content",
			Limit:     0,
			DateField: "date",
		},
		Navigation: NavigationConfig{},
		Engine: EngineConfig{
			OutputDir:       "dist",
			CleanBuild:      true,
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  false,
			Workers:         0,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if strings.TrimSpace(cfg.Engine.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if cfg.Feed.Enabled && !cfg.Features.Feeds {
		return ErrFeedsFeatureRequired
	}
	if cfg.Tags.Enabled && !cfg.Features.Tags {
		return ErrTagsFeatureRequired
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			return fmt.Errorf("%w: %s", ErrBaseURLInvalid, base)
		}
	} else if cfg.Feed.Enabled {
		return ErrBaseURLRequired
	}
	if cfg.Tags.Enabled {
		if err := validateRouteTemplate(cfg.Tags.RouteTemplate); err != nil {
			return err
		}
	}
	if cfg.Feed.Limit < 0 {
		return ErrFeedLimitInvalid
	}
	if cfg.Engine.Workers < 0 {
		return ErrWorkersInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// validateRouteTemplate accepts exactly one %s and no other verbs; %% escapes
// a literal percent.
func validateRouteTemplate(template string) error {
	trimmed := strings.TrimSpace(template)
	if trimmed == "" {
		return fmt.Errorf("%w: template is empty", ErrTagRouteTemplateInvalid)
	}

	placeholders := 0
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != '%' {
			continue
		}
		if i+1 >= len(trimmed) {
			return fmt.Errorf("%w: %s", ErrTagRouteTemplateInvalid, template)
		}
		switch trimmed[i+1] {
		case 's':
			placeholders++
		case '%':
		default:
			return fmt.Errorf("%w: %s", ErrTagRouteTemplateInvalid, template)
		}
		i++
	}
	if placeholders != 1 {
		return fmt.Errorf("%w: %s", ErrTagRouteTemplateInvalid, template)
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
