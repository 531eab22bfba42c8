package di

import (
	"os"
	"strings"

	"github.com/goliatone/go-sitegen/internal/commands"
	sitecmd "github.com/goliatone/go-sitegen/internal/commands/site"
	"github.com/goliatone/go-sitegen/internal/engine"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/logging/gologger"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/navigation"
	"github.com/goliatone/go-sitegen/internal/rules"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/internal/templates"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Container wires module dependencies from configuration: logger provider,
// markdown parser, content source, template renderer, navigation, the build
// engine, and the command handlers that drive it.
type Container struct {
	Config runtimeconfig.Config

	provider interfaces.LoggerProvider
	parser   interfaces.DocumentParser
	renderer interfaces.TemplateRenderer
	source   engine.ContentSource
	assets   engine.AssetSource

	registry  *rules.Registry
	nav       *navigation.Resolver
	menus     map[string][]navigation.Node
	engineSvc engine.Service

	buildHandler *sitecmd.BuildSiteHandler
	cleanHandler *sitecmd.CleanSiteHandler
}

// Option mutates the container before its defaults are constructed.
type Option func(*Container)

// WithLoggerProvider overrides the default logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.provider = provider
	}
}

// WithDocumentParser overrides the default markdown parser.
func WithDocumentParser(parser interfaces.DocumentParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// WithTemplateRenderer overrides the default template renderer.
func WithTemplateRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithContentSource overrides the default filesystem content source.
func WithContentSource(source engine.ContentSource) Option {
	return func(c *Container) {
		c.source = source
	}
}

// WithAssetSource overrides the theme asset source.
func WithAssetSource(assets engine.AssetSource) Option {
	return func(c *Container) {
		c.assets = assets
	}
}

// WithEngineService overrides the default engine service binding.
func WithEngineService(svc engine.Service) Option {
	return func(c *Container) {
		c.engineSvc = svc
	}
}

// NewContainer validates the configuration and wires every collaborator.
// Construction touches the filesystem: the content directory must exist and
// templates are parsed eagerly so layout errors surface before any build.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureMarkdown(); err != nil {
		return nil, err
	}
	if err := c.configureTemplates(); err != nil {
		return nil, err
	}
	if err := c.configureNavigation(); err != nil {
		return nil, err
	}
	c.configureAssets()
	if err := c.configureEngine(); err != nil {
		return nil, err
	}
	c.configureCommands()

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.provider != nil || !c.Config.Features.Logger {
		return nil
	}

	if strings.EqualFold(strings.TrimSpace(c.Config.Logging.Provider), "noop") {
		return nil
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.provider = provider
	return nil
}

func (c *Container) configureMarkdown() error {
	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{
			Extensions: c.Config.Markdown.Extensions,
			Sanitize:   c.Config.Markdown.Sanitize,
			HardWraps:  c.Config.Markdown.HardWraps,
			SafeMode:   c.Config.Markdown.SafeMode,
		})
	}

	if c.source == nil {
		source, err := markdown.NewSource(markdown.SourceConfig{
			BasePath:    c.Config.Content.Dir,
			Pattern:     c.Config.Content.Pattern,
			RawPatterns: c.Config.Content.RawPatterns,
			Recursive:   c.Config.Content.Recursive,
		})
		if err != nil {
			return err
		}
		c.source = source
	}
	return nil
}

func (c *Container) configureTemplates() error {
	if c.renderer != nil {
		return nil
	}

	renderer, err := templates.New(templates.Config{
		Dir:        c.Config.Templates.Dir,
		Extensions: c.Config.Templates.Extensions,
		Theme: templates.ThemeConfig{
			Path:              c.Config.Templates.Theme.Path,
			Name:              c.Config.Templates.Theme.Name,
			Variant:           c.Config.Templates.Theme.Variant,
			CSSVariablePrefix: c.Config.Templates.Theme.CSSVariablePrefix,
			PartialFallbacks:  c.Config.Templates.Theme.PartialFallbacks,
		},
	})
	if err != nil {
		return err
	}
	c.renderer = renderer
	return nil
}

func (c *Container) configureNavigation() error {
	navCfg := c.Config.Navigation
	if navCfg.RouteConfig == nil && len(navCfg.Menus) == 0 {
		return nil
	}

	c.nav = navigation.NewResolver(navigation.Config{
		RouteConfig:  navCfg.RouteConfig,
		DefaultGroup: navCfg.DefaultGroup,
		Menus:        menuConfigs(navCfg.Menus),
	})

	menus, err := c.nav.Menus()
	if err != nil {
		return err
	}
	if len(menus) > 0 {
		c.menus = menus
	}
	return nil
}

// configureAssets exposes the active theme's manifest assets to the engine so
// builds copy them into the output tree.
func (c *Container) configureAssets() {
	if c.assets != nil || !c.Config.Engine.CopyAssets {
		return
	}

	themePath := strings.TrimSpace(c.Config.Templates.Theme.Path)
	if themePath == "" {
		return
	}

	renderer, ok := c.renderer.(*templates.Engine)
	if !ok || renderer.Theme() == nil {
		return
	}

	names := renderer.Theme().Assets()
	if len(names) == 0 {
		return
	}
	c.assets = engine.NewFSAssets(os.DirFS(themePath), names)
}

func (c *Container) configureEngine() error {
	if c.engineSvc != nil {
		return nil
	}

	engineCfg := c.engineConfig()

	registry, err := engine.DefaultRegistry(engineCfg, c.parser, c.renderer)
	if err != nil {
		return err
	}
	c.registry = registry

	c.engineSvc = engine.NewService(engineCfg, engine.Dependencies{
		Source:   c.source,
		Registry: registry,
		Renderer: c.renderer,
		Assets:   c.assets,
		Logger:   logging.EngineLogger(c.provider),
	})
	return nil
}

func (c *Container) configureCommands() {
	gates := sitecmd.FeatureGates{
		EngineEnabled: func() bool { return c.engineSvc != nil },
	}
	logger := commands.CommandLogger(c.provider, "site")

	buildOpts := []commands.HandlerOption[sitecmd.BuildSiteCommand]{}
	cleanOpts := []commands.HandlerOption[sitecmd.CleanSiteCommand]{}
	if timeout := c.Config.Engine.RenderTimeout; timeout > 0 {
		buildOpts = append(buildOpts, commands.WithTimeout[sitecmd.BuildSiteCommand](timeout))
		cleanOpts = append(cleanOpts, commands.WithTimeout[sitecmd.CleanSiteCommand](timeout))
	}

	c.buildHandler = sitecmd.NewBuildSiteHandler(c.engineSvc, logger, gates, buildOpts...)
	c.cleanHandler = sitecmd.NewCleanSiteHandler(c.engineSvc, logger, gates, cleanOpts...)
}

func (c *Container) engineConfig() engine.Config {
	cfg := c.Config
	return engine.Config{
		OutputDir:      cfg.Engine.OutputDir,
		BaseURL:        cfg.Site.BaseURL,
		Site:           c.siteContext(),
		ContentPattern: cfg.Content.Pattern,
		RawPatterns:    cfg.Content.RawPatterns,
		PageTemplate:   cfg.Templates.PageTemplate,

		IncludeDrafts:         cfg.Content.Drafts,
		CleanBuild:            cfg.Engine.CleanBuild,
		CopyAssets:            cfg.Engine.CopyAssets,
		GenerateSitemap:       cfg.Engine.GenerateSitemap,
		GenerateRobots:        cfg.Engine.GenerateRobots,
		Workers:               cfg.Engine.Workers,
		AllowOverlappingRules: cfg.Engine.AllowOverlappingRules,

		Tags: engine.TagPagesConfig{
			Enabled:       cfg.Tags.Enabled,
			Field:         cfg.Tags.Field,
			Delimiter:     cfg.Tags.Delimiter,
			RouteTemplate: cfg.Tags.RouteTemplate,
			Template:      cfg.Tags.Template,
		},
		Feed: engine.FeedConfig{
			Enabled:     cfg.Feed.Enabled,
			Pattern:     cfg.Feed.Pattern,
			Path:        cfg.Feed.Path,
			AtomPath:    cfg.Feed.AtomPath,
			Title:       cfg.Feed.Title,
			Description: cfg.Feed.Description,
			Author:      cfg.Feed.Author,
			Snapshot:    cfg.Feed.Snapshot,
			Limit:       cfg.Feed.Limit,
			DateField:   cfg.Feed.DateField,
		},
	}
}

// siteContext merges the free-form params with the named site fields and
// resolved menus. Named fields win over params on key conflicts.
func (c *Container) siteContext() map[string]any {
	site := make(map[string]any, len(c.Config.Site.Params)+5)
	for key, value := range c.Config.Site.Params {
		site[key] = value
	}
	if title := strings.TrimSpace(c.Config.Site.Title); title != "" {
		site["Title"] = title
	}
	if description := strings.TrimSpace(c.Config.Site.Description); description != "" {
		site["Description"] = description
	}
	if author := strings.TrimSpace(c.Config.Site.Author); author != "" {
		site["Author"] = author
	}
	if base := strings.TrimSpace(c.Config.Site.BaseURL); base != "" {
		site["BaseURL"] = base
	}
	if len(c.menus) > 0 {
		site["Menus"] = c.menus
	}
	return site
}

func menuConfigs(menus []runtimeconfig.MenuConfig) []navigation.MenuConfig {
	out := make([]navigation.MenuConfig, 0, len(menus))
	for _, menu := range menus {
		out = append(out, navigation.MenuConfig{
			Name:  menu.Name,
			Items: menuItems(menu.Items),
		})
	}
	return out
}

func menuItems(items []runtimeconfig.MenuItemConfig) []navigation.ItemConfig {
	out := make([]navigation.ItemConfig, 0, len(items))
	for _, item := range items {
		out = append(out, navigation.ItemConfig{
			Label:    item.Label,
			URL:      item.URL,
			Route:    item.Route,
			Group:    item.Group,
			Params:   item.Params,
			Query:    item.Query,
			Children: menuItems(item.Children),
		})
	}
	return out
}

// LoggerProvider exposes the configured provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.provider
}

// DocumentParser exposes the configured markdown parser.
func (c *Container) DocumentParser() interfaces.DocumentParser {
	return c.parser
}

// TemplateRenderer exposes the configured template renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.renderer
}

// ContentSource exposes the configured content source.
func (c *Container) ContentSource() engine.ContentSource {
	return c.source
}

// AssetSource exposes the theme asset source, nil when no theme is active.
func (c *Container) AssetSource() engine.AssetSource {
	return c.assets
}

// Registry exposes the compiled rule registry.
func (c *Container) Registry() *rules.Registry {
	return c.registry
}

// Navigation exposes the menu resolver, nil when none is configured.
func (c *Container) Navigation() *navigation.Resolver {
	return c.nav
}

// Menus exposes the resolved navigation trees handed to templates.
func (c *Container) Menus() map[string][]navigation.Node {
	return c.menus
}

// EngineService returns the configured build engine service.
func (c *Container) EngineService() engine.Service {
	return c.engineSvc
}

// BuildHandler returns the command handler for site builds.
func (c *Container) BuildHandler() *sitecmd.BuildSiteHandler {
	return c.buildHandler
}

// CleanHandler returns the command handler for output cleanup.
func (c *Container) CleanHandler() *sitecmd.CleanSiteHandler {
	return c.cleanHandler
}
