package sitegen

import "github.com/goliatone/go-sitegen/internal/runtimeconfig"

type (
	Config           = runtimeconfig.Config
	SiteConfig       = runtimeconfig.SiteConfig
	ContentConfig    = runtimeconfig.ContentConfig
	MarkdownConfig   = runtimeconfig.MarkdownConfig
	TemplatesConfig  = runtimeconfig.TemplatesConfig
	ThemeConfig      = runtimeconfig.ThemeConfig
	TagsConfig       = runtimeconfig.TagsConfig
	FeedConfig       = runtimeconfig.FeedConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	MenuConfig       = runtimeconfig.MenuConfig
	MenuItemConfig   = runtimeconfig.MenuItemConfig
	EngineConfig     = runtimeconfig.EngineConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	Features         = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
