package sitegen

import (
	sitecmd "github.com/goliatone/go-sitegen/internal/commands/site"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/engine"
	"github.com/goliatone/go-sitegen/internal/navigation"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// EngineService exports the build engine contract for consumers of the
// sitegen package.
type EngineService = engine.Service

// BuildOptions exports the per-run build flags.
type BuildOptions = engine.BuildOptions

// BuildResult exports the build report returned by every run.
type BuildResult = engine.BuildResult

// CompiledProduct exports one published artifact record.
type CompiledProduct = engine.CompiledProduct

// ProductDiagnostic exports the per-product diagnostics entry.
type ProductDiagnostic = engine.ProductDiagnostic

// ContentSource exports the content discovery contract.
type ContentSource = engine.ContentSource

// AssetSource exports the theme asset discovery contract.
type AssetSource = engine.AssetSource

// BuildSiteCommand exports the build command message.
type BuildSiteCommand = sitecmd.BuildSiteCommand

// CleanSiteCommand exports the clean command message.
type CleanSiteCommand = sitecmd.CleanSiteCommand

// ResultEnvelope exports the command result callback payload.
type ResultEnvelope = sitecmd.ResultEnvelope

// BuildSiteHandler exports the command handler driving builds.
type BuildSiteHandler = sitecmd.BuildSiteHandler

// CleanSiteHandler exports the command handler clearing output.
type CleanSiteHandler = sitecmd.CleanSiteHandler

// MenuNode exports a resolved navigation entry.
type MenuNode = navigation.Node

// Module represents the top level site generation runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Engine returns the configured build engine service.
func (m *Module) Engine() EngineService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.EngineService()
}

// BuildHandler returns the command handler for site builds.
func (m *Module) BuildHandler() *BuildSiteHandler {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.BuildHandler()
}

// CleanHandler returns the command handler for output cleanup.
func (m *Module) CleanHandler() *CleanSiteHandler {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.CleanHandler()
}

// Renderer returns the configured template renderer.
func (m *Module) Renderer() interfaces.TemplateRenderer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.TemplateRenderer()
}

// Parser returns the configured markdown parser.
func (m *Module) Parser() interfaces.DocumentParser {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.DocumentParser()
}

// Source returns the configured content source.
func (m *Module) Source() ContentSource {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ContentSource()
}

// Menus returns the resolved navigation trees, keyed by menu name.
func (m *Module) Menus() map[string][]MenuNode {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Menus()
}

// Logger returns the configured logger provider, nil when logging is off.
func (m *Module) Logger() interfaces.LoggerProvider {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LoggerProvider()
}
