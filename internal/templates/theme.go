package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// ThemeConfig selects a go-theme manifest for rendering.
type ThemeConfig struct {
	// Path is the directory containing the theme manifest. Empty disables
	// theming entirely.
	Path string
	// Name overrides the manifest name when the two disagree.
	Name string
	// Variant picks a manifest variant, when the theme defines any.
	Variant string
	// CSSVariablePrefix namespaces generated CSS custom properties.
	CSSVariablePrefix string
	// PartialFallbacks maps partial slots to fallback template names.
	PartialFallbacks map[string]string
}

// ThemeContext surfaces go-theme selection data to templates.
type ThemeContext struct {
	Name      string
	Variant   string
	Tokens    map[string]string
	CSSVars   map[string]string
	Partials  map[string]string
	AssetURL  func(string) string
	Template  func(string, string) string
	Selection *gotheme.Selection
}

type themeManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsThemeManifestLoader struct{}

func (fsThemeManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("theme path required")
	}

	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

func loadTheme(cfg ThemeConfig) (*ThemeContext, error) {
	return loadThemeWith(cfg, fsThemeManifestLoader{})
}

func loadThemeWith(cfg ThemeConfig, loader themeManifestLoader) (*ThemeContext, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, nil
	}

	manifest, err := loader.Load(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("templates: load theme manifest from %s: %w", cfg.Path, err)
	}

	normalized := *manifest
	if name := strings.TrimSpace(cfg.Name); name != "" && !strings.EqualFold(normalized.Name, name) {
		normalized.Name = name
	}
	if strings.TrimSpace(normalized.Name) == "" {
		return nil, fmt.Errorf("templates: theme name required for manifest registration")
	}

	registry := gotheme.NewRegistry()
	if err := registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("templates: register theme manifest: %w", err)
	}

	selector := gotheme.Selector{
		Registry:       registry,
		DefaultTheme:   normalized.Name,
		DefaultVariant: strings.TrimSpace(cfg.Variant),
	}

	selection, err := selector.Select(normalized.Name, strings.TrimSpace(cfg.Variant))
	if err != nil {
		return nil, fmt.Errorf("templates: select theme %s: %w", normalized.Name, err)
	}

	ctx := buildThemeContext(selection, cfg)
	return &ctx, nil
}

func buildThemeContext(selection *gotheme.Selection, cfg ThemeConfig) ThemeContext {
	empty := ThemeContext{
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
		AssetURL: func(string) string { return "" },
		Template: func(_ string, fallback string) string { return fallback },
	}
	if selection == nil {
		return empty
	}

	return ThemeContext{
		Name:      selection.Theme,
		Variant:   selection.Variant,
		Tokens:    selection.Tokens(),
		CSSVars:   selection.CSSVariables(cfg.CSSVariablePrefix),
		Partials:  selection.Partials(cfg.PartialFallbacks),
		AssetURL:  func(key string) string { url, _ := selection.Asset(key); return url },
		Template:  selection.Template,
		Selection: selection,
	}
}

// Assets lists the manifest asset files for the active variant, relative to
// the theme directory, sorted for deterministic copying into build output.
func (tc *ThemeContext) Assets() []string {
	if tc == nil || tc.Selection == nil || tc.Selection.Manifest == nil {
		return nil
	}

	selection := tc.Selection
	assets := selection.Manifest.Assets.Files
	if variant := strings.TrimSpace(selection.Variant); variant != "" {
		if v, ok := selection.Manifest.Variants[variant]; ok && len(v.Assets.Files) > 0 {
			merged := make(map[string]string, len(assets)+len(v.Assets.Files))
			for key, file := range assets {
				merged[key] = file
			}
			for key, file := range v.Assets.Files {
				merged[key] = file
			}
			assets = merged
		}
	}

	seen := map[string]struct{}{}
	var out []string
	for _, asset := range assets {
		asset = strings.TrimPrefix(strings.TrimSpace(asset), "/")
		if asset == "" {
			continue
		}
		if _, ok := seen[asset]; ok {
			continue
		}
		seen[asset] = struct{}{}
		out = append(out, filepath.ToSlash(asset))
	}
	sort.Strings(out)
	return out
}
