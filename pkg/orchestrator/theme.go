package orchestrator

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// defaultThemeFallbacks names the document partials every theme inherits.
func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		"pagebuilder.document": "templates/page.tmpl",
	}
}

func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig flattens a selection: variant tokens, templates and asset
// files override the base manifest, and fallbacks fill missing partials.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
	}
	for key, value := range defaultThemeFallbacks() {
		cfg.Partials[key] = value
	}
	for key, value := range fallbacks {
		cfg.Partials[key] = value
	}

	manifest := selection.Manifest
	if manifest == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}

	variant, hasVariant := manifest.Variants[selection.Variant]
	mergeInto(cfg.Tokens, manifest.Tokens)
	mergeInto(cfg.Partials, manifest.Templates)
	if hasVariant {
		mergeInto(cfg.Tokens, variant.Tokens)
		mergeInto(cfg.Partials, variant.Templates)
	}
	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}

	base := manifest.Assets
	cfg.AssetURL = func(key string) string {
		if hasVariant {
			if file, ok := variant.Assets.Files[key]; ok {
				prefix := variant.Assets.Prefix
				if prefix == "" {
					prefix = base.Prefix
				}
				return joinAsset(prefix, file)
			}
		}
		if file, ok := base.Files[key]; ok {
			return joinAsset(base.Prefix, file)
		}
		return ""
	}
	return cfg
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

func joinAsset(prefix, file string) string {
	if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
		return file
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
}

// ManifestSelector serves selections from a fixed set of manifests.
type ManifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector indexes manifests by name. Empty names in Select fall
// back to defaultTheme and defaultVariant.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, m := range manifests {
		if m == nil || m.Name == "" {
			return nil, fmt.Errorf("orchestrator: theme manifest without name")
		}
		if _, exists := s.manifests[m.Name]; exists {
			return nil, fmt.Errorf("orchestrator: theme %q registered twice", m.Name)
		}
		s.manifests[m.Name] = m
	}
	return s, nil
}

// Select returns the named theme and variant.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
		if variant == "" {
			variant = s.defaultVariant
		}
	}
	if name == "" {
		return nil, nil
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
