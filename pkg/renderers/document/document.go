// Package document renders page data as a complete HTML document: the tier
// stylesheets, optional theme variables and, in editor mode, the editor
// runtime with the page JSON it operates on.
package document

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-pagebuilder/pkg/render/template"
	"github.com/goliatone/go-pagebuilder/pkg/render/template/pongo"
)

const (
	templateName = "templates/page.tmpl"

	defaultStylesheet       = "assets/pagebuilder.css"
	defaultEditorScript     = "assets/pagebuilder-editor.js"
	defaultEditorStylesheet = "assets/pagebuilder-editor.css"

	themeAssetStylesheet       = "pagebuilder.stylesheet"
	themeAssetEditorScript     = "pagebuilder.editor.script"
	themeAssetEditorStylesheet = "pagebuilder.editor.stylesheet"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// TemplatesFS exposes the embedded document template.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the embedded stylesheets and editor script so callers can
// serve them over HTTP.
func AssetsFS() fs.FS {
	return embeddedAssets
}

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	assetsFS         fs.FS
	assetPaths       AssetPaths
	assetURLPrefix   string
	engine           *render.Engine
	title            string
	lang             string
}

// AssetPaths describes the asset paths emitted by the template. Empty fields
// keep their defaults.
type AssetPaths struct {
	Stylesheet       string
	EditorScript     string
	EditorStylesheet string
}

var defaultAssetPaths = AssetPaths{
	Stylesheet:       defaultStylesheet,
	EditorScript:     defaultEditorScript,
	EditorStylesheet: defaultEditorStylesheet,
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAssetsFS overrides the embedded asset bundle.
func WithAssetsFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.assetsFS = files
		}
	}
}

// WithAssetPaths customises the asset paths injected into the document.
func WithAssetPaths(paths AssetPaths) Option {
	return func(cfg *config) {
		if paths.Stylesheet != "" {
			cfg.assetPaths.Stylesheet = paths.Stylesheet
		}
		if paths.EditorScript != "" {
			cfg.assetPaths.EditorScript = paths.EditorScript
		}
		if paths.EditorStylesheet != "" {
			cfg.assetPaths.EditorStylesheet = paths.EditorStylesheet
		}
	}
}

// WithAssetURLPrefix prefixes emitted asset paths (e.g. "/static/pagebuilder").
func WithAssetURLPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.assetURLPrefix = prefix
	}
}

// WithEngine supplies the engine rendering the document body.
func WithEngine(engine *render.Engine) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		cfg.title = title
	}
}

// WithLang sets the html lang attribute. Defaults to the render locale, then
// "en".
func WithLang(lang string) Option {
	return func(cfg *config) {
		cfg.lang = strings.TrimSpace(lang)
	}
}

// Renderer wraps rendered page markup in a full HTML document.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	engine         *render.Engine
	assetPaths     AssetPaths
	assetURLPrefix string
	title          string
	lang           string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a document renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		assetsFS:   AssetsFS(),
		assetPaths: defaultAssetPaths,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templateRenderer
	if templates == nil {
		if err := ensureFile(cfg.templateFS, "template", templateName); err != nil {
			return nil, err
		}
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("document renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	if cfg.assetsFS != nil {
		for _, item := range []struct{ label, path string }{
			{"stylesheet", cfg.assetPaths.Stylesheet},
			{"editor script", cfg.assetPaths.EditorScript},
			{"editor stylesheet", cfg.assetPaths.EditorStylesheet},
		} {
			if err := ensureFile(cfg.assetsFS, item.label, item.path); err != nil {
				return nil, err
			}
		}
	}

	if cfg.engine == nil {
		cfg.engine = render.NewEngine()
	}

	return &Renderer{
		templates:      templates,
		engine:         cfg.engine,
		assetPaths:     cfg.assetPaths,
		assetURLPrefix: cfg.assetURLPrefix,
		title:          cfg.title,
		lang:           cfg.lang,
	}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return "document"
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the complete document.
func (r *Renderer) Render(ctx context.Context, data model.PageData, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("document renderer: template renderer is nil")
	}

	body, err := r.engine.Render(ctx, data, options)
	if err != nil {
		return nil, fmt.Errorf("document renderer: %w", err)
	}

	var pageJSON string
	if options.Editor {
		payload, err := json.Marshal(data.Page)
		if err != nil {
			return nil, fmt.Errorf("document renderer: marshal page: %w", err)
		}
		pageJSON = string(payload)
	}

	urls := r.assetURLs(themeAssetResolver(options.Theme))
	lang := r.lang
	if lang == "" {
		lang = strings.TrimSpace(options.Locale)
	}
	if lang == "" {
		lang = "en"
	}

	rendered, err := r.templates.RenderTemplate(templateName, map[string]any{
		"title":     r.title,
		"lang":      lang,
		"body":      body,
		"css":       cssTiers(data.CSS),
		"editor":    options.Editor,
		"page_json": pageJSON,
		"assets": map[string]any{
			"stylesheet":       urls.Stylesheet,
			"editorScript":     urls.EditorScript,
			"editorStylesheet": urls.EditorStylesheet,
		},
		"theme": buildThemeContext(options.Theme),
	})
	if err != nil {
		return nil, fmt.Errorf("document renderer: render template: %w", err)
	}
	return []byte(rendered), nil
}

// cssTiers lists the non-empty stylesheets in tier order.
func cssTiers(css model.CSSTiers) []any {
	var out []any
	for _, tier := range model.Tiers() {
		var src string
		switch tier {
		case model.TierCommon:
			src = css.Common
		case model.TierIndividual:
			src = css.Individual
		case model.TierSpecial:
			src = css.Special
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		out = append(out, map[string]any{"name": string(tier), "source": src})
	}
	return out
}

func buildThemeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"css_vars_style": cssVarsStyle(cfg.CSSVars),
	}
}

func themeAssetResolver(cfg *theme.RendererConfig) func(string) string {
	if cfg == nil {
		return nil
	}
	return cfg.AssetURL
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func (r *Renderer) assetURLs(resolver func(string) string) AssetPaths {
	out := r.assetPaths
	if resolver != nil {
		if resolved := strings.TrimSpace(resolver(themeAssetStylesheet)); resolved != "" {
			out.Stylesheet = resolved
		}
		if resolved := strings.TrimSpace(resolver(themeAssetEditorScript)); resolved != "" {
			out.EditorScript = resolved
		}
		if resolved := strings.TrimSpace(resolver(themeAssetEditorStylesheet)); resolved != "" {
			out.EditorStylesheet = resolved
		}
	}
	out.Stylesheet = expandAssetURL(r.assetURLPrefix, out.Stylesheet)
	out.EditorScript = expandAssetURL(r.assetURLPrefix, out.EditorScript)
	out.EditorStylesheet = expandAssetURL(r.assetURLPrefix, out.EditorStylesheet)
	return out
}

func expandAssetURL(prefix, name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "http://") ||
		strings.HasPrefix(name, "https://") ||
		strings.HasPrefix(name, "//") ||
		strings.HasPrefix(name, "/") {
		return name
	}
	p := strings.TrimRight(prefix, "/")
	if p == "" {
		return name
	}
	return p + "/" + strings.TrimLeft(name, "/")
}

func ensureFile(store fs.FS, label, name string) error {
	if store == nil {
		return fmt.Errorf("document renderer: %s file system is nil", label)
	}
	if _, err := fs.Stat(store, name); err != nil {
		return fmt.Errorf("document renderer: %s %q not found: %w", label, name, err)
	}
	return nil
}
