package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-pagebuilder/pkg/initializer"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/pagefs"
	"github.com/goliatone/go-pagebuilder/pkg/registry"
	"github.com/goliatone/go-pagebuilder/pkg/render"
	"github.com/goliatone/go-pagebuilder/pkg/renderers/html"
)

const defaultRendererName = "html"

// Loader reads page data from a site file system.
type Loader func(fsys fs.FS) (model.PageData, error)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader replaces the site loader. Defaults to pagefs.LoadFS.
func WithLoader(loader Loader) Option {
	return func(o *Orchestrator) {
		if loader != nil {
			o.loader = loader
		}
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that runs after backfill and before
// rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithBackfill writes defaults for missing required fields before rendering.
func WithBackfill(enabled bool) Option {
	return func(o *Orchestrator) {
		o.backfill = enabled
	}
}

// WithThemeSelector resolves Request.ThemeName/ThemeVariant into the
// renderer's theme configuration.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks sets partials used when the selected theme does not
// declare them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithLogger routes pipeline diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from site files to rendered output.
// Missing dependencies fall back to the built-in implementations.
type Orchestrator struct {
	loader          Loader
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	backfill        bool
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	logger          *slog.Logger
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		loader:          pagefs.LoadFS,
		defaultRenderer: defaultRendererName,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		o.registry.MustRegister(html.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	return o
}

// Request describes one render.
type Request struct {
	// Source is a site directory laid out as pagefs expects. Optional when
	// Data is supplied.
	Source fs.FS

	// Data bypasses the loader. It is never mutated.
	Data *model.PageData

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant are passed to the theme selector.
	ThemeName    string
	ThemeVariant string

	RenderOptions render.RenderOptions
}

// Generate loads, prepares and renders the page described by req.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := o.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Prepare loads the page data and applies backfill and the transformer
// without rendering.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (model.PageData, error) {
	data, err := o.resolveData(req)
	if err != nil {
		return model.PageData{}, err
	}

	if o.backfill {
		filled, err := initializer.New(registry.NewCatalog(data.Parts), initializer.WithLogger(o.logger)).Backfill(data.Page)
		if err != nil {
			return model.PageData{}, fmt.Errorf("orchestrator: backfill: %w", err)
		}
		for _, f := range filled {
			o.logger.Debug("backfilled fields", "path", f.Path, "fields", f.Fields)
		}
	}

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &data); err != nil {
			return model.PageData{}, fmt.Errorf("orchestrator: transform page: %w", err)
		}
	}
	return data, nil
}

func (o *Orchestrator) resolveData(req Request) (model.PageData, error) {
	if req.Data != nil {
		data := *req.Data
		data.Page = make([]*model.Component, len(req.Data.Page))
		for i, c := range req.Data.Page {
			data.Page[i] = c.Clone()
		}
		return data, nil
	}
	if req.Source == nil {
		return model.PageData{}, errors.New("orchestrator: source or data is required")
	}
	data, err := o.loader(req.Source)
	if err != nil {
		return model.PageData{}, fmt.Errorf("orchestrator: load site: %w", err)
	}
	return data, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}
