// Package html renders page data to an HTML fragment: the concatenated markup
// of the top-level components, ready to embed in a host page.
package html

import (
	"context"
	"fmt"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/render"
)

// Option configures the fragment renderer.
type Option func(*config)

type config struct {
	engine *render.Engine
}

// WithEngine supplies a configured render engine.
func WithEngine(engine *render.Engine) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// Renderer produces HTML fragments.
type Renderer struct {
	engine *render.Engine
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the fragment renderer applying any provided options.
func New(options ...Option) *Renderer {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.engine == nil {
		cfg.engine = render.NewEngine()
	}
	return &Renderer{engine: cfg.engine}
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, data model.PageData, options render.RenderOptions) ([]byte, error) {
	out, err := r.engine.Render(ctx, data, options)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	return []byte(out), nil
}
