// Package pagebuilder renders pages assembled from reusable part templates.
// It re-exports the common entry points so callers can start with a single
// import; the packages under pkg/ expose the full surface.
package pagebuilder

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-pagebuilder/pkg/fields"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/orchestrator"
	"github.com/goliatone/go-pagebuilder/pkg/pagefs"
	"github.com/goliatone/go-pagebuilder/pkg/render"
	"github.com/goliatone/go-pagebuilder/pkg/renderers/document"
)

// PageData aliases model.PageData.
type PageData = model.PageData

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// FieldDescriptor aliases model.FieldDescriptor.
type FieldDescriptor = model.FieldDescriptor

var defaultEngine = render.NewEngine()

// NewEngine constructs a render engine.
func NewEngine(options ...render.Option) *render.Engine {
	return render.NewEngine(options...)
}

// Render renders the public page markup with the default engine.
func Render(ctx context.Context, data PageData, opts RenderOptions) (string, error) {
	opts.Editor = false
	return defaultEngine.Render(ctx, data, opts)
}

// RenderEditor renders the page with editor attributes and empty-slot
// affordances.
func RenderEditor(ctx context.Context, data PageData, opts RenderOptions) (string, error) {
	opts.Editor = true
	return defaultEngine.Render(ctx, data, opts)
}

// ExtractFields lists the editable fields a part template declares.
func ExtractFields(template string) ([]FieldDescriptor, error) {
	return fields.Extract(template)
}

// Load reads a site directory laid out as pagefs expects.
func Load(fsys fs.FS) (PageData, error) {
	return pagefs.LoadFS(fsys)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the site in source and renders it with the named
// renderer ("html" when empty).
func GenerateHTML(ctx context.Context, source fs.FS, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   source,
		Renderer: rendererName,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// StarterFS exposes the embedded starter site.
func StarterFS() fs.FS {
	return pagefs.StarterFS()
}

// AssetsFS exposes the editor runtime and base stylesheet so Go applications
// can serve them.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.FileServerFS(pagebuilder.AssetsFS()),
//	)
func AssetsFS() fs.FS {
	return document.AssetsFS()
}
