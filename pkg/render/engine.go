package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-pagebuilder/internal/markup"
	"github.com/goliatone/go-pagebuilder/pkg/interpreter"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/registry"
)

// DefaultMaxDepth bounds slot nesting during one render.
const DefaultMaxDepth = 64

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes render diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAttributeInjector replaces InjectRootAttributes for editor renders.
func WithAttributeInjector(inject AttributeInjector) Option {
	return func(e *Engine) {
		if inject != nil {
			e.inject = inject
		}
	}
}

// WithMaxDepth bounds slot nesting. Deeper components are reported as
// circular references.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// Engine renders page data to markup. It holds no per-render state and is
// safe for concurrent use.
type Engine struct {
	logger   *slog.Logger
	inject   AttributeInjector
	maxDepth int
}

// NewEngine constructs an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		inject:   InjectRootAttributes,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Render renders every top-level component in page order. Each top-level
// component gets its own cycle tracking.
func (e *Engine) Render(ctx context.Context, data model.PageData, opts RenderOptions) (string, error) {
	if opts.Strict {
		if err := model.Validate(data); err != nil {
			return "", &RenderError{Code: CodeParseError, Message: "invalid page data", Err: err}
		}
	}

	p := e.newPass(data, opts)
	var b strings.Builder
	for i, c := range data.Page {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p.reset()
		out, err := p.component(c, model.TopLevelPath(i))
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}

	out := b.String()
	if opts.Minify {
		return Minify(out)
	}
	return out, nil
}

// RenderComponent renders the component at path, including its slot
// children. Editors use it to refresh one component after an edit.
func (e *Engine) RenderComponent(ctx context.Context, data model.PageData, path string, opts RenderOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c, ok := model.ComponentAt(data, path)
	if !ok {
		return "", fmt.Errorf("render: no component at %q", path)
	}
	p := e.newPass(data, opts)
	p.reset()
	out, err := p.component(c, path)
	if err != nil {
		return "", err
	}
	if opts.Minify {
		return Minify(out)
	}
	return out, nil
}

type pass struct {
	engine  *Engine
	opts    RenderOptions
	parts   registry.PartFinder
	images  registry.ImageResolver
	backend map[string]any
	label   string

	processed map[string]struct{}
	ancestors map[*model.Component]struct{}
	depth     int
}

func (e *Engine) newPass(data model.PageData, opts RenderOptions) *pass {
	return &pass{
		engine:  e,
		opts:    opts,
		parts:   registry.NewCatalog(data.Parts),
		images:  registry.NewImages(data.Images, registry.WithLogger(e.logger)),
		backend: data.BackendData,
		label:   opts.addSlotLabel(),
	}
}

func (p *pass) reset() {
	p.processed = make(map[string]struct{})
	p.ancestors = make(map[*model.Component]struct{})
	p.depth = 0
}

// component renders c and, unless the render is strict, turns a failure of
// c into an inline marker so siblings keep rendering.
func (p *pass) component(c *model.Component, path string) (string, error) {
	out, err := p.render(c, path)
	if err == nil {
		return out, nil
	}

	var rerr *RenderError
	if p.opts.Strict || !errors.As(err, &rerr) {
		return "", err
	}
	p.engine.logger.Warn("component render failed",
		"code", rerr.Code, "path", rerr.Path, "part", rerr.PartID, "error", rerr.Err)
	return errorMarker(rerr), nil
}

func (p *pass) render(c *model.Component, path string) (string, error) {
	if c == nil {
		return "", p.fail(CodeParseError, path, "", path, errors.New("nil component"))
	}
	if _, seen := p.processed[path]; seen {
		return "", p.fail(CodeCircularReference, path, c.PartID, path, nil)
	}
	if _, active := p.ancestors[c]; active {
		return "", p.fail(CodeCircularReference, path, c.PartID, path, nil)
	}
	if p.depth >= p.engine.maxDepth {
		return "", p.fail(CodeCircularReference, path, c.PartID, path,
			fmt.Errorf("nesting deeper than %d", p.engine.maxDepth))
	}

	p.processed[path] = struct{}{}
	p.ancestors[c] = struct{}{}
	p.depth++
	defer func() {
		delete(p.ancestors, c)
		p.depth--
	}()

	part, ok := p.parts.FindPart(c.PartID)
	if !ok {
		return "", p.fail(CodePartNotFound, path, c.PartID, c.PartID, nil)
	}

	out, err := interpreter.Interpret(part.Body, c, interpreter.Env{
		Path:         path,
		Backend:      p.backend,
		Images:       p.images,
		Editor:       p.opts.Editor,
		RenderChild:  p.component,
		AddSlotLabel: p.label,
		Logger:       p.engine.logger,
	})
	if err != nil {
		var rerr *RenderError
		if errors.As(err, &rerr) {
			return "", err
		}
		if !errors.Is(err, markup.ErrParse) {
			p.engine.logger.Error("interpretation failed", "path", path, "part", c.PartID, "error", err)
		}
		return "", p.fail(CodeParseError, path, c.PartID, c.PartID, err)
	}

	if !p.opts.Editor {
		return out, nil
	}
	injected, err := p.engine.inject(out, map[string]string{
		AttrComponentID:   c.ID,
		AttrComponentPath: path,
		AttrComponentPart: c.PartID,
	})
	if err != nil {
		return "", p.fail(CodeParseError, path, c.PartID, c.PartID, err)
	}
	return injected, nil
}

func (p *pass) fail(code Code, path, partID, subject string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Path:    path,
		PartID:  partID,
		Message: p.opts.errorMessage(code, subject),
		Err:     cause,
	}
}

func errorMarker(err *RenderError) string {
	return fmt.Sprintf(`<div class="zcode-error-message" data-error-code="%s">%s</div>`,
		html.EscapeString(string(err.Code)), html.EscapeString(err.Message))
}
