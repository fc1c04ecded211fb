// Package fields derives editable field descriptors from part templates and
// synthesizes their default values. Extraction walks the parsed template in
// document order and keeps the first declaration of every field name.
package fields

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-pagebuilder/internal/markup"
	"github.com/goliatone/go-pagebuilder/pkg/dsl"
	"github.com/goliatone/go-pagebuilder/pkg/model"
)

// Option configures extraction.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger routes extraction diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}

// Extract returns the field descriptors declared by template in first
// occurrence order.
func Extract(template string, opts ...Option) ([]model.FieldDescriptor, error) {
	cfg := newConfig(opts)
	frag, err := markup.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}

	x := &extractor{cfg: cfg, seen: make(map[string]struct{})}
	for c := frag.Root.FirstChild; c != nil; c = c.NextSibling {
		markup.Walk(c, x.visit)
	}
	return x.out, nil
}

// MustExtract is like Extract but panics on error. Intended for fixtures.
func MustExtract(template string, opts ...Option) []model.FieldDescriptor {
	out, err := Extract(template, opts...)
	if err != nil {
		panic(err)
	}
	return out
}

type extractor struct {
	cfg  *config
	seen map[string]struct{}
	out  []model.FieldDescriptor
}

func (x *extractor) add(d model.FieldDescriptor) {
	if d.Name == "" {
		return
	}
	if _, ok := x.seen[d.Name]; ok {
		return
	}
	x.seen[d.Name] = struct{}{}
	x.out = append(x.out, d)
}

func (x *extractor) visit(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		x.scan(n.Data)
	case html.ElementNode:
		if name, ok := markup.Attr(n, dsl.AttrIf); ok {
			x.add(model.FieldDescriptor{Name: strings.TrimSpace(name), Type: model.FieldBoolean, Default: "true"})
		}
		if raw, ok := markup.Attr(n, dsl.AttrTag); ok {
			x.tag(n, raw)
		}
		for _, a := range n.Attr {
			x.scan(a.Val)
		}
	}
	return true
}

func (x *extractor) scan(s string) {
	if !strings.ContainsAny(s, "{(") {
		return
	}
	for _, tok := range dsl.Scan(s) {
		if tok.Kind == dsl.KindField || tok.Kind == dsl.KindSelection {
			x.add(tok.Field.Descriptor())
		}
	}
}

func (x *extractor) tag(n *html.Node, raw string) {
	directive, ok := dsl.ParseTag(raw)
	if !ok {
		x.cfg.logger.Warn("malformed z-tag directive", "value", raw)
		return
	}
	def := n.Data
	if len(directive.Options) > 0 && !contains(directive.Options, def) {
		x.cfg.logger.Warn("z-tag element is not among its declared options",
			"field", directive.Field, "tag", def, "fallback", directive.Options[0])
		def = directive.Options[0]
	}
	x.add(model.FieldDescriptor{
		Name:    directive.Field,
		Type:    model.FieldTag,
		Default: def,
		Options: directive.Options,
	})
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
