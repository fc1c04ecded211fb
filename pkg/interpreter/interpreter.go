// Package interpreter turns a part template and one component into markup.
//
// Interpretation parses the template once and applies an ordered list of
// rewrite phases to the tree: field and backend interpolation, selection
// tokens, z-if, z-tag, z-empty, z-for and finally z-slot. Each phase assumes
// the earlier ones already ran. The component is never modified.
package interpreter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/goliatone/go-pagebuilder/internal/markup"
	"github.com/goliatone/go-pagebuilder/pkg/dsl"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/registry"
)

// ErrNilComponent is returned when Interpret is called without a component.
var ErrNilComponent = errors.New("interpreter: component is required")

// DefaultAddSlotLabel labels the editor affordance placed in empty slots.
const DefaultAddSlotLabel = "+ Add Part"

// ChildRenderer renders a slot child at path and returns its markup.
type ChildRenderer func(child *model.Component, path string) (string, error)

// Env carries everything interpretation needs besides the template and the
// component.
type Env struct {
	// Path is the structural path of the component, e.g. page.0.slots.items.1.
	Path string
	// Backend is the read-only data referenced by {@path} and z-for.
	Backend map[string]any
	// Images resolves image field values to URLs.
	Images registry.ImageResolver
	// Editor skips rich-text sanitization and renders empty-slot affordances.
	Editor bool
	// RenderChild renders slot children. Slots stay empty when it is nil.
	RenderChild ChildRenderer
	// AddSlotLabel overrides DefaultAddSlotLabel.
	AddSlotLabel string
	Logger       *slog.Logger
}

type phase struct {
	name string
	run  func(s *state, root *html.Node) error
}

// loopBody lists the phases re-run inside every z-for iteration. It must not
// reference loops.
var loopBody = []phase{
	{name: "interpolate", run: (*state).interpolate},
	{name: "selection", run: (*state).selections},
	{name: "z-if", run: (*state).conditionals},
	{name: "z-tag", run: (*state).tags},
	{name: "z-empty", run: (*state).empties},
}

// phases is assigned in init: loops refers to loopBody, so a package-level
// initializer naming loops would form an initialization cycle.
var phases []phase

func init() {
	phases = make([]phase, 0, len(loopBody)+2)
	phases = append(phases, loopBody...)
	phases = append(phases,
		phase{name: "z-for", run: (*state).loops},
		phase{name: "z-slot", run: (*state).slots},
	)
}

// Phases returns the phase names in execution order.
func Phases() []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.name
	}
	return names
}

// Interpret renders template against c.
func Interpret(template string, c *model.Component, env Env) (string, error) {
	if c == nil {
		return "", ErrNilComponent
	}
	frag, err := markup.Parse(template)
	if err != nil {
		return "", fmt.Errorf("interpreter: %w", err)
	}
	s := newState(c, env)
	if err := s.run(frag.Root, phases); err != nil {
		return "", err
	}
	return frag.Render()
}

type pendingAttr struct {
	el       *html.Node
	key      string
	url      bool
	segments []segment
}

type segment struct {
	text  string
	token *dsl.Token
}

type state struct {
	c      *model.Component
	env    Env
	logger *slog.Logger

	// generated holds the roots of subtrees produced from field values. No
	// phase looks inside them.
	generated map[*html.Node]struct{}
	// pending holds attribute values whose selection tokens wait for the
	// selection phase.
	pending []pendingAttr
	// loopVar names the item of the z-for body being interpreted.
	loopVar string
}

func newState(c *model.Component, env Env) *state {
	logger := env.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if env.AddSlotLabel == "" {
		env.AddSlotLabel = DefaultAddSlotLabel
	}
	return &state{
		c:         c,
		env:       env,
		logger:    logger.With("component", c.ID, "path", env.Path),
		generated: make(map[*html.Node]struct{}),
	}
}

func (s *state) run(root *html.Node, list []phase) error {
	for _, p := range list {
		if err := p.run(s, root); err != nil {
			return fmt.Errorf("interpreter: %s: %w", p.name, err)
		}
	}
	return nil
}

func (s *state) mark(nodes ...*html.Node) []*html.Node {
	for _, n := range nodes {
		s.generated[n] = struct{}{}
	}
	return nodes
}

// collect snapshots the nodes under root in document order. Generated
// subtrees are always skipped; z-for subtrees are skipped when skipLoops is
// set.
func (s *state) collect(root *html.Node, skipLoops bool) []*html.Node {
	var out []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		markup.Walk(c, func(n *html.Node) bool {
			if _, ok := s.generated[n]; ok {
				return false
			}
			if skipLoops && isLoop(n) {
				return false
			}
			out = append(out, n)
			return true
		})
	}
	return out
}

// elementsWith returns the collected elements carrying key.
func (s *state) elementsWith(root *html.Node, key string, skipLoops bool) []*html.Node {
	var out []*html.Node
	for _, n := range s.collect(root, skipLoops) {
		if _, ok := markup.Attr(n, key); ok && n.Type == html.ElementNode {
			out = append(out, n)
		}
	}
	return out
}

func isLoop(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	raw, ok := markup.Attr(n, dsl.AttrFor)
	if !ok {
		return false
	}
	_, ok = dsl.ParseLoop(raw)
	return ok
}
