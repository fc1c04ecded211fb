package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-pagebuilder/pkg/fields"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/registry"
	"github.com/goliatone/go-pagebuilder/pkg/render"
)

// noneOption lets optional choice fields be cleared.
const noneOption = "(none)"

// Renderer implements render.Renderer as an interactive terminal editor: it
// walks the page, prompts for every editable field and returns the edited
// page instead of markup.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	paths        map[string]struct{}
	infoWriter   io.Writer
	logger       *slog.Logger
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		infoWriter:   os.Stderr,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.infoWriter)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render runs an editing session and serializes the edited page.
func (r *Renderer) Render(ctx context.Context, data model.PageData, _ render.RenderOptions) ([]byte, error) {
	state, err := r.Edit(ctx, data)
	if err != nil {
		return nil, err
	}
	return r.serialize(state.Page())
}

// Edit prompts for every editable field of the selected components and
// returns the session state. Invalid answers are reported and asked again.
func (r *Renderer) Edit(ctx context.Context, data model.PageData) (*State, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	state := NewState(data.Page)
	session := &session{
		renderer: r,
		state:    state,
		catalog:  registry.NewCatalog(data.Parts),
		images:   imageIDs(data.Images),
	}

	err := model.Walk(state.Page(), func(c *model.Component, path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.selected(path) {
			return nil
		}
		return session.component(ctx, c, path)
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug("tui session finished", "changes", len(state.changes))
	return state, nil
}

func (r *Renderer) selected(path string) bool {
	if len(r.paths) == 0 {
		return true
	}
	_, ok := r.paths[path]
	return ok
}

type session struct {
	renderer *Renderer
	state    *State
	catalog  *registry.Catalog
	images   []string
}

func (s *session) component(ctx context.Context, c *model.Component, path string) error {
	r := s.renderer
	part, ok := s.catalog.FindPart(c.PartID)
	if !ok {
		r.logger.Warn("skipping component with unknown part", "path", path, "part", c.PartID)
		return r.warn(ctx, fmt.Sprintf("Skipping %s: unknown part %q", path, c.PartID))
	}
	editable, err := fields.Editable(part, c, fields.WithLogger(r.logger))
	if err != nil {
		return fmt.Errorf("tui: fields of %s: %w", path, err)
	}
	if len(editable) == 0 {
		return nil
	}

	title := part.Title
	if title == "" {
		title = part.ID
	}
	if err := r.info(ctx, fmt.Sprintf("Editing %s (%s)", title, path)); err != nil {
		return err
	}
	for _, field := range editable {
		if err := s.field(ctx, c, path, field); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) field(ctx context.Context, c *model.Component, path string, field fields.EditField) error {
	r := s.renderer
	if field.ReadOnly || field.Disabled {
		return r.info(ctx, fmt.Sprintf("%s: %s (read-only)", field.Label, field.Current.Text()))
	}
	for {
		value, err := s.ask(ctx, c, field)
		if errors.Is(err, ErrNoOptions) {
			return r.warn(ctx, fmt.Sprintf("Skipping %s.%s: no options", path, field.Name))
		}
		if err != nil {
			return err
		}

		before, _ := c.Get(field.Name)
		if err := fields.Assign(c, field.FieldDescriptor, value); err != nil {
			if infoErr := r.warn(ctx, fmt.Sprintf("Invalid %s.%s: %v", path, field.Name, err)); infoErr != nil {
				return infoErr
			}
			continue
		}
		after, _ := c.Get(field.Name)
		s.state.record(path, field.Name, before, after)
		return nil
	}
}

func (s *session) ask(ctx context.Context, c *model.Component, field fields.EditField) (model.Value, error) {
	r := s.renderer
	help := fmt.Sprintf("%s (%s)", field.Name, field.Type)
	current := field.Current

	switch field.Type {
	case model.FieldBoolean:
		def, ok := current.BoolValue()
		if !ok {
			def = !field.Optional
		}
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: field.Label, Default: def, Help: help})
		if err != nil {
			return model.Value{}, err
		}
		return model.Bool(answer), nil

	case model.FieldTextarea, model.FieldRich:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{Message: field.Label, Default: current.Text(), Help: help})
		if err != nil {
			return model.Value{}, err
		}
		return model.String(answer), nil

	case model.FieldImage:
		if len(s.images) == 0 {
			return s.input(ctx, c, field, help)
		}
		return s.choose(ctx, field, s.images, help)

	case model.FieldRadio, model.FieldSelect, model.FieldTag:
		return s.choose(ctx, field, field.Options, help)

	case model.FieldCheckbox, model.FieldSelectMultiple:
		if len(field.Options) == 0 {
			return model.Value{}, ErrNoOptions
		}
		selected, _ := current.Strings()
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  field.Label,
			Options:  field.Options,
			Defaults: indicesOf(field.Options, selected),
			Help:     help,
		})
		if err != nil {
			return model.Value{}, err
		}
		return model.List(defaultsFromIndices(field.Options, indices)...), nil

	default:
		return s.input(ctx, c, field, help)
	}
}

func (s *session) input(ctx context.Context, c *model.Component, field fields.EditField, help string) (model.Value, error) {
	answer, err := s.renderer.driver.Input(ctx, InputConfig{
		Message: field.Label,
		Default: current(field),
		Help:    help,
		Validator: func(v string) error {
			return fields.Assign(c.Clone(), field.FieldDescriptor, model.String(v))
		},
	})
	if err != nil {
		return model.Value{}, err
	}
	return model.String(answer), nil
}

func (s *session) choose(ctx context.Context, field fields.EditField, options []string, help string) (model.Value, error) {
	if len(options) == 0 {
		return model.Value{}, ErrNoOptions
	}
	offered := options
	if field.Optional {
		offered = append([]string{noneOption}, options...)
	}
	def := indexOf(offered, current(field))
	if def < 0 {
		def = 0
	}
	idx, err := s.renderer.driver.Select(ctx, SelectConfig{
		Message:      field.Label,
		Options:      offered,
		DefaultIndex: def,
		Help:         help,
	})
	if err != nil {
		return model.Value{}, err
	}
	if idx < 0 || idx >= len(offered) {
		return model.Value{}, fmt.Errorf("tui: selection %d out of range for %s", idx, field.Name)
	}
	if field.Optional && idx == 0 {
		return model.String(""), nil
	}
	return model.String(offered[idx]), nil
}

func current(field fields.EditField) string {
	if field.Current.IsSet() {
		return field.Current.Text()
	}
	return ""
}

func imageIDs(tiers model.ImageTiers) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tier := range model.Tiers() {
		for _, entry := range tiers.Tier(tier) {
			if entry.ID == "" {
				continue
			}
			if _, ok := seen[entry.ID]; ok {
				continue
			}
			seen[entry.ID] = struct{}{}
			out = append(out, entry.ID)
		}
	}
	return out
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) warn(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func (r *Renderer) serialize(page []*model.Component) ([]byte, error) {
	if page == nil {
		page = []*model.Component{}
	}
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(page)), nil
	}
	out, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode page: %w", err)
	}
	return out, nil
}

// prettyPrint lists every component path with its part and set fields.
func prettyPrint(page []*model.Component) string {
	var b strings.Builder
	_ = model.Walk(page, func(c *model.Component, path string) error {
		fmt.Fprintf(&b, "%s %s\n", path, c.PartID)
		for _, name := range c.FieldNames() {
			v, _ := c.Get(name)
			fmt.Fprintf(&b, "  %s: %s\n", name, prettyValue(v))
		}
		return nil
	})
	return b.String()
}

func prettyValue(v model.Value) string {
	switch v.Kind() {
	case model.KindBool:
		b, _ := v.BoolValue()
		return fmt.Sprintf("%t", b)
	case model.KindList:
		items, _ := v.Strings()
		return "[" + strings.Join(items, ", ") + "]"
	case model.KindRaw:
		raw, _ := json.Marshal(v)
		return string(raw)
	default:
		return v.Text()
	}
}
