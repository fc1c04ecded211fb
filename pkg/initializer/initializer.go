// Package initializer creates components with default field values and
// repairs existing pages whose components miss required fields.
package initializer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/pkg/fields"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/registry"
)

// ErrUnknownPart is returned when a part id is not present in the catalog.
var ErrUnknownPart = errors.New("initializer: unknown part")

// Option configures an Initializer.
type Option func(*Initializer)

// WithIDGenerator replaces the uuid based component id generator.
func WithIDGenerator(fn func() string) Option {
	return func(in *Initializer) {
		if fn != nil {
			in.newID = fn
		}
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Initializer) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// Initializer builds components against one part catalog.
type Initializer struct {
	catalog *registry.Catalog
	newID   func() string
	logger  *slog.Logger
}

// New returns an Initializer for catalog.
func New(catalog *registry.Catalog, opts ...Option) *Initializer {
	in := &Initializer{
		catalog: catalog,
		newID:   uuid.NewString,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}
	return in
}

// NewComponent creates a component of partID with every non-optional field
// set to its default. Slots declared by the part are created empty, except a
// slot allowing exactly one part, which receives one child of that part. A
// part met again while materializing its own slots is created without slots.
func (in *Initializer) NewComponent(partID string) (*model.Component, error) {
	return in.create(partID, make(map[string]struct{}))
}

func (in *Initializer) create(partID string, processed map[string]struct{}) (*model.Component, error) {
	part, ok := in.catalog.FindPart(partID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPart, partID)
	}
	descriptors, err := fields.Extract(part.Body, fields.WithLogger(in.logger))
	if err != nil {
		return nil, fmt.Errorf("initializer: part %q: %w", partID, err)
	}

	c := &model.Component{ID: in.newID(), PartID: part.ID}
	fields.Backfill(c, descriptors)

	if _, seen := processed[part.ID]; seen || len(part.Slots) == 0 {
		return c, nil
	}
	processed[part.ID] = struct{}{}

	c.Slots = make(map[string]model.Slot, len(part.Slots))
	for _, name := range slotNames(part.Slots) {
		allowed := part.Slots[name].AllowedParts
		if len(allowed) != 1 {
			c.Slots[name] = model.Slot{}
			continue
		}
		if _, ok := in.catalog.FindPart(allowed[0]); !ok {
			in.logger.Warn("slot allows an unknown part", "part", part.ID, "slot", name, "allowed", allowed[0])
			c.Slots[name] = model.Slot{}
			continue
		}
		child, err := in.create(allowed[0], processed)
		if err != nil {
			return nil, err
		}
		c.Slots[name] = model.Slot{child}
	}
	return c, nil
}

// Filled reports the fields Backfill wrote on one component.
type Filled struct {
	Path   string
	Fields []string
}

// Backfill walks page and writes defaults for required fields that are
// missing. Set values are never replaced. Components whose part is unknown
// are skipped.
func (in *Initializer) Backfill(page []*model.Component) ([]Filled, error) {
	cache := make(map[string][]model.FieldDescriptor)
	var out []Filled

	err := model.Walk(page, func(c *model.Component, path string) error {
		descriptors, ok := cache[c.PartID]
		if !ok {
			part, found := in.catalog.FindPart(c.PartID)
			if !found {
				in.logger.Warn("skipping component with unknown part", "path", path, "part", c.PartID)
				cache[c.PartID] = nil
				return nil
			}
			var err error
			descriptors, err = fields.Extract(part.Body, fields.WithLogger(in.logger))
			if err != nil {
				return fmt.Errorf("initializer: part %q: %w", c.PartID, err)
			}
			cache[c.PartID] = descriptors
		}
		if names := fields.Backfill(c, descriptors); len(names) > 0 {
			out = append(out, Filled{Path: path, Fields: names})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Duplicate deep-copies c and gives the copy and every descendant a new id.
func (in *Initializer) Duplicate(c *model.Component) *model.Component {
	if c == nil {
		return nil
	}
	dup := c.Clone()
	in.renew(dup)
	return dup
}

func (in *Initializer) renew(c *model.Component) {
	c.ID = in.newID()
	for _, slot := range c.Slots {
		for _, child := range slot {
			if child != nil {
				in.renew(child)
			}
		}
	}
}

// AllowedParts lists the parts that may be placed in slot of parentPartID.
// An empty parentPartID asks for the top level of the page, which never
// offers slot-only parts. A slot without an allow list accepts every part.
func (in *Initializer) AllowedParts(parentPartID, slot string) ([]registry.PartRef, error) {
	if parentPartID == "" {
		return in.catalog.Parts(false), nil
	}
	parent, ok := in.catalog.FindPart(parentPartID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPart, parentPartID)
	}
	cfg, ok := parent.Slots[slot]
	if !ok || len(cfg.AllowedParts) == 0 {
		return in.catalog.Parts(true), nil
	}

	out := make([]registry.PartRef, 0, len(cfg.AllowedParts))
	for _, id := range cfg.AllowedParts {
		ref, ok := in.catalog.Locate(id)
		if !ok {
			in.logger.Warn("slot allows an unknown part", "part", parentPartID, "slot", slot, "allowed", id)
			continue
		}
		out = append(out, ref)
	}
	return out, nil
}

func slotNames(slots map[string]model.SlotConfig) []string {
	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
