// Package registry provides read-only lookups over the tiered part and image
// catalogs. Lookups walk the common, individual and special tiers in that
// order and the first match wins. Catalogs are immutable once built and safe
// for concurrent use.
package registry

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-pagebuilder/pkg/model"
)

// PartFinder resolves a part id to its definition.
type PartFinder interface {
	FindPart(id string) (model.Part, bool)
}

// ImageResolver maps an image id to a URL.
type ImageResolver interface {
	Resolve(id, defaultID string) string
}

// PartRef locates a part inside the catalog.
type PartRef struct {
	Part model.Part
	Type model.Type
	Tier model.Tier
}

// Catalog indexes parts by id.
type Catalog struct {
	tiers model.PartTiers
	index map[string]PartRef
	order []string
}

// NewCatalog indexes tiers. Earlier tiers shadow later ones; within a tier
// the first declaration of an id wins.
func NewCatalog(tiers model.PartTiers) *Catalog {
	c := &Catalog{tiers: tiers, index: make(map[string]PartRef)}
	for _, tier := range model.Tiers() {
		for _, typ := range tiers.Tier(tier) {
			for _, part := range typ.Parts {
				if _, exists := c.index[part.ID]; exists {
					continue
				}
				c.index[part.ID] = PartRef{Part: part, Type: typ, Tier: tier}
				c.order = append(c.order, part.ID)
			}
		}
	}
	return c
}

// FindPart returns the part registered under id.
func (c *Catalog) FindPart(id string) (model.Part, bool) {
	if c == nil {
		return model.Part{}, false
	}
	ref, ok := c.index[id]
	return ref.Part, ok
}

// Locate returns the part together with its type and tier.
func (c *Catalog) Locate(id string) (PartRef, bool) {
	if c == nil {
		return PartRef{}, false
	}
	ref, ok := c.index[id]
	return ref, ok
}

// Parts lists every reachable part in precedence order. Slot-only parts are
// skipped unless includeSlotOnly is set.
func (c *Catalog) Parts(includeSlotOnly bool) []PartRef {
	out := make([]PartRef, 0, len(c.order))
	for _, id := range c.order {
		ref := c.index[id]
		if ref.Part.SlotOnly && !includeSlotOnly {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// Tiers returns the catalog source.
func (c *Catalog) Tiers() model.PartTiers {
	return c.tiers
}

// ImageOption configures an Images registry.
type ImageOption func(*Images)

// WithLogger routes diagnostics to logger.
func WithLogger(logger *slog.Logger) ImageOption {
	return func(i *Images) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Images indexes image entries by id.
type Images struct {
	index  map[string]model.ImageEntry
	logger *slog.Logger
}

// NewImages indexes tiers with the same precedence as parts.
func NewImages(tiers model.ImageTiers, opts ...ImageOption) *Images {
	i := &Images{
		index:  make(map[string]model.ImageEntry),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	for _, tier := range model.Tiers() {
		for _, entry := range tiers.Tier(tier) {
			if _, exists := i.index[entry.ID]; !exists {
				i.index[entry.ID] = entry
			}
		}
	}
	return i
}

// Find returns the entry registered under id.
func (i *Images) Find(id string) (model.ImageEntry, bool) {
	if i == nil || id == "" {
		return model.ImageEntry{}, false
	}
	entry, ok := i.index[id]
	return entry, ok
}

// Resolve returns the URL for id, falling back to defaultID, then to the
// empty string.
func (i *Images) Resolve(id, defaultID string) string {
	if entry, ok := i.Find(id); ok {
		return entry.URL
	}
	if entry, ok := i.Find(defaultID); ok {
		i.logger.Warn("image not found, using default", "id", id, "default", defaultID)
		return entry.URL
	}
	if i != nil && (id != "" || defaultID != "") {
		i.logger.Warn("image not found", "id", id, "default", defaultID)
	}
	return ""
}
