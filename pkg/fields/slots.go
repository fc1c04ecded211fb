package fields

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-pagebuilder/internal/markup"
	"github.com/goliatone/go-pagebuilder/pkg/dsl"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/registry"
)

// ExtractSlots returns the slot names declared by z-slot attributes in
// document order. An empty z-slot names the default slot.
func ExtractSlots(template string) ([]string, error) {
	frag, err := markup.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	seen := make(map[string]struct{})
	var out []string
	for _, el := range markup.Elements(frag.Root, markup.WithAttr(dsl.AttrSlot)) {
		name, _ := markup.Attr(el, dsl.AttrSlot)
		name = strings.TrimSpace(name)
		if name == "" {
			name = dsl.DefaultSlot
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

// ImageRef records an image field value used by a component.
type ImageRef struct {
	Path    string `json:"path"`
	Field   string `json:"field"`
	ImageID string `json:"imageId"`
}

// ImageReferences lists every image id referenced by image fields across the
// page. Components whose part cannot be found are skipped.
func ImageReferences(page []*model.Component, parts registry.PartFinder, opts ...Option) ([]ImageRef, error) {
	cache := make(map[string][]model.FieldDescriptor)
	var refs []ImageRef
	err := model.Walk(page, func(c *model.Component, path string) error {
		part, ok := parts.FindPart(c.PartID)
		if !ok {
			return nil
		}
		descriptors, ok := cache[part.ID]
		if !ok {
			var err error
			descriptors, err = Extract(part.Body, opts...)
			if err != nil {
				return fmt.Errorf("fields: part %q: %w", part.ID, err)
			}
			cache[part.ID] = descriptors
		}
		for _, d := range descriptors {
			if d.Type != model.FieldImage {
				continue
			}
			v, ok := c.Get(d.Name)
			if !ok {
				continue
			}
			if id, ok := v.Str(); ok && id != "" {
				refs = append(refs, ImageRef{Path: path, Field: d.Name, ImageID: id})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}
