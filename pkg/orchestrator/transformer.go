package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/pagefs"
)

// Transformer mutates page data before it is rendered. Implementations can
// patch field values, swap backend data or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, data *model.PageData) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, data *model.PageData) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, data *model.PageData) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, data)
}

// Chain runs transformers in order, stopping at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, data *model.PageData) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, data); err != nil {
				return err
			}
		}
		return nil
	})
}

// PresetTransformer applies declarative field overrides loaded from a JSON or
// YAML document:
//
//	backendData:
//	  campaign: spring
//	components:
//	  page.0:            # a component path
//	    title: Spring sale
//	  c-42:              # or a component id
//	    tags: [news]
//
// Backend keys are merged over the page's backend data.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	BackendData map[string]any                    `json:"backendData"`
	Components  map[string]map[string]model.Value `json:"components"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	var document presetDocument
	if err := pagefs.Decode(data, "preset", &document); err != nil {
		return nil, fmt.Errorf("preset transformer: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the overrides. Unknown targets are errors so stale presets
// surface instead of silently doing nothing.
func (t *PresetTransformer) Transform(ctx context.Context, data *model.PageData) error {
	if data == nil {
		return errors.New("preset transformer: page data is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(t.document.BackendData) > 0 {
		if data.BackendData == nil {
			data.BackendData = make(map[string]any, len(t.document.BackendData))
		}
		for key, value := range t.document.BackendData {
			data.BackendData[key] = value
		}
	}

	targets := make([]string, 0, len(t.document.Components))
	for target := range t.document.Components {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := findComponent(*data, target)
		if c == nil {
			return fmt.Errorf("preset transformer: component %q not found", target)
		}
		for name, value := range t.document.Components[target] {
			if value.IsSet() {
				c.Set(name, value)
			} else {
				c.Unset(name)
			}
		}
	}
	return nil
}

// findComponent resolves target as a component path first, then as an id.
func findComponent(data model.PageData, target string) *model.Component {
	if c, ok := model.ComponentAt(data, target); ok {
		return c
	}
	var found *model.Component
	_ = model.Walk(data.Page, func(c *model.Component, _ string) error {
		if c.ID == target {
			found = c
			return model.ErrStopWalk
		}
		return nil
	})
	return found
}
