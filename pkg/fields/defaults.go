package fields

import (
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/sanitize"
)

// DefaultValue synthesizes the initial value of a field.
func DefaultValue(d model.FieldDescriptor) model.Value {
	switch d.Type {
	case model.FieldRich:
		return model.String("<p>" + d.Default + "</p>")
	case model.FieldRadio, model.FieldSelect:
		if d.Default != "" {
			return model.String(d.Default)
		}
		if len(d.Options) > 0 {
			return model.String(d.Options[0])
		}
		return model.String("")
	case model.FieldCheckbox, model.FieldSelectMultiple:
		return model.List()
	case model.FieldBoolean:
		return model.Bool(true)
	case model.FieldTag:
		if d.Default != "" {
			return model.String(d.Default)
		}
		return model.String("div")
	default:
		return model.String(d.Default)
	}
}

// Backfill writes the default of every required field missing from c. Set
// values are never overwritten and optional fields stay unset. It reports the
// names it filled.
func Backfill(c *model.Component, descriptors []model.FieldDescriptor) []string {
	var filled []string
	for _, d := range descriptors {
		if d.Optional {
			continue
		}
		if _, ok := c.Get(d.Name); ok {
			continue
		}
		c.Set(d.Name, DefaultValue(d))
		filled = append(filled, d.Name)
	}
	return filled
}

// TagOptions returns the options offered for a tag field.
func TagOptions(d model.FieldDescriptor) []string {
	if len(d.Options) > 0 {
		return append([]string(nil), d.Options...)
	}
	return sanitize.SafeTags()
}
