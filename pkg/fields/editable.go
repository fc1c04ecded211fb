package fields

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-pagebuilder/pkg/model"
)

var (
	// ErrKindMismatch is returned when a value's shape does not fit the field.
	ErrKindMismatch = errors.New("fields: value kind does not match field type")
	// ErrNotAnOption is returned when a choice is outside the declared options.
	ErrNotAnOption = errors.New("fields: value is not a declared option")
	// ErrTooLong is returned when a value exceeds the field's max length.
	ErrTooLong = errors.New("fields: value exceeds max length")
	// ErrRequired is returned when a required field is cleared.
	ErrRequired = errors.New("fields: value is required")
	// ErrReadOnly is returned when writing a readonly or disabled field.
	ErrReadOnly = errors.New("fields: field is read-only")
)

// EditField is a descriptor paired with its display label and the value an
// editor should show.
type EditField struct {
	model.FieldDescriptor
	Label   string      `json:"label"`
	Current model.Value `json:"currentValue"`
}

// Editable lists the fields of part with the current values from c. Unset
// required fields show their synthesized default; unset optional fields stay
// unset. Tag fields without declared options offer the safe tag list.
func Editable(part model.Part, c *model.Component, opts ...Option) ([]EditField, error) {
	descriptors, err := Extract(part.Body, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]EditField, 0, len(descriptors))
	for _, d := range descriptors {
		field := EditField{FieldDescriptor: d, Label: Label(d.Name)}
		if d.Type == model.FieldTag {
			field.Options = TagOptions(d)
			if field.Default == "" {
				field.Default = "div"
			}
		}
		if v, ok := c.Get(d.Name); ok {
			field.Current = v
		} else if !d.Optional {
			field.Current = DefaultValue(d)
		}
		out = append(out, field)
	}
	return out, nil
}

// Assign validates v against d and writes it to c. Clearing an optional field
// (unset or empty string) removes the value.
func Assign(c *model.Component, d model.FieldDescriptor, v model.Value) error {
	if d.ReadOnly || d.Disabled {
		return fmt.Errorf("%w: %s", ErrReadOnly, d.Name)
	}

	s, isString := v.Str()
	if !v.IsSet() || (isString && s == "") {
		switch {
		case d.Optional:
			c.Unset(d.Name)
			return nil
		case d.Required:
			return fmt.Errorf("%w: %s", ErrRequired, d.Name)
		case !v.IsSet():
			c.Unset(d.Name)
			return nil
		}
	}

	if err := check(d, v); err != nil {
		return err
	}
	c.Set(d.Name, v)
	return nil
}

func check(d model.FieldDescriptor, v model.Value) error {
	switch d.Type {
	case model.FieldBoolean:
		if v.Kind() != model.KindBool {
			return fmt.Errorf("%w: %s expects a boolean, got %s", ErrKindMismatch, d.Name, v.Kind())
		}
	case model.FieldCheckbox, model.FieldSelectMultiple:
		items, ok := v.Strings()
		if !ok {
			return fmt.Errorf("%w: %s expects a list, got %s", ErrKindMismatch, d.Name, v.Kind())
		}
		for _, item := range items {
			if !contains(d.Options, item) {
				return fmt.Errorf("%w: %s does not offer %q", ErrNotAnOption, d.Name, item)
			}
		}
	case model.FieldRadio, model.FieldSelect:
		s, ok := v.Str()
		if !ok {
			return fmt.Errorf("%w: %s expects a string, got %s", ErrKindMismatch, d.Name, v.Kind())
		}
		if !contains(d.Options, s) {
			return fmt.Errorf("%w: %s does not offer %q", ErrNotAnOption, d.Name, s)
		}
	case model.FieldTag:
		s, ok := v.Str()
		if !ok {
			return fmt.Errorf("%w: %s expects a string, got %s", ErrKindMismatch, d.Name, v.Kind())
		}
		if !contains(TagOptions(d), strings.ToLower(s)) {
			return fmt.Errorf("%w: %s does not offer %q", ErrNotAnOption, d.Name, s)
		}
	default:
		s, ok := v.Str()
		if !ok {
			return fmt.Errorf("%w: %s expects a string, got %s", ErrKindMismatch, d.Name, v.Kind())
		}
		if d.MaxLength > 0 && utf8.RuneCountInString(s) > d.MaxLength {
			return fmt.Errorf("%w: %s allows %d characters", ErrTooLong, d.Name, d.MaxLength)
		}
	}
	return nil
}

// Label humanizes a field name: underscores become spaces, camelCase is
// split and the first letter is capitalised.
func Label(name string) string {
	var b strings.Builder
	var prev rune
	for i, r := range name {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	out := b.String()
	trimmed := strings.TrimLeft(out, " ")
	if trimmed == "" {
		return out
	}
	first, size := utf8.DecodeRuneInString(trimmed)
	lead := out[:len(out)-len(trimmed)]
	return lead + string(unicode.ToUpper(first)) + trimmed[size:]
}
