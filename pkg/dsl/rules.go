package dsl

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-pagebuilder/pkg/model"
)

// Rule is one entry of the recognition table. Rules are tried in table order
// at every scan position; the first match wins.
type Rule struct {
	Name     string
	Kind     Kind
	Type     model.FieldType
	Grouped  bool
	Optional bool
	Select   bool
}

var rules = []Rule{
	{Name: "rich.grouped.optional", Kind: KindField, Type: model.FieldRich, Grouped: true, Optional: true},
	{Name: "rich.optional", Kind: KindField, Type: model.FieldRich, Optional: true},
	{Name: "rich.grouped", Kind: KindField, Type: model.FieldRich, Grouped: true},
	{Name: "rich", Kind: KindField, Type: model.FieldRich},
	{Name: "textarea.grouped.optional", Kind: KindField, Type: model.FieldTextarea, Grouped: true, Optional: true},
	{Name: "textarea.optional", Kind: KindField, Type: model.FieldTextarea, Optional: true},
	{Name: "textarea.grouped", Kind: KindField, Type: model.FieldTextarea, Grouped: true},
	{Name: "textarea", Kind: KindField, Type: model.FieldTextarea},
	{Name: "image.grouped.optional", Kind: KindField, Type: model.FieldImage, Grouped: true, Optional: true},
	{Name: "image.optional", Kind: KindField, Type: model.FieldImage, Optional: true},
	{Name: "image.grouped", Kind: KindField, Type: model.FieldImage, Grouped: true},
	{Name: "image", Kind: KindField, Type: model.FieldImage},
	{Name: "text.grouped.optional", Kind: KindField, Type: model.FieldText, Grouped: true, Optional: true},
	{Name: "text.optional", Kind: KindField, Type: model.FieldText, Optional: true},
	{Name: "text.grouped", Kind: KindField, Type: model.FieldText, Grouped: true},
	{Name: "text", Kind: KindField, Type: model.FieldText},
	{Name: "select.grouped", Kind: KindSelection, Grouped: true, Select: true},
	{Name: "select", Kind: KindSelection, Select: true},
	{Name: "choice.grouped", Kind: KindSelection, Grouped: true},
	{Name: "choice", Kind: KindSelection},
	{Name: "backend", Kind: KindBackendRef},
}

// Rules returns a copy of the recognition table in precedence order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// typed reports whether the rule requires an explicit type keyword.
func (r Rule) typed() bool {
	return r.Type == model.FieldRich || r.Type == model.FieldTextarea || r.Type == model.FieldImage
}

func (r Rule) matchField(h fieldHead) (Field, bool) {
	if r.Kind != KindField || r.Grouped != (h.group != "") || r.Optional != h.optional {
		return Field{}, false
	}

	raw := h.body
	var tail []string
	if r.typed() {
		segments := strings.Split(h.body, ":")
		at := -1
		for k := 1; k < len(segments); k++ {
			if segments[k] == string(r.Type) {
				at = k
				break
			}
		}
		if at < 0 {
			return Field{}, false
		}
		raw = strings.Join(segments[:at], ":")
		tail = segments[at+1:]
	}

	def, validation := SplitDefault(raw)
	validation = validation.merge(parseValidators(tail))

	return Field{
		Name:       h.name,
		Group:      h.group,
		Optional:   h.optional,
		Type:       r.Type,
		Default:    def,
		Validation: validation,
	}, true
}

func (r Rule) matchSelection(h selectionHead) (Field, bool) {
	if r.Kind != KindSelection || r.Grouped != (h.group != "") || r.Select != h.at {
		return Field{}, false
	}

	multiple := !strings.Contains(h.options, "|") && strings.Contains(h.options, ",")
	var options []string
	if multiple {
		options = strings.Split(h.options, ",")
	} else {
		options = strings.Split(h.options, "|")
	}

	var typ model.FieldType
	switch {
	case r.Select && multiple:
		typ = model.FieldSelectMultiple
	case r.Select:
		typ = model.FieldSelect
	case multiple:
		typ = model.FieldCheckbox
	default:
		typ = model.FieldRadio
	}

	return Field{
		Name:    h.name,
		Group:   h.group,
		Type:    typ,
		Options: options,
	}, true
}

// SplitDefault separates trailing validator tokens from a raw default value.
// Tokens are consumed right to left while they match a known validator;
// whatever remains is the literal default and may contain colons.
func SplitDefault(raw string) (string, Validation) {
	segments := strings.Split(raw, ":")
	cut := len(segments)
	for cut > 0 && isValidator(segments[cut-1]) {
		cut--
	}
	return strings.Join(segments[:cut], ":"), parseValidators(segments[cut:])
}

func isValidator(token string) bool {
	switch token {
	case "required", "readonly", "disabled":
		return true
	}
	_, ok := maxLength(token)
	return ok
}

func maxLength(token string) (int, bool) {
	digits, ok := strings.CutPrefix(token, "max=")
	if !ok || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseValidators(tokens []string) Validation {
	var v Validation
	for _, token := range tokens {
		switch token {
		case "required":
			v.Required = true
		case "readonly":
			v.ReadOnly = true
		case "disabled":
			v.Disabled = true
		default:
			if n, ok := maxLength(token); ok {
				v.MaxLength = n
			}
		}
	}
	return v
}

func (v Validation) merge(other Validation) Validation {
	v.Required = v.Required || other.Required
	v.ReadOnly = v.ReadOnly || other.ReadOnly
	v.Disabled = v.Disabled || other.Disabled
	if other.MaxLength > 0 {
		v.MaxLength = other.MaxLength
	}
	return v
}
