// Package dsl tokenizes the template field syntax: field tokens
// ({$name[.group][?]:default[:type][:validators]}), selection tokens
// (($name[.group][@]:opt|opt)) and backend references ({@path}). Recognition
// is driven by an ordered rule table (Rules) and a single left-to-right scan,
// so the first rule that matches at a position wins and tokens are reported
// in document order.
package dsl

import "github.com/goliatone/go-pagebuilder/pkg/model"

// Kind identifies the token family.
type Kind int

const (
	KindField Kind = iota + 1
	KindSelection
	KindBackendRef
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindSelection:
		return "selection"
	case KindBackendRef:
		return "backend"
	default:
		return "unknown"
	}
}

// Validation holds the validator tokens attached to a field.
type Validation struct {
	Required  bool
	ReadOnly  bool
	Disabled  bool
	MaxLength int
}

// Field is the parsed payload of a field or selection token.
type Field struct {
	Name     string
	Group    string
	Optional bool
	Type     model.FieldType
	Default  string
	Options  []string
	Validation
}

// Descriptor converts the parsed token into a field descriptor.
func (f Field) Descriptor() model.FieldDescriptor {
	d := model.FieldDescriptor{
		Name:      f.Name,
		Group:     f.Group,
		Type:      f.Type,
		Default:   f.Default,
		Optional:  f.Optional,
		Required:  f.Required,
		MaxLength: f.MaxLength,
		ReadOnly:  f.ReadOnly,
		Disabled:  f.Disabled,
	}
	if len(f.Options) > 0 {
		d.Options = append([]string(nil), f.Options...)
	}
	return d
}

// Token is one recognised token in a scanned string. Start and End are byte
// offsets; Raw is the exact source text.
type Token struct {
	Kind  Kind
	Rule  string
	Start int
	End   int
	Raw   string
	Field Field
	Path  string
}
