package model

// Tier names one of the three catalog tiers. Lookups walk tiers in the order
// returned by Tiers.
type Tier string

const (
	TierCommon     Tier = "common"
	TierIndividual Tier = "individual"
	TierSpecial    Tier = "special"
)

// Tiers returns the lookup precedence order.
func Tiers() []Tier {
	return []Tier{TierCommon, TierIndividual, TierSpecial}
}

// SlotConfig restricts which parts may be placed in a slot.
type SlotConfig struct {
	AllowedParts []string `json:"allowedParts,omitempty" yaml:"allowedParts,omitempty"`
}

// Part is a reusable template.
type Part struct {
	ID          string                `json:"id" yaml:"id" validate:"required"`
	Title       string                `json:"title" yaml:"title"`
	Description string                `json:"description" yaml:"description"`
	Body        string                `json:"body" yaml:"body"`
	Slots       map[string]SlotConfig `json:"slots,omitempty" yaml:"slots,omitempty"`
	SlotOnly    bool                  `json:"slotOnly,omitempty" yaml:"slotOnly,omitempty"`
}

// Type groups related parts.
type Type struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Parts       []Part `json:"parts" yaml:"parts" validate:"dive"`
}

// PartTiers holds the three part catalogs.
type PartTiers struct {
	Common     []Type `json:"common" yaml:"common" validate:"dive"`
	Individual []Type `json:"individual" yaml:"individual" validate:"dive"`
	Special    []Type `json:"special" yaml:"special" validate:"dive"`
}

// Tier returns the types registered under t.
func (p PartTiers) Tier(t Tier) []Type {
	switch t {
	case TierCommon:
		return p.Common
	case TierIndividual:
		return p.Individual
	case TierSpecial:
		return p.Special
	default:
		return nil
	}
}

// ImageEntry is a registered image.
type ImageEntry struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	MimeType    string `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	NeedsUpload bool   `json:"needsUpload,omitempty" yaml:"needsUpload,omitempty"`
}

// ImageTiers holds the three image catalogs.
type ImageTiers struct {
	Common     []ImageEntry `json:"common" yaml:"common" validate:"dive"`
	Individual []ImageEntry `json:"individual" yaml:"individual" validate:"dive"`
	Special    []ImageEntry `json:"special" yaml:"special" validate:"dive"`
}

// Tier returns the images registered under t.
func (i ImageTiers) Tier(t Tier) []ImageEntry {
	switch t {
	case TierCommon:
		return i.Common
	case TierIndividual:
		return i.Individual
	case TierSpecial:
		return i.Special
	default:
		return nil
	}
}

// CSSTiers carries the stylesheet source for each tier.
type CSSTiers struct {
	Common     string `json:"common,omitempty" yaml:"common,omitempty"`
	Individual string `json:"individual,omitempty" yaml:"individual,omitempty"`
	Special    string `json:"special,omitempty" yaml:"special,omitempty"`
}

// PageData is everything needed to render a page.
type PageData struct {
	Page        []*Component   `json:"page"`
	CSS         CSSTiers       `json:"css"`
	Parts       PartTiers      `json:"parts"`
	Images      ImageTiers     `json:"images"`
	BackendData map[string]any `json:"backendData,omitempty"`
}

// FieldType identifies an editable field kind.
type FieldType string

const (
	FieldText           FieldType = "text"
	FieldTextarea       FieldType = "textarea"
	FieldRich           FieldType = "rich"
	FieldImage          FieldType = "image"
	FieldRadio          FieldType = "radio"
	FieldCheckbox       FieldType = "checkbox"
	FieldSelect         FieldType = "select"
	FieldSelectMultiple FieldType = "select-multiple"
	FieldBoolean        FieldType = "boolean"
	FieldTag            FieldType = "tag"
)

// SingleChoice reports whether the type picks exactly one option.
func (t FieldType) SingleChoice() bool {
	return t == FieldRadio || t == FieldSelect || t == FieldTag
}

// MultiChoice reports whether the type picks any number of options.
func (t FieldType) MultiChoice() bool {
	return t == FieldCheckbox || t == FieldSelectMultiple
}

// FieldDescriptor describes one editable field declared by a template.
type FieldDescriptor struct {
	Name      string    `json:"fieldName"`
	Group     string    `json:"groupName,omitempty"`
	Type      FieldType `json:"type"`
	Default   string    `json:"defaultValue,omitempty"`
	Options   []string  `json:"options,omitempty"`
	Optional  bool      `json:"optional"`
	Required  bool      `json:"required,omitempty"`
	MaxLength int       `json:"maxLength,omitempty"`
	ReadOnly  bool      `json:"readonly,omitempty"`
	Disabled  bool      `json:"disabled,omitempty"`
}
