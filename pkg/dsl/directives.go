package dsl

import "strings"

// Element directive attributes.
const (
	AttrIf    = "z-if"
	AttrTag   = "z-tag"
	AttrEmpty = "z-empty"
	AttrFor   = "z-for"
	AttrSlot  = "z-slot"
)

// DefaultSlot names a z-slot without a value.
const DefaultSlot = "default"

// IsDirective reports whether key is a directive attribute or an editor
// data-zcode-* attribute, neither of which carries field tokens.
func IsDirective(key string) bool {
	switch key {
	case AttrIf, AttrTag, AttrEmpty, AttrFor, AttrSlot:
		return true
	}
	return strings.HasPrefix(key, "data-zcode-")
}

// TagDirective is a parsed z-tag="$name[:opt|opt]" value.
type TagDirective struct {
	Field   string
	Options []string
}

// ParseTag parses a z-tag value. Options are trimmed.
func ParseTag(value string) (TagDirective, bool) {
	rest, ok := strings.CutPrefix(value, "$")
	if !ok {
		return TagDirective{}, false
	}
	name, j := ident(rest, 0)
	if name == "" {
		return TagDirective{}, false
	}
	d := TagDirective{Field: name}
	if j == len(rest) {
		return d, true
	}
	if rest[j] != ':' || j+1 == len(rest) {
		return TagDirective{}, false
	}
	for _, opt := range strings.Split(rest[j+1:], "|") {
		d.Options = append(d.Options, strings.TrimSpace(opt))
	}
	return d, true
}

// ParseEmpty parses a z-empty="$name" value.
func ParseEmpty(value string) (string, bool) {
	rest, ok := strings.CutPrefix(value, "$")
	if !ok {
		return "", false
	}
	name, j := ident(rest, 0)
	if name == "" || j != len(rest) {
		return "", false
	}
	return name, true
}

// LoopDirective is a parsed z-for="item in {@path}" value.
type LoopDirective struct {
	Item string
	Path string
}

// ParseLoop parses a z-for value. The source must be a backend reference.
func ParseLoop(value string) (LoopDirective, bool) {
	value = strings.TrimSpace(value)
	item, j := ident(value, 0)
	if item == "" {
		return LoopDirective{}, false
	}
	rest := value[j:]
	trimmed := strings.TrimLeft(rest, " \t\n\r\f")
	if len(trimmed) == len(rest) {
		return LoopDirective{}, false
	}
	source, ok := strings.CutPrefix(trimmed, "in")
	if !ok {
		return LoopDirective{}, false
	}
	src := strings.TrimLeft(source, " \t\n\r\f")
	if len(src) == len(source) {
		return LoopDirective{}, false
	}
	tok, ok := match(src, 0)
	if !ok || tok.Kind != KindBackendRef || tok.End != len(src) {
		return LoopDirective{}, false
	}
	return LoopDirective{Item: item, Path: tok.Path}, true
}
