package interpreter

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-pagebuilder/internal/markup"
	"github.com/goliatone/go-pagebuilder/pkg/dsl"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/sanitize"
)

// selections resolves selection tokens left in literal text and in the
// attribute values deferred by interpolate.
func (s *state) selections(root *html.Node) error {
	for _, n := range s.collect(root, true) {
		if n.Type != html.TextNode || !strings.Contains(n.Data, "($") {
			continue
		}
		n.Data = dsl.Expand(n.Data, func(tok dsl.Token) (string, bool) {
			if tok.Kind != dsl.KindSelection {
				return "", false
			}
			return s.selection(tok.Field), true
		})
	}

	for _, p := range s.pending {
		var b strings.Builder
		for _, seg := range p.segments {
			if seg.token == nil {
				b.WriteString(seg.text)
				continue
			}
			b.WriteString(s.screen(s.selection(seg.token.Field), p.url))
		}
		markup.SetAttr(p.el, p.key, b.String())
	}
	s.pending = nil
	return nil
}

// selection returns the chosen option for single-choice fields, falling back
// to the first option, or the space-joined chosen options for multi-choice
// fields. Values outside the declared options never render.
func (s *state) selection(f dsl.Field) string {
	v, _ := s.c.Get(f.Name)
	if f.Type.MultiChoice() {
		chosen, ok := v.Strings()
		if !ok {
			if str, isStr := v.Str(); isStr && str != "" {
				chosen = []string{str}
			}
		}
		var out []string
		for _, item := range chosen {
			if contains(f.Options, item) {
				out = append(out, item)
			}
		}
		return strings.Join(out, " ")
	}

	if str, ok := v.Str(); ok && contains(f.Options, str) {
		return str
	}
	if len(f.Options) > 0 {
		return f.Options[0]
	}
	return ""
}

// conditionals removes elements whose z-if field is set and falsy. Absent
// fields keep the element.
func (s *state) conditionals(root *html.Node) error {
	for _, el := range s.elementsWith(root, dsl.AttrIf, true) {
		if !markup.Attached(el, root) {
			continue
		}
		name, _ := markup.Attr(el, dsl.AttrIf)
		if v, ok := s.c.Get(strings.TrimSpace(name)); ok && v.Falsy() {
			markup.Remove(el)
			continue
		}
		markup.RemoveAttr(el, dsl.AttrIf)
	}
	return nil
}

// tags renames elements carrying z-tag to the field's value when that value
// is on the safe tag allow-list.
func (s *state) tags(root *html.Node) error {
	for _, el := range s.elementsWith(root, dsl.AttrTag, true) {
		if !markup.Attached(el, root) {
			continue
		}
		raw, _ := markup.Attr(el, dsl.AttrTag)
		markup.RemoveAttr(el, dsl.AttrTag)

		directive, ok := dsl.ParseTag(raw)
		if !ok {
			s.logger.Warn("malformed z-tag directive", "value", raw)
			continue
		}
		tag := el.Data
		if v, ok := s.c.Get(directive.Field); ok {
			if str, isStr := v.Str(); isStr && strings.TrimSpace(str) != "" {
				tag = strings.ToLower(strings.TrimSpace(str))
			}
		}
		if tag == el.Data {
			continue
		}
		if !sanitize.IsSafeTag(tag) {
			s.logger.Warn("z-tag value is not an allowed tag", "field", directive.Field, "tag", tag)
			continue
		}
		markup.Rename(el, tag)
	}
	return nil
}

// empties removes elements whose z-empty field carries no content.
func (s *state) empties(root *html.Node) error {
	for _, el := range s.elementsWith(root, dsl.AttrEmpty, true) {
		if !markup.Attached(el, root) {
			continue
		}
		raw, _ := markup.Attr(el, dsl.AttrEmpty)
		markup.RemoveAttr(el, dsl.AttrEmpty)

		name, ok := dsl.ParseEmpty(raw)
		if !ok {
			s.logger.Warn("malformed z-empty directive", "value", raw)
			continue
		}
		if v, set := s.c.Get(name); isEmpty(v, set) {
			markup.Remove(el)
		}
	}
	return nil
}

func isEmpty(v model.Value, set bool) bool {
	if !set {
		return true
	}
	switch v.Kind() {
	case model.KindString:
		str, _ := v.Str()
		return sanitize.IsEmptyRichText(strings.TrimSpace(str))
	case model.KindList:
		items, _ := v.Strings()
		return len(items) == 0
	default:
		return false
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
