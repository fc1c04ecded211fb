package interpreter

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-pagebuilder/internal/markup"
	"github.com/goliatone/go-pagebuilder/pkg/backend"
	"github.com/goliatone/go-pagebuilder/pkg/dsl"
	"github.com/goliatone/go-pagebuilder/pkg/sanitize"
)

// loops expands z-for elements once per item of their backend sequence. Each
// copy runs the field and directive phases against the component before
// item references are substituted, so item values are never interpreted.
// Loops do not nest and loop bodies hold no slots.
func (s *state) loops(root *html.Node) error {
	for _, el := range s.elementsWith(root, dsl.AttrFor, false) {
		if !markup.Attached(el, root) {
			continue
		}
		raw, _ := markup.Attr(el, dsl.AttrFor)
		directive, ok := dsl.ParseLoop(raw)
		if !ok {
			s.logger.Warn("malformed z-for directive", "value", raw)
			markup.RemoveAttr(el, dsl.AttrFor)
			continue
		}

		source, found := backend.Lookup(s.env.Backend, directive.Path)
		items, isSeq := backend.Sequence(source)
		switch {
		case !found:
			s.logger.Warn("z-for source not found", "ref", directive.Path)
		case !isSeq:
			s.logger.Warn("z-for source is not a sequence", "ref", directive.Path)
		}
		if !found || !isSeq || len(items) == 0 {
			markup.Remove(el)
			continue
		}

		if nested := markup.Elements(el, markup.WithAttr(dsl.AttrFor)); len(nested) > 0 {
			s.logger.Warn("nested z-for is not supported; inner loops removed",
				"path", directive.Path, "count", len(nested))
		}
		slots := len(markup.Elements(el, markup.WithAttr(dsl.AttrSlot)))
		if _, ok := markup.Attr(el, dsl.AttrSlot); ok {
			slots++
		}
		if slots > 0 {
			s.logger.Warn("z-slot inside z-for is not supported; slots removed",
				"path", directive.Path, "count", slots)
		}

		var expanded []*html.Node
		for _, item := range items {
			clone := markup.Clone(el)
			markup.RemoveAttr(clone, dsl.AttrFor)
			markup.RemoveAttr(clone, dsl.AttrSlot)
			for _, inner := range markup.Elements(clone, markup.WithAttr(dsl.AttrFor)) {
				markup.Remove(inner)
			}
			for _, slot := range markup.Elements(clone, markup.WithAttr(dsl.AttrSlot)) {
				markup.Remove(slot)
			}

			box := markup.Container(clone)
			s.loopVar = directive.Item
			err := s.run(box, loopBody)
			s.loopVar = ""
			if err != nil {
				return err
			}
			s.expandItem(box, directive.Item, item)
			for c := box.FirstChild; c != nil; c = c.NextSibling {
				expanded = append(expanded, c)
			}
		}
		markup.ReplaceWith(el, expanded...)
	}
	return nil
}

// expandItem substitutes {item} and {item.path} references in the literal
// text and attributes under box.
func (s *state) expandItem(box *html.Node, name string, item any) {
	for _, n := range s.collect(box, false) {
		switch n.Type {
		case html.TextNode:
			n.Data = s.expandItemRefs(n.Data, name, item, false)
		case html.ElementNode:
			for i, a := range n.Attr {
				if dsl.IsDirective(a.Key) {
					continue
				}
				n.Attr[i].Val = s.expandItemRefs(a.Val, name, item, sanitize.IsURLAttribute(a.Key))
			}
		}
	}
}

func (s *state) expandItemRefs(text, name string, item any, url bool) string {
	open := "{" + name
	if !strings.Contains(text, open) {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], open) {
			start := i + len(open)
			end := start
			for end < len(text) && isPathByte(text[end]) {
				end++
			}
			if end < len(text) && text[end] == '}' && (end == start || text[start] == '.' || text[start] == '[') {
				b.WriteString(s.screen(itemText(item, text[start:end]), url))
				i = end + 1
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

// itemText resolves path against a loop item. Scalars are stringified and
// composite values are encoded as JSON.
func itemText(item any, path string) string {
	v := item
	if path != "" {
		var ok bool
		if v, ok = backend.Lookup(item, path); !ok {
			return ""
		}
	}
	if v == nil {
		return ""
	}
	if str, ok := backend.Stringify(v); ok {
		return str
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func isPathByte(c byte) bool {
	return c == '_' || c == '.' || c == '[' || c == ']' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
