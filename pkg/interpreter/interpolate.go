package interpreter

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-pagebuilder/internal/markup"
	"github.com/goliatone/go-pagebuilder/pkg/backend"
	"github.com/goliatone/go-pagebuilder/pkg/dsl"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/sanitize"
)

// interpolate substitutes backend references and field tokens in text nodes
// and attribute values. Selection tokens are left for the next phase.
func (s *state) interpolate(root *html.Node) error {
	s.pending = nil
	for _, n := range s.collect(root, true) {
		switch n.Type {
		case html.TextNode:
			if err := s.interpolateText(n); err != nil {
				return err
			}
		case html.ElementNode:
			s.interpolateAttrs(n)
		}
	}
	return nil
}

func (s *state) interpolateText(n *html.Node) error {
	tokens := dsl.Scan(n.Data)
	if !hasValueTokens(tokens) {
		return nil
	}

	var (
		out     []*html.Node
		literal strings.Builder
		last    int
	)
	flush := func() {
		if literal.Len() > 0 {
			out = append(out, markup.Text(literal.String()))
			literal.Reset()
		}
	}

	for _, tok := range tokens {
		literal.WriteString(n.Data[last:tok.Start])
		last = tok.End
		switch tok.Kind {
		case dsl.KindSelection:
			literal.WriteString(tok.Raw)
		case dsl.KindBackendRef:
			flush()
			if v := s.resolve(tok.Path); v != "" {
				out = append(out, s.mark(markup.Text(v))...)
			}
		case dsl.KindField:
			flush()
			nodes, err := s.fieldNodes(n.Parent, tok.Field)
			if err != nil {
				return err
			}
			out = append(out, s.mark(nodes...)...)
		}
	}
	literal.WriteString(n.Data[last:])
	flush()

	if n.Parent == nil {
		return nil
	}
	markup.ReplaceWith(n, out...)
	return nil
}

func hasValueTokens(tokens []dsl.Token) bool {
	for _, tok := range tokens {
		if tok.Kind != dsl.KindSelection {
			return true
		}
	}
	return false
}

// fieldNodes renders a field token in a text position. ctx is the element the
// nodes will be inserted into.
func (s *state) fieldNodes(ctx *html.Node, f dsl.Field) ([]*html.Node, error) {
	v, set := s.c.Get(f.Name)
	if !set && f.Optional {
		return nil, nil
	}
	if v.Kind() == model.KindBool {
		return nil, nil
	}

	switch f.Type {
	case model.FieldRich:
		return s.richNodes(ctx, v.Text(), f.Optional)
	case model.FieldTextarea:
		return textareaNodes(v.Text()), nil
	case model.FieldImage:
		if !set {
			return nil, nil
		}
		return textNodes(s.image(v.Text(), f.Default)), nil
	default:
		return textNodes(v.Text()), nil
	}
}

func (s *state) richNodes(ctx *html.Node, value string, optional bool) ([]*html.Node, error) {
	if !s.env.Editor {
		value = sanitize.RichText(value)
	}
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "" && optional:
		return nil, nil
	case trimmed == "":
		value = "<p></p>"
	case !strings.HasPrefix(trimmed, "<p"):
		value = "<p>" + value + "</p>"
	}
	return markup.ParseInto(ctx, value)
}

// textareaNodes splits value into lines separated by <br> elements. Blank
// lines still produce their line break.
func textareaNodes(value string) []*html.Node {
	if value == "" {
		return nil
	}
	value = strings.ReplaceAll(value, "\r\n", "\n")
	lines := strings.Split(value, "\n")
	out := make([]*html.Node, 0, len(lines)*2)
	for i, line := range lines {
		if line != "" {
			out = append(out, markup.Text(line))
		}
		if i < len(lines)-1 {
			out = append(out, markup.Element("br"))
		}
	}
	return out
}

func textNodes(value string) []*html.Node {
	if value == "" {
		return nil
	}
	return []*html.Node{markup.Text(value)}
}

func (s *state) image(id, defaultID string) string {
	if s.env.Images == nil {
		return ""
	}
	return s.env.Images.Resolve(id, defaultID)
}

func (s *state) interpolateAttrs(n *html.Node) {
	attrs := append([]html.Attribute(nil), n.Attr...)
	for _, a := range attrs {
		if a.Namespace != "" || dsl.IsDirective(a.Key) {
			continue
		}
		s.interpolateAttr(n, a.Key, a.Val)
	}
}

func (s *state) interpolateAttr(n *html.Node, key, val string) {
	url := sanitize.IsURLAttribute(key)
	tokens := dsl.Scan(val)
	if len(tokens) == 0 {
		if url {
			markup.SetAttr(n, key, s.expandURL(val))
		}
		return
	}

	literal := func(text string) string {
		if url {
			return s.expandURL(text)
		}
		return text
	}

	var (
		segments []segment
		deferred bool
		last     int
	)
	for i := range tokens {
		tok := tokens[i]
		segments = append(segments, segment{text: literal(val[last:tok.Start])})
		last = tok.End
		switch tok.Kind {
		case dsl.KindSelection:
			segments = append(segments, segment{text: tok.Raw, token: &tokens[i]})
			deferred = true
		case dsl.KindBackendRef:
			segments = append(segments, segment{text: s.screen(s.resolve(tok.Path), url)})
		case dsl.KindField:
			segments = append(segments, segment{text: s.screen(s.attrValue(tok.Field), url)})
		}
	}
	segments = append(segments, segment{text: literal(val[last:])})

	resolved := joinSegments(segments)
	if deferred {
		s.pending = append(s.pending, pendingAttr{el: n, key: key, url: url, segments: segments})
		markup.SetAttr(n, key, resolved)
		return
	}

	if resolved == "" && optionalOnly(val, tokens) {
		markup.RemoveAttr(n, key)
		return
	}
	markup.SetAttr(n, key, resolved)
}

// optionalOnly reports whether val consists of exactly one optional field
// token.
func optionalOnly(val string, tokens []dsl.Token) bool {
	return len(tokens) == 1 &&
		tokens[0].Kind == dsl.KindField &&
		tokens[0].Field.Optional &&
		strings.TrimSpace(val) == tokens[0].Raw
}

func (s *state) attrValue(f dsl.Field) string {
	v, set := s.c.Get(f.Name)
	if !set {
		return ""
	}
	if v.Kind() == model.KindBool {
		return ""
	}
	if f.Type == model.FieldImage {
		return s.image(v.Text(), f.Default)
	}
	return v.Text()
}

// screen passes URL attribute values through the URL sanitizer.
func (s *state) screen(value string, url bool) string {
	if !url {
		return value
	}
	clean := sanitize.URL(value)
	if clean == "" && strings.TrimSpace(value) != "" {
		s.logger.Warn("url rejected by sanitizer", "value", value)
	}
	return clean
}

// resolve returns the string form of a backend reference.
func (s *state) resolve(path string) string {
	v, ok := backend.Lookup(s.env.Backend, path)
	if !ok {
		s.logger.Warn("backend path not found", "ref", path)
		return ""
	}
	str, _ := backend.Stringify(v)
	return str
}

// expandURL fills {key} placeholders from top-level backend data, screening
// each value. Inside a z-for body the loop variable is left for item
// expansion.
func (s *state) expandURL(text string) string {
	return backend.ExpandURLPlaceholdersFunc(text, s.env.Backend, func(key, value string) (string, bool) {
		if s.loopVar != "" && key == s.loopVar {
			return "", false
		}
		return s.screen(value, true), true
	})
}

func joinSegments(segments []segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.text)
	}
	return b.String()
}
