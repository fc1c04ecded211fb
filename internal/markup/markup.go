// Package markup wraps golang.org/x/net/html with the small set of tree
// operations the template interpreter needs: fragment parsing in a context
// that accepts any content model, attribute helpers, element renaming and
// subtree surgery.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrParse is returned when markup cannot be parsed into a tree.
var ErrParse = errors.New("markup: parse failed")

// Fragment is a parsed template. Root is a detached container whose children
// are the top-level nodes of the source.
type Fragment struct {
	Root *html.Node
}

// newContainer returns a <template> element. Parsing in a template context
// keeps table parts, list items and other context-sensitive content intact.
func newContainer() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "template", DataAtom: atom.Template}
}

// Parse parses src as a fragment.
func Parse(src string) (*Fragment, error) {
	root := newContainer()
	nodes, err := html.ParseFragment(strings.NewReader(src), newContainer())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	AppendChildren(root, nodes...)
	return &Fragment{Root: root}, nil
}

// ParseInto parses src as content for the element ctx. The returned nodes are
// detached; ctx is not modified.
func ParseInto(ctx *html.Node, src string) ([]*html.Node, error) {
	context := newContainer()
	if ctx != nil && ctx.Type == html.ElementNode {
		context = &html.Node{
			Type:      html.ElementNode,
			Data:      ctx.Data,
			DataAtom:  atom.Lookup([]byte(ctx.Data)),
			Namespace: ctx.Namespace,
		}
	}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nodes, nil
}

// Render serialises the fragment's top-level nodes.
func (f *Fragment) Render() (string, error) {
	if f == nil || f.Root == nil {
		return "", nil
	}
	return InnerHTML(f.Root)
}

// InnerHTML serialises the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("markup: render: %w", err)
		}
	}
	return buf.String(), nil
}

// OuterHTML serialises n itself.
func OuterHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("markup: render: %w", err)
	}
	return buf.String(), nil
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Attr returns the value of the attribute key.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the attribute key. The value is stored raw and
// escaped by the serializer.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the attribute key if present.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// Rename changes the tag of an element in place, keeping attributes and
// children.
func Rename(n *html.Node, tag string) {
	tag = strings.ToLower(tag)
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// Elements returns a snapshot of the descendant elements of root, in document
// order, for which match returns true. A nil match selects every element.
func Elements(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, func(n *html.Node) bool {
			if n.Type == html.ElementNode && (match == nil || match(n)) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// WithAttr returns a matcher selecting elements that carry key.
func WithAttr(key string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		_, ok := Attr(n, key)
		return ok
	}
}

// Attached reports whether n is still reachable from root through its parent
// chain.
func Attached(n, root *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// Remove detaches n from its parent.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReplaceWith substitutes nodes for old in old's parent.
func ReplaceWith(old *html.Node, nodes ...*html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
}

// ClearChildren removes every child of n.
func ClearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// AppendChildren appends detached nodes to n.
func AppendChildren(n *html.Node, nodes ...*html.Node) {
	for _, c := range nodes {
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		n.AppendChild(c)
	}
}

// MoveChildren transfers every child of src to the end of dst.
func MoveChildren(dst, src *html.Node) {
	for c := src.FirstChild; c != nil; {
		next := c.NextSibling
		src.RemoveChild(c)
		dst.AppendChild(c)
		c = next
	}
}

// Clone deep-copies n. The copy is detached.
func Clone(n *html.Node) *html.Node {
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		out.Attr = make([]html.Attribute, len(n.Attr))
		copy(out.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(Clone(c))
	}
	return out
}

// Text returns a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Element returns a detached element.
func Element(tag string, attrs ...html.Attribute) *html.Node {
	tag = strings.ToLower(tag)
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if len(attrs) > 0 {
		n.Attr = append(n.Attr, attrs...)
	}
	return n
}

// Container returns a detached container suitable for holding arbitrary
// content, such as a subtree processed in isolation.
func Container(nodes ...*html.Node) *html.Node {
	root := newContainer()
	AppendChildren(root, nodes...)
	return root
}

// FirstElement returns the first element child of n.
func FirstElement(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}
