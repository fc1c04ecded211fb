package render

import (
	"sort"

	"github.com/goliatone/go-pagebuilder/internal/markup"
)

// Editor attributes stamped on component roots.
const (
	AttrComponentID   = "data-zcode-id"
	AttrComponentPath = "data-zcode-path"
	AttrComponentPart = "data-zcode-part"
)

// AttributeInjector stamps attrs onto the markup of one rendered component.
type AttributeInjector func(html string, attrs map[string]string) (string, error)

// InjectRootAttributes sets attrs, in sorted key order, on the first element
// of html. Markup without an element is returned unchanged.
func InjectRootAttributes(html string, attrs map[string]string) (string, error) {
	frag, err := markup.Parse(html)
	if err != nil {
		return "", err
	}
	root := markup.FirstElement(frag.Root)
	if root == nil {
		return html, nil
	}

	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		markup.SetAttr(root, key, attrs[key])
	}
	return frag.Render()
}
