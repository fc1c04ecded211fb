package interpreter

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-pagebuilder/internal/markup"
	"github.com/goliatone/go-pagebuilder/pkg/dsl"
	"github.com/goliatone/go-pagebuilder/pkg/model"
)

// Editor attributes placed on empty slots.
const (
	AttrEmptySlot = "data-zcode-empty-slot"
	AttrSlotPath  = "data-zcode-slot-path"
)

// slots replaces the content of z-slot elements with the rendered children
// of the matching component slot.
func (s *state) slots(root *html.Node) error {
	for _, el := range s.elementsWith(root, dsl.AttrSlot, false) {
		if !markup.Attached(el, root) {
			continue
		}
		name, _ := markup.Attr(el, dsl.AttrSlot)
		name = strings.TrimSpace(name)
		if name == "" {
			name = dsl.DefaultSlot
		}
		markup.RemoveAttr(el, dsl.AttrSlot)
		markup.ClearChildren(el)

		children := s.c.Slot(name)
		if len(children) == 0 {
			if s.env.Editor {
				markup.SetAttr(el, AttrEmptySlot, name)
				markup.SetAttr(el, AttrSlotPath, model.SlotPath(s.env.Path, name))
				markup.AppendChildren(el, addSlotAffordance(s.env.AddSlotLabel))
			}
			continue
		}
		if s.env.RenderChild == nil {
			s.logger.Warn("slot has children but no child renderer is configured", "slot", name)
			continue
		}

		for i, child := range children {
			if child == nil {
				continue
			}
			out, err := s.env.RenderChild(child, model.ChildPath(s.env.Path, name, i))
			if err != nil {
				return err
			}
			nodes, err := markup.ParseInto(el, out)
			if err != nil {
				return err
			}
			markup.AppendChildren(el, nodes...)
		}
	}
	return nil
}

func addSlotAffordance(label string) *html.Node {
	button := markup.Element("button",
		html.Attribute{Key: "class", Val: "zcode-add-slot-btn"},
		html.Attribute{Key: "data-zcode-add-slot"},
	)
	button.AppendChild(markup.Text(label))
	wrapper := markup.Element("div",
		html.Attribute{Key: "class", Val: "zcode-empty-slot"},
		html.Attribute{Key: "data-zcode-empty-slot-content"},
	)
	wrapper.AppendChild(button)
	return wrapper
}
