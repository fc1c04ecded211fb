package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

const (
	keyID     = "id"
	keyPartID = "part_id"
	keySlots  = "slots"
)

// Component is one instance of a Part on the page. Field values are keyed by
// the field names declared in the Part template.
type Component struct {
	ID     string           `json:"id" validate:"required"`
	PartID string           `json:"part_id" validate:"required"`
	Slots  map[string]Slot  `json:"slots,omitempty"`
	Fields map[string]Value `json:"-"`
}

// Slot is the ordered list of children hosted by a named slot.
type Slot []*Component

// UnmarshalJSON accepts both a plain array and the legacy {"children": [...]}
// wrapper.
func (s *Slot) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}
	if trimmed[0] == '{' {
		var legacy struct {
			Children []*Component `json:"children"`
		}
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return fmt.Errorf("model: decode slot wrapper: %w", err)
		}
		*s = legacy.Children
		return nil
	}
	var children []*Component
	if err := json.Unmarshal(trimmed, &children); err != nil {
		return fmt.Errorf("model: decode slot: %w", err)
	}
	*s = children
	return nil
}

// Get returns the field value and whether it is set.
func (c *Component) Get(name string) (Value, bool) {
	if c == nil || c.Fields == nil {
		return Value{}, false
	}
	v, ok := c.Fields[name]
	if !ok || !v.IsSet() {
		return Value{}, false
	}
	return v, true
}

// Set writes a field value. Setting an unset Value removes the field.
func (c *Component) Set(name string, v Value) {
	if !v.IsSet() {
		c.Unset(name)
		return
	}
	if c.Fields == nil {
		c.Fields = make(map[string]Value)
	}
	c.Fields[name] = v
}

// Unset removes a field value.
func (c *Component) Unset(name string) {
	if c.Fields != nil {
		delete(c.Fields, name)
	}
}

// FieldNames returns the set field names in sorted order.
func (c *Component) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for name, v := range c.Fields {
		if v.IsSet() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Slot returns the children of the named slot.
func (c *Component) Slot(name string) Slot {
	if c == nil || c.Slots == nil {
		return nil
	}
	return c.Slots[name]
}

// Clone deep-copies the component and its slot children.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	out := &Component{ID: c.ID, PartID: c.PartID}
	if c.Fields != nil {
		out.Fields = make(map[string]Value, len(c.Fields))
		for k, v := range c.Fields {
			out.Fields[k] = v
		}
	}
	if c.Slots != nil {
		out.Slots = make(map[string]Slot, len(c.Slots))
		for name, children := range c.Slots {
			cloned := make(Slot, len(children))
			for i, child := range children {
				cloned[i] = child.Clone()
			}
			out.Slots[name] = cloned
		}
	}
	return out
}

// MarshalJSON flattens field values next to id, part_id and slots.
func (c Component) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Fields)+3)
	for name, v := range c.Fields {
		if !v.IsSet() || isReservedKey(name) {
			continue
		}
		out[name] = v
	}
	out[keyID] = c.ID
	out[keyPartID] = c.PartID
	if len(c.Slots) > 0 {
		out[keySlots] = c.Slots
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads id, part_id and slots and keeps every other key as a
// field value.
func (c *Component) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: decode component: %w", err)
	}

	next := Component{}
	for key, msg := range raw {
		switch key {
		case keyID:
			if err := json.Unmarshal(msg, &next.ID); err != nil {
				return fmt.Errorf("model: decode component id: %w", err)
			}
		case keyPartID:
			if err := json.Unmarshal(msg, &next.PartID); err != nil {
				return fmt.Errorf("model: decode component part_id: %w", err)
			}
		case keySlots:
			if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
				continue
			}
			if err := json.Unmarshal(msg, &next.Slots); err != nil {
				return fmt.Errorf("model: decode component %q slots: %w", next.ID, err)
			}
		default:
			var v Value
			if err := json.Unmarshal(msg, &v); err != nil {
				return fmt.Errorf("model: decode field %q: %w", key, err)
			}
			if v.IsSet() {
				next.Set(key, v)
			}
		}
	}

	*c = next
	return nil
}

func isReservedKey(name string) bool {
	return name == keyID || name == keyPartID || name == keySlots
}
