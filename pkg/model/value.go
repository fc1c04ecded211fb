package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind enumerates the shapes a component field value can take.
type ValueKind int

const (
	KindUnset ValueKind = iota
	KindString
	KindList
	KindBool
	// KindRaw preserves JSON payloads the DSL has no field type for (objects,
	// nested arrays) so they survive a load/save round trip.
	KindRaw
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindBool:
		return "bool"
	case KindRaw:
		return "raw"
	default:
		return "unset"
	}
}

// Value is a component field value. The zero value is unset.
type Value struct {
	kind ValueKind
	str  string
	list []string
	b    bool
	raw  json.RawMessage
}

// String constructs a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List constructs a multi-choice value. A nil list still counts as set.
func List(items ...string) Value {
	out := make([]string, len(items))
	copy(out, items)
	return Value{kind: KindList, list: out}
}

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Raw wraps an arbitrary JSON payload.
func Raw(msg json.RawMessage) Value {
	return Value{kind: KindRaw, raw: append(json.RawMessage(nil), msg...)}
}

// Kind reports the value shape.
func (v Value) Kind() ValueKind { return v.kind }

// IsSet reports whether the value holds anything, including an empty string.
func (v Value) IsSet() bool { return v.kind != KindUnset }

// Str returns the string payload.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Strings returns a copy of the list payload.
func (v Value) Strings() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out, true
}

// BoolValue returns the boolean payload.
func (v Value) BoolValue() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Falsy reports whether the value is present and false-like: boolean false or
// the empty string. Lists are never falsy, even when empty.
func (v Value) Falsy() bool {
	switch v.kind {
	case KindBool:
		return !v.b
	case KindString:
		return v.str == ""
	default:
		return false
	}
}

// Text renders the value for a text position. Booleans and raw payloads never
// render; lists join with commas.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindList:
		return strings.Join(v.list, ",")
	default:
		return ""
	}
}

// Equal reports deep equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindBool:
		return v.b == other.b
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	case KindRaw:
		return bytes.Equal(v.raw, other.raw)
	default:
		return true
	}
}

func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("model.String(%q)", v.str)
	case KindList:
		return fmt.Sprintf("model.List(%q)", v.list)
	case KindBool:
		return fmt.Sprintf("model.Bool(%t)", v.b)
	case KindRaw:
		return fmt.Sprintf("model.Raw(%s)", v.raw)
	default:
		return "model.Value{}"
	}
}

// MarshalJSON encodes the value using its natural JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindBool:
		return json.Marshal(v.b)
	case KindRaw:
		if len(v.raw) == 0 {
			return []byte("null"), nil
		}
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes strings, booleans, numbers and arrays of scalars.
// Numbers keep their literal text. Anything else is preserved as raw JSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("model: decode string value: %w", err)
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return fmt.Errorf("model: decode bool value: %w", err)
		}
		*v = Bool(b)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("model: decode list value: %w", err)
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := scalarText(item)
			if !ok {
				*v = Raw(trimmed)
				return nil
			}
			list = append(list, s)
		}
		*v = Value{kind: KindList, list: list}
	case '{':
		*v = Raw(trimmed)
	default:
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err != nil {
			return fmt.Errorf("model: decode value: %w", err)
		}
		*v = String(num.String())
	}
	return nil
}

func scalarText(item json.RawMessage) (string, bool) {
	item = bytes.TrimSpace(item)
	if len(item) == 0 {
		return "", false
	}
	switch item[0] {
	case '"':
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return "", false
		}
		return s, true
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(item, &b); err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	case '{', '[', 'n':
		return "", false
	default:
		var num json.Number
		if err := json.Unmarshal(item, &num); err != nil {
			return "", false
		}
		return num.String(), true
	}
}
