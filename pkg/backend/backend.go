// Package backend resolves {@path} references and {key} URL placeholders
// against the opaque backend data supplied with a page.
package backend

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// Tokenize splits a path such as items[0].name on '.', '[' and ']',
// discarding empty tokens.
func Tokenize(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '.' || r == '[' || r == ']'
	})
}

// Lookup walks data along path. Numeric tokens index sequences and must be in
// bounds; other tokens look up mapping keys. A nil final value counts as not
// found.
func Lookup(data any, path string) (any, bool) {
	current := data
	for _, token := range Tokenize(path) {
		next, ok := step(current, token)
		if !ok {
			return nil, false
		}
		current = next
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// Resolve returns the string form of the value at path, or the empty string
// when the path cannot be resolved.
func Resolve(data any, path string) string {
	v, ok := Lookup(data, path)
	if !ok {
		return ""
	}
	s, _ := Stringify(v)
	return s
}

// Stringify renders scalars. Composite values are not coerced and report
// false.
func Stringify(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case fmtStringer:
		return x.String(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	}
	return "", false
}

type fmtStringer interface {
	String() string
}

// Sequence returns v as a slice of items when it is a sequence.
func Sequence(v any) ([]any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case []any:
		return x, true
	case []map[string]any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, true
	case string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// ExpandURLPlaceholders replaces {key} placeholders with top-level backend
// values. Placeholders whose key is absent or null are left untouched.
func ExpandURLPlaceholders(raw string, data map[string]any) string {
	return ExpandURLPlaceholdersFunc(raw, data, nil)
}

// PlaceholderFunc rewrites the value of a resolved {key} placeholder. When it
// reports false the placeholder is left untouched.
type PlaceholderFunc func(key, value string) (string, bool)

// ExpandURLPlaceholdersFunc is ExpandURLPlaceholders with every substituted
// value passed through fn. A nil fn keeps values as they are.
func ExpandURLPlaceholdersFunc(raw string, data map[string]any, fn PlaceholderFunc) string {
	if len(data) == 0 || !strings.Contains(raw, "{") {
		return raw
	}
	var b strings.Builder
	for i := 0; i < len(raw); {
		if raw[i] == '{' {
			j := i + 1
			for j < len(raw) && isWordByte(raw[j]) {
				j++
			}
			if j > i+1 && j < len(raw) && raw[j] == '}' {
				key := raw[i+1 : j]
				if v, ok := data[key]; ok && v != nil {
					if s, ok := Stringify(v); ok {
						if fn != nil {
							s, ok = fn(key, s)
						}
						if ok {
							b.WriteString(s)
							i = j + 1
							continue
						}
					}
				}
			}
		}
		b.WriteByte(raw[i])
		i++
	}
	return b.String()
}

func step(current any, token string) (any, bool) {
	if isIndex(token) {
		items, ok := Sequence(current)
		if !ok {
			return nil, false
		}
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 0 || idx >= len(items) {
			return nil, false
		}
		return items[idx], true
	}

	switch m := current.(type) {
	case map[string]any:
		v, ok := m[token]
		return v, ok
	case map[string]string:
		v, ok := m[token]
		return v, ok
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(current)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		v := rv.MapIndex(reflect.ValueOf(token).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	}
	return nil, false
}

func isIndex(token string) bool {
	if token == "" {
		return false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return false
		}
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
