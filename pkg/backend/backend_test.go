package backend

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleData(t *testing.T) map[string]any {
	t.Helper()
	raw := `{
		"user": {"name": "John Doe", "profile": {"age": 30, "score": 9.5}},
		"items": [{"id": 1, "name": "Item 1"}, {"id": 2, "name": "Item 2"}],
		"active": true,
		"nothing": null,
		"shop_id": "s-42"
	}`
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	return data
}

func TestResolve(t *testing.T) {
	data := sampleData(t)
	tests := []struct {
		path string
		want string
	}{
		{path: "user.name", want: "John Doe"},
		{path: "user.profile.age", want: "30"},
		{path: "user.profile.score", want: "9.5"},
		{path: "items[0].name", want: "Item 1"},
		{path: "items.1.name", want: "Item 2"},
		{path: "items[5].name", want: ""},
		{path: "user.missing", want: ""},
		{path: "nothing", want: ""},
		{path: "active", want: "true"},
		{path: "user", want: ""},
		{path: "user.name.first", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Resolve(data, tt.path); got != tt.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestLookup_TypedValues(t *testing.T) {
	type row struct{ Name string }
	data := map[string]any{
		"rows":   []map[string]string{{"name": "a"}},
		"counts": []int{3, 4},
	}
	if got := Resolve(data, "rows[0].name"); got != "a" {
		t.Fatalf("typed map lookup = %q", got)
	}
	if got := Resolve(data, "counts[1]"); got != "4" {
		t.Fatalf("typed slice lookup = %q", got)
	}
	if _, ok := Lookup(map[string]any{"r": row{Name: "x"}}, "r.Name"); ok {
		t.Fatalf("struct fields are not addressable by path")
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("items[0].tags[2]..x")
	want := []string{"items", "0", "tags", "2", "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandURLPlaceholders(t *testing.T) {
	data := sampleData(t)
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "present key", raw: "/shop/{shop_id}/products", want: "/shop/s-42/products"},
		{name: "absent key left as is", raw: "/shop/{missing}/x", want: "/shop/{missing}/x"},
		{name: "null key left as is", raw: "/n/{nothing}", want: "/n/{nothing}"},
		{name: "composite not expanded", raw: "/u/{user}", want: "/u/{user}"},
		{name: "field tokens untouched", raw: "{$link:#}", want: "{$link:#}"},
		{name: "unterminated", raw: "/a/{shop_id", want: "/a/{shop_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandURLPlaceholders(tt.raw, data); got != tt.want {
				t.Fatalf("ExpandURLPlaceholders(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExpandURLPlaceholdersFunc(t *testing.T) {
	data := map[string]any{"shop_id": "s-42", "slug": "global"}
	fn := func(key, value string) (string, bool) {
		if key == "slug" {
			return "", false
		}
		return strings.ToUpper(value), true
	}
	got := ExpandURLPlaceholdersFunc("/shop/{shop_id}/{slug}", data, fn)
	if want := "/shop/S-42/{slug}"; got != want {
		t.Fatalf("ExpandURLPlaceholdersFunc = %q, want %q", got, want)
	}
}

func TestSequence(t *testing.T) {
	if _, ok := Sequence("abc"); ok {
		t.Fatalf("strings are not sequences")
	}
	items, ok := Sequence([]string{"a", "b"})
	if !ok || len(items) != 2 {
		t.Fatalf("Sequence([]string) = %v, %v", items, ok)
	}
}
