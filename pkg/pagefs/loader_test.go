package pagefs_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/pagefs"
)

func TestLoadFS_SiteDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"page.json":    {Data: []byte(`[{"id":"a","part_id":"hero","title":"Hi","slots":{"items":[{"id":"b","part_id":"item"}]}}]`)},
		"backend.yaml": {Data: []byte("user:\n  name: Ada\ncount: 3\n")},
		"parts/common/layout.yaml": {Data: []byte(`
id: layout
type: Layout
parts:
  - id: hero
    body: <h1>{$title:Hi}</h1>
    slots:
      items:
        allowedParts: [item]
`)},
		"parts/special/extra.json": {Data: []byte(`[{"id":"extra","type":"Extra","parts":[{"id":"item","body":"<li></li>","slotOnly":true}]}]`)},
		"images/individual.yaml":   {Data: []byte("- id: logo\n  url: /logo.svg\n")},
		"css/common.css":           {Data: []byte(".a{}")},
		"README.md":                {Data: []byte("ignored")},
	}

	data, err := pagefs.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(data.Page) != 1 || data.Page[0].PartID != "hero" {
		t.Fatalf("unexpected page: %+v", data.Page)
	}
	if v, _ := data.Page[0].Get("title"); !v.Equal(model.String("Hi")) {
		t.Fatalf("expected flattened field, got %#v", v)
	}
	if got := data.Page[0].Slot("items"); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("unexpected slot children: %+v", got)
	}

	wantBackend := map[string]any{"user": map[string]any{"name": "Ada"}, "count": float64(3)}
	if diff := cmp.Diff(wantBackend, data.BackendData); diff != "" {
		t.Fatalf("backend mismatch (-want +got):\n%s", diff)
	}

	wantParts := model.PartTiers{
		Common: []model.Type{{ID: "layout", Type: "Layout", Parts: []model.Part{{
			ID:    "hero",
			Body:  "<h1>{$title:Hi}</h1>",
			Slots: map[string]model.SlotConfig{"items": {AllowedParts: []string{"item"}}},
		}}}},
		Special: []model.Type{{ID: "extra", Type: "Extra", Parts: []model.Part{{ID: "item", Body: "<li></li>", SlotOnly: true}}}},
	}
	if diff := cmp.Diff(wantParts, data.Parts); diff != "" {
		t.Fatalf("parts mismatch (-want +got):\n%s", diff)
	}

	wantImages := model.ImageTiers{Individual: []model.ImageEntry{{ID: "logo", URL: "/logo.svg"}}}
	if diff := cmp.Diff(wantImages, data.Images); diff != "" {
		t.Fatalf("images mismatch (-want +got):\n%s", diff)
	}
	if data.CSS.Common != ".a{}" {
		t.Fatalf("expected common css, got %q", data.CSS.Common)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{
			name: "unknown tier",
			fsys: fstest.MapFS{"images/premium.json": {Data: []byte(`[]`)}},
			want: `unknown tier "premium"`,
		},
		{
			name: "duplicate page",
			fsys: fstest.MapFS{
				"page.json": {Data: []byte(`[]`)},
				"page.yaml": {Data: []byte(`[]`)},
			},
			want: "duplicate page file",
		},
		{
			name: "empty file",
			fsys: fstest.MapFS{"backend.json": {Data: []byte("  ")}},
			want: "is empty",
		},
		{
			name: "type without id",
			fsys: fstest.MapFS{"parts/common/x.yaml": {Data: []byte("type: Nameless\n")}},
			want: "type without id",
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pagefs.LoadFS(tt.fsys)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFS_Nil(t *testing.T) {
	data, err := pagefs.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Page) != 0 {
		t.Fatalf("expected empty page data")
	}
}

func TestLoadDocument_YAML(t *testing.T) {
	fsys := fstest.MapFS{"site.yaml": {Data: []byte(`
page:
  - id: a
    part_id: hero
    tags: [x, y]
parts:
  common:
    - id: t
      parts:
        - id: hero
          body: <p>($tags:x,y,z)</p>
`)}}

	data, err := pagefs.LoadDocument(fsys, "site.yaml")
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	if v, _ := data.Page[0].Get("tags"); !v.Equal(model.List("x", "y")) {
		t.Fatalf("expected list value, got %#v", v)
	}
	if len(data.Parts.Common) != 1 || data.Parts.Common[0].Parts[0].ID != "hero" {
		t.Fatalf("unexpected parts: %+v", data.Parts)
	}
}

func TestStarterFS_Loads(t *testing.T) {
	data, err := pagefs.LoadFS(pagefs.StarterFS())
	if err != nil {
		t.Fatalf("load starter: %v", err)
	}
	if err := model.Validate(data); err != nil {
		t.Fatalf("starter data invalid: %v", err)
	}
	if len(data.Page) == 0 || len(data.Parts.Common) == 0 || len(data.Images.Common) == 0 {
		t.Fatalf("starter data incomplete: %+v", data)
	}
	if data.CSS.Common == "" || data.BackendData["news"] == nil {
		t.Fatalf("starter css or backend data missing")
	}
}
