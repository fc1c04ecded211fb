package fields

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/registry"
)

func TestExtract_DocumentOrderAndFirstWins(t *testing.T) {
	template := `<section z-if="showHero" class="hero {$theme?:light}">
  <h2 z-tag="$level:h2|h3">{$title:Welcome:required:max=40}</h2>
  <p>{$title:Ignored}</p>
  <div>{$intro::rich}</div>
  <img src="{$hero:img-1:image}" alt="{$alt.media?:Photo}">
  <span>($align:left|right) ($tags@:news,sale)</span>
  <ul><li z-for="item in {@items}">{item.name}</li></ul>
</section>`

	got, err := Extract(template)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := []model.FieldDescriptor{
		{Name: "showHero", Type: model.FieldBoolean, Default: "true"},
		{Name: "theme", Type: model.FieldText, Default: "light", Optional: true},
		{Name: "level", Type: model.FieldTag, Default: "h2", Options: []string{"h2", "h3"}},
		{Name: "title", Type: model.FieldText, Default: "Welcome", Required: true, MaxLength: 40},
		{Name: "intro", Type: model.FieldRich},
		{Name: "hero", Type: model.FieldImage, Default: "img-1"},
		{Name: "alt", Group: "media", Type: model.FieldText, Default: "Photo", Optional: true},
		{Name: "align", Type: model.FieldRadio, Options: []string{"left", "right"}},
		{Name: "tags", Type: model.FieldSelectMultiple, Options: []string{"news", "sale"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptors mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_TagDefaultFallsBackToFirstOption(t *testing.T) {
	got, err := Extract(`<div z-tag="$heading:h1|h2">x</div>`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 1 || got[0].Default != "h1" {
		t.Fatalf("unexpected descriptors: %+v", got)
	}

	got, err = Extract(`<h3 z-tag="$heading">x</h3>`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 1 || got[0].Default != "h3" || got[0].Options != nil {
		t.Fatalf("unexpected descriptors: %+v", got)
	}
}

func TestExtract_TableContent(t *testing.T) {
	got, err := Extract(`<tr><td>{$cell:A}</td></tr>`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 1 || got[0].Name != "cell" {
		t.Fatalf("unexpected descriptors: %+v", got)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 20; i++ {
		var b strings.Builder
		n := faker.IntRange(1, 8)
		for j := 0; j < n; j++ {
			name := "f" + faker.LetterN(6)
			switch faker.IntRange(0, 3) {
			case 0:
				fmt.Fprintf(&b, "<p>{$%s:%s}</p>", name, faker.Word())
			case 1:
				fmt.Fprintf(&b, `<a href="{$%s?:/%s}">x</a>`, name, faker.Word())
			case 2:
				fmt.Fprintf(&b, "<div>($%s:%s|%s)</div>", name, faker.Word(), faker.Word())
			default:
				fmt.Fprintf(&b, `<div z-if="%s"></div>`, name)
			}
		}
		first, err := Extract(b.String())
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		second, err := Extract(b.String())
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("extraction is not deterministic for %q (-first +second):\n%s", b.String(), diff)
		}
	}
}

func TestDefaultValue(t *testing.T) {
	tests := []struct {
		name string
		d    model.FieldDescriptor
		want model.Value
	}{
		{name: "text", d: model.FieldDescriptor{Type: model.FieldText, Default: "Hi"}, want: model.String("Hi")},
		{name: "text empty", d: model.FieldDescriptor{Type: model.FieldText}, want: model.String("")},
		{name: "textarea", d: model.FieldDescriptor{Type: model.FieldTextarea, Default: "a"}, want: model.String("a")},
		{name: "rich", d: model.FieldDescriptor{Type: model.FieldRich, Default: "Hi"}, want: model.String("<p>Hi</p>")},
		{name: "rich empty", d: model.FieldDescriptor{Type: model.FieldRich}, want: model.String("<p></p>")},
		{name: "image", d: model.FieldDescriptor{Type: model.FieldImage, Default: "img-1"}, want: model.String("img-1")},
		{name: "radio", d: model.FieldDescriptor{Type: model.FieldRadio, Options: []string{"a", "b"}}, want: model.String("a")},
		{name: "select no options", d: model.FieldDescriptor{Type: model.FieldSelect}, want: model.String("")},
		{name: "checkbox", d: model.FieldDescriptor{Type: model.FieldCheckbox, Options: []string{"a"}}, want: model.List()},
		{name: "select multiple", d: model.FieldDescriptor{Type: model.FieldSelectMultiple}, want: model.List()},
		{name: "boolean", d: model.FieldDescriptor{Type: model.FieldBoolean, Default: "true"}, want: model.Bool(true)},
		{name: "tag", d: model.FieldDescriptor{Type: model.FieldTag, Default: "h2"}, want: model.String("h2")},
		{name: "tag empty", d: model.FieldDescriptor{Type: model.FieldTag}, want: model.String("div")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, DefaultValue(tt.d)); diff != "" {
				t.Fatalf("default mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBackfill_NeverOverwrites(t *testing.T) {
	descriptors := MustExtract(`<p>{$title:Hello}</p><p>{$sub?:x}</p><div z-if="show"></div>`)
	c := &model.Component{ID: "c", PartID: "p"}
	c.Set("title", model.String(""))

	filled := Backfill(c, descriptors)
	if diff := cmp.Diff([]string{"show"}, filled); diff != "" {
		t.Fatalf("filled mismatch (-want +got):\n%s", diff)
	}
	if v, _ := c.Get("title"); !v.Equal(model.String("")) {
		t.Fatalf("existing value was overwritten: %#v", v)
	}
	if _, ok := c.Get("sub"); ok {
		t.Fatalf("optional field should stay unset")
	}
}

func TestEditable(t *testing.T) {
	part := model.Part{ID: "p", Body: `<h2 z-tag="$level">{$title:Hello}</h2><p>{$note?:n}</p>`}
	c := &model.Component{ID: "c", PartID: "p"}
	c.Set("level", model.String("h3"))

	got, err := Editable(part, c)
	if err != nil {
		t.Fatalf("editable: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(got))
	}
	if got[0].Label != "Level" || !got[0].Current.Equal(model.String("h3")) || len(got[0].Options) != 30 {
		t.Fatalf("unexpected tag field: %+v", got[0])
	}
	if !got[1].Current.Equal(model.String("Hello")) {
		t.Fatalf("expected default to be shown for unset title, got %#v", got[1].Current)
	}
	if got[2].Current.IsSet() {
		t.Fatalf("optional field should have no current value")
	}
}

func TestAssign(t *testing.T) {
	descriptors := MustExtract(`<p>{$title:Hi:required:max=5}</p><p>{$sub?:x}</p>($align:l|r)($tags:a,b)<i z-if="show"></i><b>{$code:X:readonly}</b>`)
	byName := map[string]model.FieldDescriptor{}
	for _, d := range descriptors {
		byName[d.Name] = d
	}

	tests := []struct {
		name    string
		field   string
		value   model.Value
		wantErr error
	}{
		{name: "valid text", field: "title", value: model.String("Hey")},
		{name: "too long", field: "title", value: model.String("Hello!"), wantErr: ErrTooLong},
		{name: "required cleared", field: "title", value: model.String(""), wantErr: ErrRequired},
		{name: "optional cleared", field: "sub", value: model.String("")},
		{name: "radio option", field: "align", value: model.String("r")},
		{name: "radio foreign", field: "align", value: model.String("x"), wantErr: ErrNotAnOption},
		{name: "checkbox wrong kind", field: "tags", value: model.String("a"), wantErr: ErrKindMismatch},
		{name: "checkbox foreign", field: "tags", value: model.List("a", "z"), wantErr: ErrNotAnOption},
		{name: "boolean", field: "show", value: model.Bool(false)},
		{name: "boolean wrong kind", field: "show", value: model.String("false"), wantErr: ErrKindMismatch},
		{name: "readonly", field: "code", value: model.String("Y"), wantErr: ErrReadOnly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &model.Component{ID: "c", PartID: "p"}
			c.Set("sub", model.String("prev"))
			err := Assign(c, byName[tt.field], tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok := c.Get(tt.field)
			if s, isStr := tt.value.Str(); isStr && s == "" && byName[tt.field].Optional {
				if ok {
					t.Fatalf("expected optional field to be cleared, got %#v", got)
				}
				return
			}
			if !got.Equal(tt.value) {
				t.Fatalf("stored %#v, want %#v", got, tt.value)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"title":        "Title",
		"hero_image":   "Hero image",
		"showHeroText": "Show Hero Text",
		"_private":     " Private",
		"":             "",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractSlots(t *testing.T) {
	got, err := ExtractSlots(`<div z-slot="items"></div><div z-slot></div><div z-slot="items"></div>`)
	if err != nil {
		t.Fatalf("extract slots: %v", err)
	}
	if diff := cmp.Diff([]string{"items", "default"}, got); diff != "" {
		t.Fatalf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestImageReferences(t *testing.T) {
	catalog := registry.NewCatalog(model.PartTiers{Common: []model.Type{{
		ID: "t",
		Parts: []model.Part{
			{ID: "card", Body: `<img src="{$photo:img-0:image}">`},
			{ID: "list", Body: `<ul z-slot="items"></ul>`},
		},
	}}})

	child := &model.Component{ID: "c2", PartID: "card"}
	child.Set("photo", model.String("img-2"))
	top := &model.Component{ID: "c1", PartID: "card"}
	top.Set("photo", model.String("img-1"))
	page := []*model.Component{
		top,
		{ID: "l", PartID: "list", Slots: map[string]model.Slot{"items": {child}}},
		{ID: "x", PartID: "missing"},
	}

	got, err := ImageReferences(page, catalog)
	if err != nil {
		t.Fatalf("image references: %v", err)
	}
	want := []ImageRef{
		{Path: "page.0", Field: "photo", ImageID: "img-1"},
		{Path: "page.1.slots.items.0", Field: "photo", ImageID: "img-2"},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("refs mismatch (-want +got):\n%s", diff)
	}
}
