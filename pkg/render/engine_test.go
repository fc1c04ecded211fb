package render_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func pageData(parts []model.Part, page ...*model.Component) model.PageData {
	return model.PageData{
		Page: page,
		Parts: model.PartTiers{
			Common: []model.Type{{ID: "basic", Type: "Basic", Parts: parts}},
		},
	}
}

func heading(id, title string) *model.Component {
	c := &model.Component{ID: id, PartID: "heading"}
	if title != "" {
		c.Set("title", model.String(title))
	}
	return c
}

var testParts = []model.Part{
	{ID: "heading", Body: `<h1>{$title:Hello}</h1>`},
	{ID: "box", Body: `<div z-slot="kids"></div>`},
}

func TestEngine_RendersPageInOrder(t *testing.T) {
	engine := render.NewEngine()
	data := pageData(testParts, heading("a", "First"), heading("b", "Second"))

	got, err := engine.Render(context.Background(), data, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<h1>First</h1><h1>Second</h1>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_MissingPartRecoversLocally(t *testing.T) {
	engine := render.NewEngine()
	data := pageData(testParts,
		heading("a", "A"),
		&model.Component{ID: "g", PartID: "ghost"},
		heading("c", ""),
	)

	got, err := engine.Render(context.Background(), data, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<h1>A</h1>` +
		`<div class="zcode-error-message" data-error-code="PART_NOT_FOUND">part not found: ghost</div>` +
		`<h1></h1>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_StrictPropagates(t *testing.T) {
	engine := render.NewEngine()
	data := pageData(testParts, heading("a", "A"), &model.Component{ID: "g", PartID: "ghost"})

	_, err := engine.Render(context.Background(), data, render.RenderOptions{Strict: true})
	if !errors.Is(err, render.ErrPartNotFound) {
		t.Fatalf("expected ErrPartNotFound, got %v", err)
	}
	var rerr *render.RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RenderError, got %T", err)
	}
	if rerr.Path != "page.1" || rerr.PartID != "ghost" {
		t.Fatalf("unexpected error location: %+v", rerr)
	}
}

func TestEngine_StrictValidatesPageData(t *testing.T) {
	engine := render.NewEngine()
	data := pageData(testParts, &model.Component{PartID: "heading"})

	_, err := engine.Render(context.Background(), data, render.RenderOptions{Strict: true})
	if !errors.Is(err, render.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation cause, got %v", err)
	}
}

func TestEngine_CircularReference(t *testing.T) {
	engine := render.NewEngine()
	loop := &model.Component{ID: "loop", PartID: "box"}
	loop.Slots = map[string]model.Slot{"kids": {loop}}
	data := pageData(testParts, loop, heading("after", "Still here"))

	got, err := engine.Render(context.Background(), data, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div><div class="zcode-error-message" data-error-code="CIRCULAR_REFERENCE">circular reference detected: page.0.slots.kids.0</div></div>` +
		`<h1>Still here</h1>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_MaxDepth(t *testing.T) {
	engine := render.NewEngine(render.WithMaxDepth(1))
	outer := &model.Component{ID: "outer", PartID: "box"}
	outer.Slots = map[string]model.Slot{"kids": {heading("inner", "x")}}

	got, err := engine.Render(context.Background(), pageData(testParts, outer), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, `data-error-code="CIRCULAR_REFERENCE"`) {
		t.Fatalf("expected depth guard marker, got %q", got)
	}
}

func TestEngine_NestedSlots(t *testing.T) {
	engine := render.NewEngine()
	outer := &model.Component{ID: "outer", PartID: "box"}
	inner := &model.Component{ID: "inner", PartID: "box"}
	inner.Slots = map[string]model.Slot{"kids": {heading("h", "Deep")}}
	outer.Slots = map[string]model.Slot{"kids": {inner, heading("h2", "Shallow")}}

	got, err := engine.Render(context.Background(), pageData(testParts, outer), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div><div><h1>Deep</h1></div><h1>Shallow</h1></div>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_EditorInjectsRootAttributes(t *testing.T) {
	engine := render.NewEngine()
	parts := []model.Part{{ID: "hero", Body: `<section class="hero"><h1>{$title:Hi}</h1></section>`}}
	c := &model.Component{ID: "c1", PartID: "hero"}
	c.Set("title", model.String("A"))

	got, err := engine.Render(context.Background(), pageData(parts, c), render.RenderOptions{Editor: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<section class="hero" data-zcode-id="c1" data-zcode-part="hero" data-zcode-path="page.0"><h1>A</h1></section>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_EditorChildPaths(t *testing.T) {
	engine := render.NewEngine()
	outer := &model.Component{ID: "outer", PartID: "box"}
	outer.Slots = map[string]model.Slot{"kids": {heading("h", "Deep")}}

	got, err := engine.Render(context.Background(), pageData(testParts, outer), render.RenderOptions{Editor: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div data-zcode-id="outer" data-zcode-part="box" data-zcode-path="page.0">` +
		`<h1 data-zcode-id="h" data-zcode-part="heading" data-zcode-path="page.0.slots.kids.0">Deep</h1></div>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_TranslatesEditorText(t *testing.T) {
	engine := render.NewEngine()
	data := pageData(testParts,
		&model.Component{ID: "empty", PartID: "box"},
		&model.Component{ID: "g", PartID: "ghost"},
	)
	opts := render.RenderOptions{
		Editor: true,
		Locale: "es",
		Translator: stubTranslator{
			render.KeyAddSlot:                  "+ Añadir",
			"pagebuilder.error.part_not_found": "Pieza desconocida",
		},
	}

	got, err := engine.Render(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<button class="zcode-add-slot-btn" data-zcode-add-slot="">+ Añadir</button>`,
		`data-error-code="PART_NOT_FOUND">Pieza desconocida</div>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}

func TestEngine_MissingTranslationHandler(t *testing.T) {
	engine := render.NewEngine()
	data := pageData(testParts, &model.Component{ID: "g", PartID: "ghost"})
	opts := render.RenderOptions{
		OnMissing: func(_ string, key string, _ []any, _ error) string { return "[" + key + "]" },
	}

	got, err := engine.Render(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div class="zcode-error-message" data-error-code="PART_NOT_FOUND">[pagebuilder.error.part_not_found]</div>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_MarkerEscapesMessage(t *testing.T) {
	engine := render.NewEngine()
	data := pageData(testParts, &model.Component{ID: "g", PartID: `<script>`})

	got, err := engine.Render(context.Background(), data, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div class="zcode-error-message" data-error-code="PART_NOT_FOUND">part not found: &lt;script&gt;</div>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_DoesNotMutateInput(t *testing.T) {
	engine := render.NewEngine()
	c := heading("a", "A")
	before := c.Clone()

	if _, err := engine.Render(context.Background(), pageData(testParts, c), render.RenderOptions{Editor: true}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(before, c); diff != "" {
		t.Fatalf("component mutated (-before +after):\n%s", diff)
	}
}

func TestEngine_CustomInjector(t *testing.T) {
	var seen []map[string]string
	engine := render.NewEngine(render.WithAttributeInjector(func(html string, attrs map[string]string) (string, error) {
		seen = append(seen, attrs)
		return html, nil
	}))

	if _, err := engine.Render(context.Background(), pageData(testParts, heading("a", "A")), render.RenderOptions{Editor: true}); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []map[string]string{{
		render.AttrComponentID:   "a",
		render.AttrComponentPart: "heading",
		render.AttrComponentPath: "page.0",
	}}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("injector attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_RenderComponent(t *testing.T) {
	engine := render.NewEngine()
	outer := &model.Component{ID: "outer", PartID: "box"}
	outer.Slots = map[string]model.Slot{"kids": {heading("h", "Deep")}}
	data := pageData(testParts, outer)

	got, err := engine.RenderComponent(context.Background(), data, "page.0.slots.kids.0", render.RenderOptions{Editor: true})
	if err != nil {
		t.Fatalf("render component: %v", err)
	}
	want := `<h1 data-zcode-id="h" data-zcode-part="heading" data-zcode-path="page.0.slots.kids.0">Deep</h1>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	if _, err := engine.RenderComponent(context.Background(), data, "page.4", render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}

func TestEngine_Minify(t *testing.T) {
	engine := render.NewEngine()
	parts := []model.Part{{ID: "spaced", Body: "<div>\n    <p>  {$t:x}  </p>\n</div>"}}
	c := &model.Component{ID: "s", PartID: "spaced"}
	c.Set("t", model.String("hi"))

	got, err := engine.Render(context.Background(), pageData(parts, c), render.RenderOptions{Minify: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "\n") {
		t.Fatalf("expected minified output, got %q", got)
	}
	if !strings.Contains(got, "hi") || !strings.Contains(got, "</div>") {
		t.Fatalf("minify dropped content: %q", got)
	}
}

func TestEngine_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := render.NewEngine().Render(ctx, pageData(testParts, heading("a", "A")), render.RenderOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
