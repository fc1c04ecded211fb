package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/orchestrator"
)

func presetPage() *model.PageData {
	child := &model.Component{ID: "c-42", PartID: "item"}
	child.Set("note", model.String("keep"))
	root := &model.Component{ID: "root", PartID: "hero", Slots: map[string]model.Slot{"items": {child}}}
	root.Set("title", model.String("Old"))
	return &model.PageData{
		Page:        []*model.Component{root},
		BackendData: map[string]any{"campaign": "winter", "user": "ada"},
	}
}

func TestPresetTransformer_YAML(t *testing.T) {
	preset, err := orchestrator.NewPresetTransformer([]byte(`
backendData:
  campaign: spring
components:
  page.0:
    title: Spring sale
  c-42:
    tags: [news, sale]
    note: null
`))
	if err != nil {
		t.Fatalf("preset: %v", err)
	}

	data := presetPage()
	if err := preset.Transform(context.Background(), data); err != nil {
		t.Fatalf("transform: %v", err)
	}

	if v, _ := data.Page[0].Get("title"); !v.Equal(model.String("Spring sale")) {
		t.Fatalf("title = %#v", v)
	}
	child := data.Page[0].Slot("items")[0]
	if v, _ := child.Get("tags"); !v.Equal(model.List("news", "sale")) {
		t.Fatalf("tags = %#v", v)
	}
	if _, ok := child.Get("note"); ok {
		t.Fatalf("expected null to unset the field")
	}
	want := map[string]any{"campaign": "spring", "user": "ada"}
	if diff := cmp.Diff(want, data.BackendData); diff != "" {
		t.Fatalf("backend mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetTransformer_FromFS(t *testing.T) {
	fsys := fstest.MapFS{"preset.json": {Data: []byte(`{"components":{"page.0.slots.items.0":{"note":"json"}}}`)}}
	preset, err := orchestrator.NewPresetTransformerFromFS(fsys, "preset.json")
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	data := presetPage()
	if err := preset.Transform(context.Background(), data); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if v, _ := data.Page[0].Slot("items")[0].Get("note"); !v.Equal(model.String("json")) {
		t.Fatalf("note = %#v", v)
	}
}

func TestPresetTransformer_Errors(t *testing.T) {
	if _, err := orchestrator.NewPresetTransformer([]byte("   ")); err == nil {
		t.Fatalf("expected empty document error")
	}
	if _, err := orchestrator.NewPresetTransformerFromFS(fstest.MapFS{}, "missing.json"); err == nil {
		t.Fatalf("expected read error")
	}

	preset, err := orchestrator.NewPresetTransformer([]byte(`{"components":{"ghost":{"title":"x"}}}`))
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	err = preset.Transform(context.Background(), presetPage())
	if err == nil || !strings.Contains(err.Error(), `component "ghost" not found`) {
		t.Fatalf("expected unknown target error, got %v", err)
	}
}

func TestChain_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var order []string
	step := func(name string, err error) orchestrator.Transformer {
		return orchestrator.TransformerFunc(func(context.Context, *model.PageData) error {
			order = append(order, name)
			return err
		})
	}
	chain := orchestrator.Chain(step("a", nil), nil, step("b", boom), step("c", nil))
	if err := chain.Transform(context.Background(), presetPage()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}
