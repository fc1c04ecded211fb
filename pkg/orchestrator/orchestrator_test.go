package orchestrator_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/orchestrator"
	"github.com/goliatone/go-pagebuilder/pkg/render"
	"github.com/goliatone/go-pagebuilder/pkg/renderers/document"
	"github.com/goliatone/go-pagebuilder/pkg/testsupport"
)

func site() fstest.MapFS {
	return fstest.MapFS{
		"page.json":              {Data: []byte(`[{"id":"a","part_id":"hero","title":"Hi"},{"id":"b","part_id":"hero"}]`)},
		"parts/common/base.yaml": {Data: []byte("id: base\nparts:\n  - id: hero\n    body: <h1>{$title:Hello}</h1>\n")},
	}
}

func TestOrchestrator_DefaultRendererFromSource(t *testing.T) {
	orch := orchestrator.New()
	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{Source: site()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got, want := string(out), "<h1>Hi</h1><h1></h1>"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestOrchestrator_Backfill(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithBackfill(true))
	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{Source: site()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got, want := string(out), "<h1>Hi</h1><h1>Hello</h1>"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestOrchestrator_TransformerDoesNotMutateInput(t *testing.T) {
	c := &model.Component{ID: "a", PartID: "hero"}
	c.Set("title", model.String("Original"))
	data := &model.PageData{
		Page:  []*model.Component{c},
		Parts: testsupport.Catalog(testsupport.Part("hero", `<h1>{$title:Hello}</h1>`)),
	}

	called := false
	orch := orchestrator.New(orchestrator.WithTransformer(orchestrator.TransformerFunc(
		func(_ context.Context, d *model.PageData) error {
			called = true
			d.Page[0].Set("title", model.String("Patched"))
			return nil
		},
	)))
	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{Data: data})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !called {
		t.Fatalf("expected transformer to be invoked")
	}
	if string(out) != "<h1>Patched</h1>" {
		t.Fatalf("unexpected output %q", out)
	}
	if v, _ := c.Get("title"); !v.Equal(model.String("Original")) {
		t.Fatalf("input page mutated: %#v", v)
	}
}

func TestOrchestrator_NamedRenderer(t *testing.T) {
	doc, err := document.New(document.WithTitle("Site"))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister(doc)

	orch := orchestrator.New(orchestrator.WithRegistry(registry))
	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{Source: site(), Renderer: "document"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "<title>Site</title>") || !strings.Contains(string(out), "<h1>Hi</h1>") {
		t.Fatalf("unexpected document:\n%s", out)
	}

	// The default "html" is not registered here, so the first registered
	// renderer is used.
	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{Source: site()}); err != nil {
		t.Fatalf("fallback renderer: %v", err)
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	orch := orchestrator.New()
	cases := []struct {
		name string
		req  orchestrator.Request
		want string
	}{
		{name: "no input", req: orchestrator.Request{}, want: "source or data is required"},
		{name: "unknown renderer", req: orchestrator.Request{Data: &model.PageData{}, Renderer: "pdf"}, want: `renderer "pdf"`},
		{name: "bad site", req: orchestrator.Request{Source: fstest.MapFS{"page.json": {Data: []byte("{")}}}, want: "load site"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := orch.Generate(testsupport.Context(), tt.req)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.Generate(ctx, orchestrator.Request{Data: &model.PageData{}}); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}
