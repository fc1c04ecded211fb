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

type fakeRenderer struct {
	name        string
	contentType string
}

func (f fakeRenderer) Name() string        { return f.name }
func (f fakeRenderer) ContentType() string { return f.contentType }
func (f fakeRenderer) Render(context.Context, model.PageData, render.RenderOptions) ([]byte, error) {
	return []byte(f.name), nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(fakeRenderer{name: "html", contentType: "text/html"})
	reg.MustRegister(fakeRenderer{name: "document", contentType: "text/html; charset=utf-8"})

	if err := reg.Register(fakeRenderer{name: "html"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if diff := cmp.Diff([]string{"document", "html"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	_, err := reg.Get("pdf")
	if !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
	if !strings.Contains(err.Error(), "available: document, html") {
		t.Fatalf("expected available names in %q", err)
	}

	r, err := reg.Get(" html ")
	if err != nil || r.Name() != "html" {
		t.Fatalf("expected html renderer, got %v %v", r, err)
	}
	if err := reg.Register(fakeRenderer{name: "  "}); err == nil {
		t.Fatalf("expected blank name to fail")
	}
}
