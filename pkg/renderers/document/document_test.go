package document_test

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/render"
	"github.com/goliatone/go-pagebuilder/pkg/renderers/document"
	"github.com/goliatone/go-pagebuilder/pkg/testsupport"
)

func samplePage() model.PageData {
	c := &model.Component{ID: "a", PartID: "title"}
	c.Set("text", model.String("Hello"))
	return model.PageData{
		Page:  []*model.Component{c},
		Parts: testsupport.Catalog(testsupport.Part("title", `<h1>{$text:x}</h1>`)),
		CSS:   model.CSSTiers{Common: "h1{color:red}", Special: ".s{}"},
	}
}

func renderDoc(t *testing.T, r *document.Renderer, data model.PageData, opts render.RenderOptions) string {
	t.Helper()
	out, err := r.Render(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, doc string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(doc, w) {
			t.Fatalf("expected %q in document:\n%s", w, doc)
		}
	}
}

func TestRenderer_PublicDocument(t *testing.T) {
	r, err := document.New(document.WithTitle("Home"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	doc := renderDoc(t, r, samplePage(), render.RenderOptions{})

	assertContains(t, doc,
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Home</title>",
		`<link rel="stylesheet" href="assets/pagebuilder.css">`,
		`<style data-tier="common">h1{color:red}</style>`,
		`<style data-tier="special">.s{}</style>`,
		`<main id="pagebuilder-root"><h1>Hello</h1></main>`,
	)
	if strings.Contains(doc, `data-tier="individual"`) {
		t.Fatalf("empty tiers must be omitted:\n%s", doc)
	}
	if strings.Contains(doc, "pagebuilder-editor.js") || strings.Contains(doc, "pagebuilder-data") {
		t.Fatalf("public documents must not load the editor:\n%s", doc)
	}
	if strings.Index(doc, `data-tier="common"`) > strings.Index(doc, `data-tier="special"`) {
		t.Fatalf("tiers out of order:\n%s", doc)
	}
}

func TestRenderer_EditorDocument(t *testing.T) {
	r, err := document.New(document.WithAssetURLPrefix("/static"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	data := samplePage()
	data.Page[0].Set("text", model.String("</script><b>"))
	doc := renderDoc(t, r, data, render.RenderOptions{Editor: true, Locale: "ja"})

	assertContains(t, doc,
		`<html lang="ja">`,
		`<link rel="stylesheet" href="/static/assets/pagebuilder-editor.css">`,
		`<script src="/static/assets/pagebuilder-editor.js" defer></script>`,
		`data-zcode-id="a"`,
		`<script id="pagebuilder-data" type="application/json">`,
		`\u003c/script\u003e\u003cb\u003e`,
		`&lt;/script&gt;&lt;b&gt;`,
	)
	if strings.Contains(doc, "</script><b>") {
		t.Fatalf("field values must not break out of the data script:\n%s", doc)
	}
}

func TestRenderer_Theme(t *testing.T) {
	r, err := document.New(document.WithLang("de"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	opts := render.RenderOptions{Theme: &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--brand": "#123456", "--accent": "#fff"},
		AssetURL: func(key string) string {
			if key == "pagebuilder.stylesheet" {
				return "/themes/acme/site.css"
			}
			return ""
		},
	}}
	doc := renderDoc(t, r, samplePage(), opts)

	assertContains(t, doc,
		`<html lang="de">`,
		`<body data-theme="acme" data-theme-variant="dark">`,
		":root {\n--accent: #fff;\n--brand: #123456;\n}",
		`<link rel="stylesheet" href="/themes/acme/site.css">`,
	)
}

func TestNew_MissingAsset(t *testing.T) {
	_, err := document.New(document.WithAssetPaths(document.AssetPaths{EditorScript: "assets/missing.js"}))
	if err == nil || !strings.Contains(err.Error(), "missing.js") {
		t.Fatalf("expected missing asset error, got %v", err)
	}
}

func TestAssetsFS(t *testing.T) {
	for _, name := range []string{"assets/pagebuilder.css", "assets/pagebuilder-editor.js", "assets/pagebuilder-editor.css"} {
		if _, err := document.AssetsFS().Open(name); err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
	}
}
