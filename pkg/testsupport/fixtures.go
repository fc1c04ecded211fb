package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/pagefs"
)

// MustLoadPageData reads a JSON or YAML page data fixture.
func MustLoadPageData(t *testing.T, path string) model.PageData {
	t.Helper()

	data, err := LoadPageData(path)
	if err != nil {
		t.Fatalf("load page data: %v", err)
	}
	return data
}

// LoadPageData reads a page data fixture without requiring testing.T, so
// setup functions can share fixtures.
func LoadPageData(path string) (model.PageData, error) {
	if path == "" {
		return model.PageData{}, errors.New("testsupport: page data path is required")
	}
	data, err := pagefs.LoadDocument(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return model.PageData{}, fmt.Errorf("testsupport: %w", err)
	}
	return data, nil
}

// MustLoadSite loads a site directory through pagefs.LoadFS.
func MustLoadSite(t *testing.T, dir string) model.PageData {
	t.Helper()

	data, err := pagefs.LoadFS(os.DirFS(dir))
	if err != nil {
		t.Fatalf("load site %s: %v", dir, err)
	}
	return data
}

// Part builds a one-part catalog entry for tests.
func Part(id, body string) model.Part {
	return model.Part{ID: id, Title: id, Body: body}
}

// Catalog wraps parts in a single common type.
func Catalog(parts ...model.Part) model.PartTiers {
	return model.PartTiers{
		Common: []model.Type{{ID: "test", Type: "Test", Parts: parts}},
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
