package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-pagebuilder/pkg/render"
)

func TestRenderError_Matching(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		code     render.Code
		sentinel error
	}{
		{render.CodePartNotFound, render.ErrPartNotFound},
		{render.CodeCircularReference, render.ErrCircularReference},
		{render.CodeParseError, render.ErrParse},
	}
	for _, tt := range cases {
		t.Run(string(tt.code), func(t *testing.T) {
			err := error(&render.RenderError{Code: tt.code, Path: "page.0", Message: "msg", Err: cause})
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected %v to match %v", err, tt.sentinel)
			}
			if !errors.Is(err, cause) {
				t.Fatalf("expected cause to be reachable")
			}
		})
	}
}

func TestRenderError_Message(t *testing.T) {
	err := &render.RenderError{Code: render.CodePartNotFound, Path: "page.2", Message: "part not found: x"}
	if got, want := err.Error(), "render: PART_NOT_FOUND at page.2: part not found: x"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if errors.Is(err, render.ErrParse) {
		t.Fatalf("part errors must not match ErrParse")
	}
}
