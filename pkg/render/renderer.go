package render

import (
	"context"

	"github.com/goliatone/go-pagebuilder/pkg/model"
)

// Renderer converts page data into a byte representation (an HTML fragment, a
// full document, an editing session transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, data model.PageData, options RenderOptions) ([]byte, error)
}
