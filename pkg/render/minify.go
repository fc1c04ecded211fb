package render

import (
	"fmt"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifierOnce sync.Once
	minifier     *minify.M
)

func htmlMinifier() *minify.M {
	minifierOnce.Do(func() {
		m := minify.New()
		m.Add("text/html", &html.Minifier{
			KeepEndTags:      true,
			KeepQuotes:       true,
			KeepDocumentTags: true,
		})
		minifier = m
	})
	return minifier
}

// Minify compacts rendered markup. End tags, attribute quotes and document
// tags are kept so the output stays parseable by the editor.
func Minify(markup string) (string, error) {
	out, err := htmlMinifier().String("text/html", markup)
	if err != nil {
		return "", fmt.Errorf("render: minify: %w", err)
	}
	return out, nil
}
