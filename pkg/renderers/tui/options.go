package tui

import (
	"io"
	"log/slog"
)

// OutputFormat controls how the edited page is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the edited page components as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits one path=value line per set field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the renderer applies to messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithPaths restricts the session to the components at paths. Descendants of
// a listed component are not included unless listed too.
func WithPaths(paths ...string) Option {
	return func(r *Renderer) {
		for _, p := range paths {
			if r.paths == nil {
				r.paths = make(map[string]struct{}, len(paths))
			}
			r.paths[p] = struct{}{}
		}
	}
}

// WithInfoWriter sets where the survey driver prints informational lines.
func WithInfoWriter(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.infoWriter = w
		}
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
