package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-pagebuilder/pkg/orchestrator"
	"github.com/goliatone/go-pagebuilder/pkg/pagefs"
	"github.com/goliatone/go-pagebuilder/pkg/render"
	"github.com/goliatone/go-pagebuilder/pkg/renderers/document"
	"github.com/goliatone/go-pagebuilder/pkg/renderers/html"
	"github.com/goliatone/go-pagebuilder/pkg/renderers/tui"
)

func main() {
	site := flag.String("site", "", "site directory (embedded starter site if empty)")
	renderer := flag.String("renderer", "html", "renderer to use: html, document or tui")
	output := flag.String("output", "", "output file (stdout if empty)")
	editor := flag.Bool("editor", false, "render editor attributes and empty-slot buttons")
	strict := flag.Bool("strict", false, "fail on the first component error")
	minify := flag.Bool("minify", false, "minify the rendered markup")
	backfill := flag.Bool("backfill", false, "write defaults for missing required fields")
	locale := flag.String("locale", "", "locale for editor labels and the document lang attribute")
	title := flag.String("title", "", "document title")
	preset := flag.String("preset", "", "JSON or YAML preset applied before rendering")
	themeFile := flag.String("theme", "", "JSON or YAML go-theme manifest")
	variant := flag.String("variant", "", "theme variant")
	format := flag.String("format", string(tui.OutputFormatJSON), "tui output format: json or pretty")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn or error")
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		log.Fatalf("invalid log level: %v", err)
	}

	registry, err := buildRegistry(logger, *title, tui.OutputFormat(*format))
	if err != nil {
		log.Fatalf("Failed to configure renderers: %v", err)
	}

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithBackfill(*backfill),
		orchestrator.WithLogger(logger),
	}
	if *preset != "" {
		transformer, err := orchestrator.NewPresetTransformerFromFS(os.DirFS(filepath.Dir(*preset)), filepath.Base(*preset))
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		options = append(options, orchestrator.WithTransformer(transformer))
	}
	var themeName string
	if *themeFile != "" {
		manifest, err := loadManifest(*themeFile)
		if err != nil {
			log.Fatalf("Failed to load theme: %v", err)
		}
		selector, err := orchestrator.NewManifestSelector(manifest.Name, *variant, manifest)
		if err != nil {
			log.Fatalf("Failed to load theme: %v", err)
		}
		themeName = manifest.Name
		options = append(options, orchestrator.WithThemeSelector(selector))
	}

	var source fs.FS = pagefs.StarterFS()
	if *site != "" {
		source = os.DirFS(*site)
	}

	gen := orchestrator.New(options...)
	out, err := gen.Generate(context.Background(), orchestrator.Request{
		Source:       source,
		Renderer:     *renderer,
		ThemeName:    themeName,
		ThemeVariant: *variant,
		RenderOptions: render.RenderOptions{
			Editor: *editor,
			Strict: *strict,
			Minify: *minify,
			Locale: *locale,
		},
	})
	if err != nil {
		log.Fatalf("Failed to render page: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Page written to %s\n", *output)
	} else {
		fmt.Println(string(out))
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func buildRegistry(logger *slog.Logger, title string, format tui.OutputFormat) (*render.Registry, error) {
	engine := render.NewEngine(render.WithLogger(logger))

	doc, err := document.New(document.WithEngine(engine), document.WithTitle(title))
	if err != nil {
		return nil, err
	}
	editor, err := tui.New(tui.WithOutputFormat(format), tui.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	registry.MustRegister(html.New(html.WithEngine(engine)))
	registry.MustRegister(doc)
	registry.MustRegister(editor)
	return registry, nil
}

func loadManifest(path string) (*theme.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest theme.Manifest
	if err := pagefs.Decode(raw, path, &manifest); err != nil {
		return nil, err
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("theme manifest %s has no name", path)
	}
	return &manifest, nil
}
