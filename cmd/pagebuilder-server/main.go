package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-pagebuilder/pkg/initializer"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/pagefs"
	"github.com/goliatone/go-pagebuilder/pkg/registry"
	"github.com/goliatone/go-pagebuilder/pkg/render"
	"github.com/goliatone/go-pagebuilder/pkg/renderers/document"
	"github.com/goliatone/go-pagebuilder/pkg/renderers/html"
)

// application holds the server dependencies shared by the handlers.
type application struct {
	logger    *slog.Logger
	engine    *render.Engine
	renderers *render.Registry
	site      model.PageData
	catalog   *registry.Catalog
	init      *initializer.Initializer
}

func newApplication(logger *slog.Logger, site model.PageData) (*application, error) {
	engine := render.NewEngine(render.WithLogger(logger))
	doc, err := document.New(document.WithEngine(engine), document.WithTitle("Page builder"))
	if err != nil {
		return nil, err
	}
	renderers := render.NewRegistry()
	renderers.MustRegister(doc)
	renderers.MustRegister(html.New(html.WithEngine(engine)))

	catalog := registry.NewCatalog(site.Parts)
	return &application{
		logger:    logger,
		engine:    engine,
		renderers: renderers,
		site:      site,
		catalog:   catalog,
		init:      initializer.New(catalog, initializer.WithLogger(logger)),
	}, nil
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	siteDir := flag.String("site", "", "site directory (embedded starter site if empty)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("invalid log level: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var source fs.FS = pagefs.StarterFS()
	if *siteDir != "" {
		source = os.DirFS(*siteDir)
	}
	site, err := pagefs.LoadFS(source)
	if err != nil {
		log.Fatalf("Failed to load site: %v", err)
	}

	app, err := newApplication(logger, site)
	if err != nil {
		log.Fatalf("Failed to configure server: %v", err)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
