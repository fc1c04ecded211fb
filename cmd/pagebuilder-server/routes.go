package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-pagebuilder/pkg/renderers/document"
)

// routes sets up the HTTP router.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", app.healthHandler)
	r.Handle("/assets/*", http.FileServerFS(document.AssetsFS()))

	// The preview socket is long lived, so it sits outside the timeout group.
	r.Get("/ws/preview", app.previewHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/", app.pageHandler(false))
		r.Get("/editor", app.pageHandler(true))

		r.Post("/render", app.renderHandler(false))
		r.Post("/render/editor", app.renderHandler(true))
		r.Post("/fields", app.fieldsHandler)

		r.Get("/parts", app.partsHandler)
		r.Post("/components", app.createComponentHandler)
	})

	return r
}
