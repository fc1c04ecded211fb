package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goliatone/go-pagebuilder/pkg/fields"
	"github.com/goliatone/go-pagebuilder/pkg/initializer"
	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/render"
)

const (
	maxBodyBytes        = 4 << 20
	defaultPageRenderer = "document"
)

type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Path   string `json:"path,omitempty"`
	PartID string `json:"partId,omitempty"`
}

func (app *application) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// pageHandler serves the loaded site, as a full document unless the
// "renderer" query parameter names another registered renderer.
func (app *application) pageHandler(editor bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("renderer")
		if name == "" {
			name = defaultPageRenderer
		}
		renderer, err := app.renderers.Get(name)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}

		opts := renderOptions(r)
		opts.Editor = editor
		out, err := renderer.Render(r.Context(), app.site, opts)
		if err != nil {
			app.renderFailed(w, err)
			return
		}
		w.Header().Set("Content-Type", renderer.ContentType())
		_, _ = w.Write(out)
	}
}

// renderHandler renders page data posted as JSON. A "path" query parameter
// renders just that component.
func (app *application) renderHandler(editor bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data model.PageData
		if !app.decode(w, r, &data) {
			return
		}
		opts := renderOptions(r)
		opts.Editor = editor

		var (
			out string
			err error
		)
		if path := r.URL.Query().Get("path"); path != "" {
			out, err = app.engine.RenderComponent(r.Context(), data, path, opts)
		} else {
			out, err = app.engine.Render(r.Context(), data, opts)
		}
		if err != nil {
			app.renderFailed(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(out))
	}
}

type fieldsRequest struct {
	Template  string           `json:"template"`
	PartID    string           `json:"partId"`
	Component *model.Component `json:"component"`
}

type fieldsResponse struct {
	Fields []model.FieldDescriptor `json:"fields,omitempty"`
	Edit   []fields.EditField      `json:"edit,omitempty"`
	Slots  []string                `json:"slots"`
}

// fieldsHandler lists the fields of a raw template, or the edit panel of a
// catalog part filled from a component.
func (app *application) fieldsHandler(w http.ResponseWriter, r *http.Request) {
	var req fieldsRequest
	if !app.decode(w, r, &req) {
		return
	}

	template := req.Template
	var resp fieldsResponse
	if req.PartID != "" {
		part, ok := app.catalog.FindPart(req.PartID)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown part %q", req.PartID)})
			return
		}
		component := req.Component
		if component == nil {
			component = &model.Component{PartID: part.ID}
		}
		edit, err := fields.Editable(part, component, fields.WithLogger(app.logger))
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
		resp.Edit = edit
		template = part.Body
	} else {
		found, err := fields.Extract(template, fields.WithLogger(app.logger))
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
		resp.Fields = found
	}

	slots, err := fields.ExtractSlots(template)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	resp.Slots = slots
	if resp.Slots == nil {
		resp.Slots = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type partSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Tier     string `json:"tier"`
	SlotOnly bool   `json:"slotOnly,omitempty"`
}

// partsHandler lists the parts allowed at the top level, or in the slot
// named by the parent and slot query parameters.
func (app *application) partsHandler(w http.ResponseWriter, r *http.Request) {
	refs, err := app.init.AllowedParts(r.URL.Query().Get("parent"), r.URL.Query().Get("slot"))
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, initializer.ErrUnknownPart) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	out := make([]partSummary, 0, len(refs))
	for _, ref := range refs {
		out = append(out, partSummary{
			ID:       ref.Part.ID,
			Title:    ref.Part.Title,
			Type:     ref.Type.ID,
			Tier:     string(ref.Tier),
			SlotOnly: ref.Part.SlotOnly,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type createComponentRequest struct {
	PartID string `json:"partId"`
}

// createComponentHandler returns a new component with defaults filled in.
func (app *application) createComponentHandler(w http.ResponseWriter, r *http.Request) {
	var req createComponentRequest
	if !app.decode(w, r, &req) {
		return
	}
	c, err := app.init.NewComponent(req.PartID)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, initializer.ErrUnknownPart) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (app *application) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		app.logger.Debug("invalid request body", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (app *application) renderFailed(w http.ResponseWriter, err error) {
	var renderErr *render.RenderError
	if errors.As(err, &renderErr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  renderErr.Error(),
			Code:   string(renderErr.Code),
			Path:   renderErr.Path,
			PartID: renderErr.PartID,
		})
		return
	}
	app.logger.Error("render failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// renderOptions reads strict, minify and locale from the query string.
func renderOptions(r *http.Request) render.RenderOptions {
	q := r.URL.Query()
	strict, _ := strconv.ParseBool(q.Get("strict"))
	minify, _ := strconv.ParseBool(q.Get("minify"))
	return render.RenderOptions{
		Strict: strict,
		Minify: minify,
		Locale: q.Get("locale"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
