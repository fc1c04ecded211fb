package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-pagebuilder/pkg/model"
	"github.com/goliatone/go-pagebuilder/pkg/render"
)

const (
	previewWriteTimeout = 10 * time.Second
	previewReadLimit    = 4 << 20
)

// previewRequest is one message sent by the editor. Path limits the render
// to a single component.
type previewRequest struct {
	Data   model.PageData `json:"data"`
	Path   string         `json:"path,omitempty"`
	Editor *bool          `json:"editor,omitempty"`
	Locale string         `json:"locale,omitempty"`
}

type previewResponse struct {
	Path  string         `json:"path,omitempty"`
	HTML  string         `json:"html"`
	Error *errorResponse `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// previewHandler upgrades to a websocket and answers every page message with
// its rendered markup. Editor mode is on unless the message turns it off.
func (app *application) previewHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.logger.Warn("preview upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(previewReadLimit)

	ctx := r.Context()
	for {
		var req previewRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				app.logger.Warn("preview read failed", "error", err)
			}
			return
		}

		opts := render.RenderOptions{Editor: req.Editor == nil || *req.Editor, Locale: req.Locale}
		resp := previewResponse{Path: req.Path}
		if req.Path != "" {
			resp.HTML, err = app.engine.RenderComponent(ctx, req.Data, req.Path, opts)
		} else {
			resp.HTML, err = app.engine.Render(ctx, req.Data, opts)
		}
		if err != nil {
			resp.Error = &errorResponse{Error: err.Error()}
			var renderErr *render.RenderError
			if errors.As(err, &renderErr) {
				resp.Error.Code = string(renderErr.Code)
				resp.Error.Path = renderErr.Path
				resp.Error.PartID = renderErr.PartID
			}
		}

		if err := conn.SetWriteDeadline(time.Now().Add(previewWriteTimeout)); err != nil {
			return
		}
		if err := conn.WriteJSON(resp); err != nil {
			app.logger.Warn("preview write failed", "error", err)
			return
		}
	}
}
