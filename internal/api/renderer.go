package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chengmingchun/editor/internal/surface"
)

// rendererEvent is what a renderer posts back: the event name and its raw
// payload.
type rendererEvent struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

func handleRendererCommands(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Renderer == nil {
			httpError(w, http.StatusNotFound, "not_found", "no renderer host configured")
			return
		}
		cmds, err := deps.Renderer.NextCommands(surface.Handle(chi.URLParam(r, "handle")))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cmds)
	}
}

// handleRendererEvent delivers an event from the currently open surface.
// Events for any other handle are refused.
func handleRendererEvent(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := surface.Handle(chi.URLParam(r, "handle"))
		if cur, ok := deps.Session.Current(); !ok || cur != h {
			writeError(w, surface.ErrUnknownHandle)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxImportBodySize)
		defer r.Body.Close()

		var ev rendererEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if strings.TrimSpace(ev.Name) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "name is required")
			return
		}

		delivered := deps.Bus.Emit(surface.EventKey(ev.Name, h), ev.Payload)
		deps.logger().Debug("renderer event", "name", ev.Name, "handle", h, "delivered", delivered)
		writeJSON(w, http.StatusOK, map[string]int{"delivered": delivered})
	}
}
