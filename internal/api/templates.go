package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chengmingchun/editor/internal/diagram"
	"github.com/chengmingchun/editor/internal/templates"
)

type fetchTemplatesRequest struct {
	URL string `json:"url"`
}

type generateDiagramRequest struct {
	Description string `json:"description"`
}

type catalogResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}

func handleFetchTemplates(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req fetchTemplatesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		ts, err := templates.Fetch(r.Context(), req.URL)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)
	}
}

func handleGenerateDiagram(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req generateDiagramRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"kind":    string(diagram.Classify(req.Description)),
			"diagram": diagram.Generate(req.Description),
		})
	}
}

func handleListCatalog(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := deps.Catalog.List(
			parseIntParam(r, "skip", 0, 0),
			parseIntParam(r, "limit", 0, 1000),
			r.URL.Query().Get("category"),
		)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)
	}
}

func handleGetTemplate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := deps.Catalog.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func handleSearchCatalog(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := deps.Catalog.Search(
			r.URL.Query().Get("q"),
			parseIntParam(r, "skip", 0, 0),
			parseIntParam(r, "limit", 0, 1000),
		)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)
	}
}

func handleUploadTemplate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImportBodySize)
		defer r.Body.Close()

		var t templates.Template
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		saved, err := deps.Catalog.Upload(t)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, catalogResponse{
			Success: true,
			Message: "template '" + strings.TrimSpace(saved.Name) + "' uploaded",
			Data:    map[string]string{"template_id": saved.ID},
		})
	}
}

func handleDeleteTemplate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := deps.Catalog.Delete(id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, catalogResponse{
			Success: true,
			Message: "template '" + id + "' deleted",
		})
	}
}
