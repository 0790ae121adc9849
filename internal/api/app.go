// Package api exposes the review daemon over HTTP and MCP.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chengmingchun/editor/internal/capture"
	"github.com/chengmingchun/editor/internal/documents"
	"github.com/chengmingchun/editor/internal/rag"
	"github.com/chengmingchun/editor/internal/state"
	"github.com/chengmingchun/editor/internal/storage"
	"github.com/chengmingchun/editor/internal/surface"
	"github.com/chengmingchun/editor/internal/templates"
)

const maxRequestBodySize = 1 << 20 // 1MB
const maxImportBodySize = 10 << 20 // 10MB

// CaptureHistory lists recorded capture attempts.
type CaptureHistory interface {
	RecentCaptureRuns(limit int) ([]storage.CaptureRun, error)
}

type AppDeps struct {
	State       *state.Store
	Documents   *documents.Store
	Session     *surface.Session
	Renderer    *surface.RemoteHost
	Bus         *surface.Bus
	Capture     *capture.Bridge
	Importer    *capture.Importer
	Transformer *rag.Transformer
	Catalog     *templates.Catalog
	History     CaptureHistory // optional; /comments/captures returns [] when nil
	Token       string
	Logger      *slog.Logger
}

func (d AppDeps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// NewAppHandler builds the daemon router. /health and the renderer
// endpoints are open; everything else requires the bearer token.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(deps))
	r.Get("/surface/{handle}/commands", handleRendererCommands(deps))
	r.Post("/surface/{handle}/events", handleRendererEvent(deps))

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Get("/documents", handleListDocuments(deps))
		r.Get("/documents/{name}", handleLoadDocument(deps))
		r.Put("/documents/{name}", handleSaveDocument(deps))
		r.Post("/documents/{name}/import-pdf", handleImportPDF(deps))

		r.Get("/surface", handleSurfaceStatus(deps))
		r.Post("/surface", handleOpenSurface(deps))
		r.Delete("/surface", handleCloseSurface(deps))

		r.Post("/comments/capture", handleCaptureComments(deps))
		r.Post("/comments/import", handleImportHTML(deps))
		r.Get("/comments/captures", handleListCaptures(deps))
		r.Post("/comments", handleAddComment(deps))
		r.Get("/comments", handleListComments(deps))
		r.Delete("/comments", handleClearComments(deps))

		r.Post("/pairs/derive", handleDerivePairs(deps))
		r.Get("/pairs", handleListPairs(deps))
		r.Post("/pairs/export", handleExportPairs(deps))

		r.Post("/metrics", handleAddMetric(deps))
		r.Get("/metrics", handleListMetrics(deps))
		r.Get("/metrics/summary", handleSummarizeMetrics(deps))
		r.Delete("/metrics", handleClearMetrics(deps))

		r.Post("/templates/fetch", handleFetchTemplates(deps))
		r.Post("/diagrams", handleGenerateDiagram(deps))

		r.Route("/api/templates", func(r chi.Router) {
			r.Get("/", handleListCatalog(deps))
			r.Post("/search", handleSearchCatalog(deps))
			r.Post("/upload", handleUploadTemplate(deps))
			r.Get("/{id}", handleGetTemplate(deps))
			r.Delete("/{id}", handleDeleteTemplate(deps))
		})
	})

	return r
}

func handleHealth(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"status": "ok"}
		if n, err := deps.State.CommentCount(); err == nil {
			resp["comments"] = n
		} else {
			resp["status"] = "degraded"
		}
		_, open := deps.Session.Current()
		resp["surface_open"] = open
		writeJSON(w, http.StatusOK, resp)
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
