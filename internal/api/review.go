package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chengmingchun/editor/internal/state"
	"github.com/chengmingchun/editor/internal/storage"
)

const commentTimeLayout = "2006-01-02T15:04:05.000Z"

var errInvalidComment = errors.New("invalid comment")

type openSurfaceRequest struct {
	URL string `json:"url"`
}

type surfaceStatus struct {
	Open     bool   `json:"open"`
	Handle   string `json:"handle,omitempty"`
	URL      string `json:"url,omitempty"`
	LastPoll string `json:"last_poll,omitempty"`
}

type captureRunResponse struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Handle       string `json:"handle,omitempty"`
	Status       string `json:"status"`
	CommentCount int    `json:"comment_count"`
	Error        string `json:"error,omitempty"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at"`
}

// prepareComment fills in a manual comment's id and timestamp and checks
// the required fields.
func prepareComment(c *state.ReviewComment, now time.Time) error {
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("%w: content is required", errInvalidComment)
	}
	if !c.Severity.Valid() {
		return fmt.Errorf("%w: severity must be one of critical, warning, suggestion", errInvalidComment)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt == "" {
		c.CreatedAt = now.UTC().Format(commentTimeLayout)
	}
	return nil
}

func handleSurfaceStatus(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, open := deps.Session.Current()
		if !open {
			writeJSON(w, http.StatusOK, surfaceStatus{})
			return
		}
		url, _ := deps.Session.URL()
		st := surfaceStatus{Open: true, Handle: string(h), URL: url}
		if deps.Renderer != nil {
			if t, err := deps.Renderer.LastPoll(h); err == nil && !t.IsZero() {
				st.LastPoll = t.UTC().Format(time.RFC3339)
			}
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func handleOpenSurface(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req openSurfaceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "url is required")
			return
		}

		h, err := deps.Session.Open(r.Context(), req.URL)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"handle": string(h)})
	}
}

func handleCloseSurface(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Session.Close(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
	}
}

func handleCaptureComments(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments, err := deps.Capture.Capture(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
	}
}

func handleImportHTML(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImportBodySize)
		defer r.Body.Close()

		comments, err := deps.Importer.Import(r.Body)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
	}
}

func handleListCaptures(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := []captureRunResponse{}
		if deps.History == nil {
			writeJSON(w, http.StatusOK, out)
			return
		}

		runs, err := deps.History.RecentCaptureRuns(parseIntParam(r, "limit", 20, 100))
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list capture runs: %v", err)
			return
		}
		for _, run := range runs {
			out = append(out, toCaptureRunResponse(run))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toCaptureRunResponse(run storage.CaptureRun) captureRunResponse {
	return captureRunResponse{
		ID:           run.ID,
		Source:       run.Source,
		Handle:       run.Handle,
		Status:       run.Status,
		CommentCount: run.CommentCount,
		Error:        run.Error,
		StartedAt:    run.StartedAt.UTC().Format(time.RFC3339Nano),
		FinishedAt:   run.FinishedAt.UTC().Format(time.RFC3339Nano),
	}
}

func handleAddComment(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var c state.ReviewComment
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if err := prepareComment(&c, time.Now()); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		if err := deps.State.AppendComment(c); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleListComments(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments, err := deps.State.ListComments()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
	}
}

func handleClearComments(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.State.ClearComments(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}
