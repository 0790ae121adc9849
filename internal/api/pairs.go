package api

import (
	"encoding/json"
	"net/http"

	"github.com/chengmingchun/editor/internal/metrics"
	"github.com/chengmingchun/editor/internal/rag"
	"github.com/chengmingchun/editor/internal/state"
)

func handleDerivePairs(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairs, err := rag.DerivePairs(deps.State, deps.Transformer)
		if err != nil {
			writeError(w, err)
			return
		}
		deps.logger().Info("training pairs derived", "count", len(pairs))
		writeJSON(w, http.StatusOK, pairs)
	}
}

func handleListPairs(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairs, err := deps.State.ListPairs()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pairs)
	}
}

func handleExportPairs(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairs, err := deps.State.ListPairs()
		if err != nil {
			writeError(w, err)
			return
		}
		path, err := rag.Export(deps.Documents.Dir, pairs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"path":  path,
			"count": len(pairs),
		})
	}
}

func handleAddMetric(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var m state.MetricSample
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if m.Date == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "date is required")
			return
		}
		if err := deps.State.AppendMetric(m); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func handleListMetrics(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		samples, err := deps.State.ListMetrics()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, samples)
	}
}

func handleSummarizeMetrics(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		samples, err := deps.State.ListMetrics()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, metrics.Summarize(samples))
	}
}

func handleClearMetrics(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.State.ClearMetrics(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}
