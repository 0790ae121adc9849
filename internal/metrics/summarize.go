// Package metrics aggregates AI-assisted coding session samples.
package metrics

import "github.com/chengmingchun/editor/internal/state"

const (
	TotalSessions    = "total_sessions"
	AvgAITime        = "avg_ai_time"
	TotalAILines     = "total_ai_lines"
	TotalManualLines = "total_manual_lines"
	AIEfficiency     = "ai_efficiency"
	TotalReviews     = "total_reviews"
	ResolvedRate     = "resolved_rate"
)

// Keys lists the summary keys in display order.
var Keys = []string{
	TotalSessions,
	AvgAITime,
	TotalAILines,
	TotalManualLines,
	AIEfficiency,
	TotalReviews,
	ResolvedRate,
}

// Summarize reduces samples to the seven summary figures. An empty input
// yields every key with a zero value.
func Summarize(samples []state.MetricSample) map[string]float64 {
	out := make(map[string]float64, len(Keys))
	for _, k := range Keys {
		out[k] = 0
	}
	if len(samples) == 0 {
		return out
	}

	var aiTime, aiLines, manualLines, reviews, resolved float64
	for _, s := range samples {
		aiTime += s.AITimeMinutes
		aiLines += float64(s.AILines)
		manualLines += float64(s.ManualLines)
		reviews += float64(s.ReviewCount)
		resolved += float64(s.ResolvedCount)
	}
	n := float64(len(samples))

	out[TotalSessions] = n
	out[AvgAITime] = aiTime / n
	out[TotalAILines] = aiLines
	out[TotalManualLines] = manualLines
	out[TotalReviews] = reviews

	if total := aiLines + manualLines; total > 0 {
		out[AIEfficiency] = 100 * aiLines / total
	} else {
		out[AIEfficiency] = 100
	}
	if reviews > 0 {
		out[ResolvedRate] = 100 * resolved / reviews
	}
	return out
}
