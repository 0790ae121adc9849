package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrStateUnavailable is returned once a collection has been corrupted by a
// panic inside one of its critical sections. It is never retried.
var ErrStateUnavailable = errors.New("internal state unavailable")

// Severity grades a review comment.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeveritySuggestion:
		return true
	}
	return false
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("severity: %w", err)
	}
	v := Severity(raw)
	if !v.Valid() {
		return fmt.Errorf("severity %q is not one of critical, warning, suggestion", raw)
	}
	*s = v
	return nil
}

// ReviewComment is a single piece of review feedback, either extracted from
// the review surface or entered by hand.
type ReviewComment struct {
	ID         string   `json:"id"`
	Author     string   `json:"author"`
	Content    string   `json:"content"`
	FilePath   *string  `json:"file_path"`
	LineNumber *uint32  `json:"line_number"`
	Severity   Severity `json:"severity"`
	CreatedAt  string   `json:"created_at"`
}

// TrainingPair is a (problem, fix) example derived from one comment.
type TrainingPair struct {
	Problem string        `json:"problem"`
	Fix     string        `json:"fix"`
	Source  ReviewComment `json:"source"`
}

// MetricSample records one AI-assisted coding session.
type MetricSample struct {
	Date          string  `json:"date"`
	AITimeMinutes float64 `json:"ai_time_minutes"`
	AILines       uint32  `json:"ai_lines"`
	ManualLines   uint32  `json:"manual_lines"`
	ReviewCount   uint32  `json:"review_count"`
	ResolvedCount uint32  `json:"resolved_count"`
}
