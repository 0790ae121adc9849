package rag

import (
	"fmt"

	"github.com/chengmingchun/editor/internal/state"
)

// Transformer turns review comments into training pairs using a configurable
// marker set.
type Transformer struct {
	Markers []string
}

// New creates a Transformer. If markers is empty, DefaultMarkers is used.
func New(markers []string) *Transformer {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	return &Transformer{Markers: markers}
}

// Derive returns one pair per comment, in order.
func (t *Transformer) Derive(comments []state.ReviewComment) []state.TrainingPair {
	markers := t.Markers
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	pairs := make([]state.TrainingPair, len(comments))
	for i, c := range comments {
		problem, fix := Segment(c.Content, markers)
		pairs[i] = state.TrainingPair{Problem: problem, Fix: fix, Source: c}
	}
	return pairs
}

// DerivePairs snapshots the comments in s, derives pairs from them and
// replaces the stored pair set. Comments appended after the snapshot are not
// reflected until the next call.
func DerivePairs(s *state.Store, t *Transformer) ([]state.TrainingPair, error) {
	comments, err := s.ListComments()
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	pairs := t.Derive(comments)
	if err := s.ReplacePairs(pairs); err != nil {
		return nil, fmt.Errorf("storing pairs: %w", err)
	}
	return pairs, nil
}
