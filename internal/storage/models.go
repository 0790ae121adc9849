package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when inserting a record whose id is taken.
var ErrDuplicate = errors.New("already exists")

type Template struct {
	ID          string
	Name        string
	Description string
	Content     string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Capture run sources and statuses.
const (
	SourceSurface = "surface"
	SourceHTML    = "html_import"

	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// CaptureRun records one attempt to pull comments into the review state.
type CaptureRun struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Source       string
	Handle       string
	Status       string
	CommentCount int
	Error        string
}
