package capture

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chengmingchun/editor/internal/state"
	"github.com/chengmingchun/editor/internal/storage"
)

// Importer loads comments from a saved review page without a live surface.
type Importer struct {
	Store   *state.Store
	History Recorder
	Logger  *slog.Logger
	Now     func() time.Time
}

// Import extracts comments from r and appends them to the store.
func (i *Importer) Import(r io.Reader) (comments []state.ReviewComment, err error) {
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	logger := i.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()
	logger = logger.With("capture_id", id)
	started := now()
	defer func() {
		record(i.History, logger, storage.CaptureRun{
			ID:        id,
			StartedAt: started,
			Source:    storage.SourceHTML,
		}, len(comments), err)
	}()

	comments, err = ExtractHTML(r, started)
	if err != nil {
		return nil, err
	}
	if err := i.Store.AppendComments(comments); err != nil {
		return nil, fmt.Errorf("storing imported comments: %w", err)
	}
	logger.Info("comments imported", "count", len(comments))
	return comments, nil
}
