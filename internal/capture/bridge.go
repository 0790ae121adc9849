// Package capture pulls review comments out of the review surface and into
// the state store.
package capture

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chengmingchun/editor/internal/state"
	"github.com/chengmingchun/editor/internal/storage"
	"github.com/chengmingchun/editor/internal/surface"
)

const (
	DefaultTimeout   = 5 * time.Second
	DefaultEventName = "__capture_comments_result__"
)

var (
	ErrSurfaceNotOpen = errors.New("review surface is not open")
	ErrScriptFailed   = errors.New("running extraction script failed")
	ErrCaptureTimeout = errors.New("timed out waiting for captured comments")
	ErrCaptureDecode  = errors.New("decoding captured comments failed")
)

//go:embed extract.js
var extractScript string

// Script returns the extraction script wired to report on eventName.
func Script(eventName string) string {
	quoted, _ := json.Marshal(eventName)
	return strings.ReplaceAll(extractScript, "__EVENT_NAME__", string(quoted))
}

// Locator reports the currently open surface.
type Locator interface {
	Current() (surface.Handle, bool)
}

// Recorder keeps a history of capture attempts.
type Recorder interface {
	SaveCaptureRun(r storage.CaptureRun) error
}

// Bridge runs the extraction script on the open surface and waits for the
// result event. History is optional.
type Bridge struct {
	Session   Locator
	Host      surface.Host
	Bus       *surface.Bus
	Store     *state.Store
	History   Recorder
	Timeout   time.Duration
	EventName string
	Logger    *slog.Logger
}

// Capture extracts comments from the open surface, appends them to the store
// and returns them. The wait for the result is bounded only by Timeout; ctx
// is passed to the host but does not end the wait. On any failure the store
// is left untouched.
func (b *Bridge) Capture(ctx context.Context) (comments []state.ReviewComment, err error) {
	h, ok := b.Session.Current()
	if !ok {
		return nil, ErrSurfaceNotOpen
	}

	id := uuid.NewString()
	logger := b.logger().With("capture_id", id, "handle", h)
	started := time.Now()
	defer func() {
		record(b.History, logger, storage.CaptureRun{
			ID:        id,
			StartedAt: started,
			Source:    storage.SourceSurface,
			Handle:    string(h),
		}, len(comments), err)
	}()

	name := b.eventName()

	sub := b.Bus.Subscribe(surface.EventKey(name, h), 1)
	defer sub.Close()

	if err := b.Host.RunScript(ctx, h, Script(name)); err != nil {
		logger.Warn("extraction script failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrScriptFailed, err)
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var payload []byte
	select {
	case payload = <-sub.Events():
	case <-timer.C:
		logger.Warn("capture timed out", "timeout", timeout)
		return nil, ErrCaptureTimeout
	}

	comments, err = Decode(payload)
	if err != nil {
		logger.Warn("capture payload rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCaptureDecode, err)
	}
	if err := b.Store.AppendComments(comments); err != nil {
		return nil, err
	}
	logger.Info("comments captured", "count", len(comments))
	return comments, nil
}

// Decode parses a capture payload. The payload is either a JSON array of
// comments or a JSON string whose contents are that array.
func Decode(payload []byte) ([]state.ReviewComment, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) > 0 && payload[0] == '"' {
		var inner string
		if err := json.Unmarshal(payload, &inner); err != nil {
			return nil, err
		}
		payload = []byte(inner)
	}

	var comments []state.ReviewComment
	if err := json.Unmarshal(payload, &comments); err != nil {
		return nil, err
	}
	for i, c := range comments {
		if !c.Severity.Valid() {
			return nil, fmt.Errorf("comment %d: missing severity", i)
		}
	}
	if comments == nil {
		comments = []state.ReviewComment{}
	}
	return comments, nil
}

// record stores a finished run. History failures are logged and never
// change the outcome of the capture.
func record(history Recorder, logger *slog.Logger, run storage.CaptureRun, count int, err error) {
	if history == nil {
		return
	}
	run.FinishedAt = time.Now()
	run.CommentCount = count
	run.Status = storage.RunSucceeded
	if err != nil {
		run.Status = storage.RunFailed
		run.Error = err.Error()
		run.CommentCount = 0
	}
	if herr := history.SaveCaptureRun(run); herr != nil {
		logger.Warn("recording capture run", "error", herr)
	}
}

func (b *Bridge) eventName() string {
	if b.EventName == "" {
		return DefaultEventName
	}
	return b.EventName
}

func (b *Bridge) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}
