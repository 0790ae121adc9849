package surface

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Command kinds delivered to a renderer.
const (
	CommandNavigate = "navigate"
	CommandScript   = "script"
)

// Command is one instruction queued for a renderer.
type Command struct {
	Kind   string `json:"kind"`
	URL    string `json:"url,omitempty"`
	Script string `json:"script,omitempty"`
}

type remoteSurface struct {
	queue    []Command
	lastPoll time.Time
}

// RemoteHost is a Host whose surfaces live in a separate renderer process
// (a browser extension or webview shell). The renderer polls NextCommands
// for its handle and reports results on the event bus.
type RemoteHost struct {
	mu       sync.Mutex
	surfaces map[Handle]*remoteSurface
	logger   *slog.Logger
	now      func() time.Time
}

// NewRemoteHost creates a RemoteHost with no open surfaces.
func NewRemoteHost(logger *slog.Logger) *RemoteHost {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteHost{
		surfaces: map[Handle]*remoteSurface{},
		logger:   logger,
		now:      time.Now,
	}
}

func (r *RemoteHost) Open(_ context.Context, url string) (Handle, error) {
	h := Handle(uuid.NewString())
	r.mu.Lock()
	r.surfaces[h] = &remoteSurface{
		queue: []Command{{Kind: CommandNavigate, URL: url}},
	}
	r.mu.Unlock()
	r.logger.Debug("remote surface registered", "handle", h)
	return h, nil
}

// Close drops the surface and anything still queued for it.
func (r *RemoteHost) Close(_ context.Context, h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surfaces[h]; !ok {
		return ErrUnknownHandle
	}
	delete(r.surfaces, h)
	return nil
}

func (r *RemoteHost) RunScript(_ context.Context, h Handle, script string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surfaces[h]
	if !ok {
		return ErrUnknownHandle
	}
	s.queue = append(s.queue, Command{Kind: CommandScript, Script: script})
	return nil
}

// NextCommands drains the queue for h.
func (r *RemoteHost) NextCommands(h Handle) ([]Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surfaces[h]
	if !ok {
		return nil, ErrUnknownHandle
	}
	cmds := s.queue
	s.queue = nil
	s.lastPoll = r.now()
	if cmds == nil {
		cmds = []Command{}
	}
	return cmds, nil
}

// LastPoll reports when the renderer for h last fetched commands. The zero
// time means it never has.
func (r *RemoteHost) LastPoll(h Handle) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surfaces[h]
	if !ok {
		return time.Time{}, ErrUnknownHandle
	}
	return s.lastPoll, nil
}
