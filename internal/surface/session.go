package surface

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Session tracks the single review surface.
type Session struct {
	host   Host
	logger *slog.Logger

	mu      sync.Mutex
	handle  Handle
	url     string
	hasOpen bool
}

// NewSession creates a Session driving host.
func NewSession(host Host, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{host: host, logger: logger}
}

// Open opens url as the review surface, closing any surface that is
// already open.
func (s *Session) Open(ctx context.Context, url string) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasOpen {
		if err := s.host.Close(ctx, s.handle); err != nil {
			s.logger.Warn("closing previous review surface", "handle", s.handle, "error", err)
		}
		s.hasOpen = false
	}

	h, err := s.host.Open(ctx, url)
	if err != nil {
		return "", fmt.Errorf("opening review surface: %w", err)
	}
	s.handle, s.url, s.hasOpen = h, url, true
	s.logger.Info("review surface opened", "handle", h, "url", url)
	return h, nil
}

// Close closes the review surface. Closing when nothing is open is a no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasOpen {
		return nil
	}
	h := s.handle
	s.handle, s.url, s.hasOpen = "", "", false
	if err := s.host.Close(ctx, h); err != nil {
		return fmt.Errorf("closing review surface: %w", err)
	}
	s.logger.Info("review surface closed", "handle", h)
	return nil
}

// Current returns the open surface's handle.
func (s *Session) Current() (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle, s.hasOpen
}

// URL returns the address the open surface was asked to load.
func (s *Session) URL() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, s.hasOpen
}
