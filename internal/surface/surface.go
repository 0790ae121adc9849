// Package surface models the review surface: a rendering context outside the
// daemon that can be opened, closed, asked to run a script, and that reports
// back through named events.
package surface

import (
	"context"
	"errors"
	"strings"
)

// ErrUnknownHandle is returned when a handle does not name an open surface.
var ErrUnknownHandle = errors.New("unknown surface handle")

// Handle identifies one open surface.
type Handle string

// EventKey scopes an event name to the surface that emits it, so a result
// from one surface never answers a wait on another.
func EventKey(name string, h Handle) string {
	return strings.TrimSpace(name) + "/" + string(h)
}

// Host opens and drives surfaces. Implementations must be safe for
// concurrent use.
type Host interface {
	Open(ctx context.Context, url string) (Handle, error)
	Close(ctx context.Context, h Handle) error
	RunScript(ctx context.Context, h Handle, script string) error
}
