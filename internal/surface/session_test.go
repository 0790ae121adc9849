package surface

import (
	"context"
	"errors"
	"testing"
)

func TestSession_OpenCloseCurrent(t *testing.T) {
	host := NewRemoteHost(nil)
	s := NewSession(host, nil)
	ctx := context.Background()

	if _, ok := s.Current(); ok {
		t.Fatal("Current reported an open surface before Open")
	}

	h, err := s.Open(ctx, "https://example.com/mr/1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, ok := s.Current()
	if !ok || got != h {
		t.Errorf("Current = (%q, %v), want (%q, true)", got, ok, h)
	}
	if url, _ := s.URL(); url != "https://example.com/mr/1" {
		t.Errorf("URL = %q", url)
	}

	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Error("Current reported an open surface after Close")
	}
	if _, err := host.NextCommands(h); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("NextCommands after close err = %v, want ErrUnknownHandle", err)
	}
}

func TestSession_CloseWithoutOpenIsNoop(t *testing.T) {
	s := NewSession(NewRemoteHost(nil), nil)
	if err := s.Close(context.Background()); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestSession_ReopenClosesPrevious(t *testing.T) {
	host := NewRemoteHost(nil)
	s := NewSession(host, nil)
	ctx := context.Background()

	first, _ := s.Open(ctx, "https://example.com/a")
	second, err := s.Open(ctx, "https://example.com/b")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if first == second {
		t.Fatal("reopen returned the same handle")
	}
	if _, err := host.NextCommands(first); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("previous surface still registered: err = %v", err)
	}
	if got, _ := s.Current(); got != second {
		t.Errorf("Current = %q, want %q", got, second)
	}
}
