package templates

import (
	"context"
	"errors"
	"testing"
)

func TestFetch_DemoSources(t *testing.T) {
	for _, url := range []string{"https://demo.internal/templates", "http://example.com/t"} {
		got, err := Fetch(context.Background(), url)
		if err != nil {
			t.Fatalf("Fetch(%q): %v", url, err)
		}
		if len(got) != 3 {
			t.Fatalf("Fetch(%q) returned %d templates, want 3", url, len(got))
		}
		wantIDs := []string{"demo-api-design", "demo-db-design", "demo-prd-template"}
		for i, id := range wantIDs {
			if got[i].ID != id {
				t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
			}
		}
	}
}

func TestFetch_ReturnsCopy(t *testing.T) {
	got, _ := Fetch(context.Background(), "demo")
	got[0].Name = "changed"
	again, _ := Fetch(context.Background(), "demo")
	if again[0].Name == "changed" {
		t.Error("Fetch exposed its canned slice")
	}
}

func TestFetch_UnsupportedSource(t *testing.T) {
	_, err := Fetch(context.Background(), "https://templates.corp.net/v1")
	if !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("err = %v, want ErrUnsupportedSource", err)
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fetch(ctx, "demo"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
