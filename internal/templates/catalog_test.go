package templates

import (
	"errors"
	"testing"
	"time"

	"github.com/chengmingchun/editor/internal/storage"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	c := NewCatalog(store, nil)
	c.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	if err := c.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return c
}

func TestSeed_LoadsBundledTemplatesOnce(t *testing.T) {
	c := newTestCatalog(t)

	n, err := c.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 6 {
		t.Fatalf("Count = %d, want 6", n)
	}

	if err := c.Seed(); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if n, _ := c.Count(); n != 6 {
		t.Errorf("Count after second Seed = %d, want 6", n)
	}

	got, err := c.Get("architecture-design-template")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Category != "architecture" || got.CreatedAt != "2024-01-08T11:45:00Z" {
		t.Errorf("Get = %+v", got)
	}
}

func TestList_FilterAndPaging(t *testing.T) {
	c := newTestCatalog(t)

	all, err := c.List(0, 0, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 6 || all[0].ID != "api-design-template" {
		t.Errorf("List = %d templates, first %q", len(all), all[0].ID)
	}

	filtered, _ := c.List(0, 0, "testing")
	if len(filtered) != 1 || filtered[0].ID != "test-plan-template" {
		t.Errorf("List(testing) = %+v", filtered)
	}

	page, _ := c.List(4, 10, "")
	if len(page) != 2 {
		t.Errorf("List(skip=4) = %d templates, want 2", len(page))
	}
}

func TestGet_NotFound(t *testing.T) {
	c := newTestCatalog(t)
	if _, err := c.Get("nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want storage.ErrNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	c := newTestCatalog(t)

	got, err := c.Search("  API ", 0, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "api-design-template" {
		t.Errorf("Search(API) = %+v", got)
	}

	got, _ = c.Search("设计", 0, 0)
	if len(got) != 3 {
		t.Errorf("Search(设计) = %d results, want 3", len(got))
	}

	for _, q := range []string{"", " a ", "x"} {
		if _, err := c.Search(q, 0, 0); !errors.Is(err, ErrQueryTooShort) {
			t.Errorf("Search(%q) err = %v, want ErrQueryTooShort", q, err)
		}
	}
}

func TestUpload(t *testing.T) {
	c := newTestCatalog(t)

	got, err := c.Upload(Template{ID: "mine", Name: "Mine", Description: "d", Content: "# c", Category: "ignored"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got.Category != CategoryUploaded {
		t.Errorf("Category = %q, want %q", got.Category, CategoryUploaded)
	}
	if got.CreatedAt != "2025-06-01T12:00:00Z" || got.UpdatedAt != got.CreatedAt {
		t.Errorf("timestamps = (%q, %q)", got.CreatedAt, got.UpdatedAt)
	}

	if _, err := c.Upload(Template{ID: "mine", Name: "Again"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate Upload err = %v, want ErrDuplicate", err)
	}
	if _, err := c.Upload(Template{ID: "api-design-template", Name: "Clash"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Upload over seed id err = %v, want ErrDuplicate", err)
	}
	if _, err := c.Upload(Template{ID: "noname"}); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("Upload without name err = %v, want ErrInvalidTemplate", err)
	}

	generated, err := c.Upload(Template{Name: "No id"})
	if err != nil {
		t.Fatalf("Upload without id: %v", err)
	}
	if generated.ID == "" {
		t.Error("Upload did not assign an id")
	}
}

func TestDelete(t *testing.T) {
	c := newTestCatalog(t)

	if err := c.Delete("prd-template"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete("prd-template"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second Delete err = %v, want storage.ErrNotFound", err)
	}
	if n, _ := c.Count(); n != 5 {
		t.Errorf("Count = %d, want 5", n)
	}
}
