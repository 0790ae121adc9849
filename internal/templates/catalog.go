package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chengmingchun/editor/internal/storage"
)

const (
	defaultListLimit   = 100
	defaultSearchLimit = 50
	minQueryLen        = 2

	// CategoryUploaded is assigned to every uploaded template.
	CategoryUploaded = "user_uploaded"
)

var (
	ErrDuplicate       = errors.New("template already exists")
	ErrQueryTooShort   = errors.New("search query must be at least 2 characters")
	ErrInvalidTemplate = errors.New("invalid template")
)

//go:embed seed.yaml
var seedYAML []byte

// Catalog is the template library kept in the local database.
type Catalog struct {
	store  *storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewCatalog wraps store. Call Seed once after opening.
func NewCatalog(store *storage.Store, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{store: store, logger: logger, now: time.Now}
}

// Seed loads the bundled templates when the catalog is empty.
func (c *Catalog) Seed() error {
	n, err := c.store.CountTemplates()
	if err != nil {
		return fmt.Errorf("counting templates: %w", err)
	}
	if n > 0 {
		return nil
	}

	var seed struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return fmt.Errorf("decoding seed catalog: %w", err)
	}
	for _, t := range seed.Templates {
		rec, err := toRecord(t)
		if err != nil {
			return fmt.Errorf("seed template %s: %w", t.ID, err)
		}
		if err := c.store.SaveTemplate(rec); err != nil {
			return fmt.Errorf("saving seed template %s: %w", t.ID, err)
		}
	}
	c.logger.Info("template catalog seeded", "count", len(seed.Templates))
	return nil
}

// List returns templates in insertion order, optionally filtered by
// category. A non-positive limit means the default of 100.
func (c *Catalog) List(skip, limit int, category string) ([]Template, error) {
	skip, limit = page(skip, limit, defaultListLimit)
	recs, err := c.store.ListTemplates(category, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return fromRecords(recs), nil
}

// Get returns the template with id, or storage.ErrNotFound.
func (c *Catalog) Get(id string) (Template, error) {
	rec, err := c.store.GetTemplate(id)
	if err != nil {
		return Template{}, err
	}
	return fromRecord(rec), nil
}

// Search matches q case-insensitively against name, description and
// category.
func (c *Catalog) Search(q string, skip, limit int) ([]Template, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < minQueryLen {
		return nil, ErrQueryTooShort
	}
	skip, limit = page(skip, limit, defaultSearchLimit)
	recs, err := c.store.SearchTemplates(q, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("searching templates: %w", err)
	}
	return fromRecords(recs), nil
}

// Upload adds a user template. The category is always CategoryUploaded and
// both timestamps are set to now. An empty id is replaced by a new UUID.
func (c *Catalog) Upload(t Template) (Template, error) {
	if strings.TrimSpace(t.Name) == "" {
		return Template{}, fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := c.now().UTC().Truncate(time.Second)
	rec := storage.Template{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Content:     t.Content,
		Category:    CategoryUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.store.SaveTemplate(rec); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return Template{}, fmt.Errorf("%w: %q", ErrDuplicate, t.ID)
		}
		return Template{}, fmt.Errorf("saving template: %w", err)
	}
	c.logger.Info("template uploaded", "template_id", t.ID)
	return fromRecord(rec), nil
}

// Delete removes the template with id, or returns storage.ErrNotFound.
func (c *Catalog) Delete(id string) error {
	return c.store.DeleteTemplate(id)
}

func (c *Catalog) Count() (int, error) {
	return c.store.CountTemplates()
}

func page(skip, limit, def int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = def
	}
	return skip, limit
}

func toRecord(t Template) (storage.Template, error) {
	created, err := time.Parse(time.RFC3339, t.CreatedAt)
	if err != nil {
		return storage.Template{}, fmt.Errorf("created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339, t.UpdatedAt)
	if err != nil {
		return storage.Template{}, fmt.Errorf("updated_at: %w", err)
	}
	return storage.Template{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Content:     t.Content,
		Category:    t.Category,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}
