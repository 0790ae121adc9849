// Package templates serves document templates: a canned remote fetch and a
// local catalog backed by SQLite.
package templates

import (
	"time"

	"github.com/chengmingchun/editor/internal/storage"
)

// Template is a reusable markdown document skeleton.
type Template struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Content     string `json:"content" yaml:"content"`
	Category    string `json:"category,omitempty" yaml:"category"`
	CreatedAt   string `json:"created_at,omitempty" yaml:"created_at"`
	UpdatedAt   string `json:"updated_at,omitempty" yaml:"updated_at"`
}

func fromRecord(r storage.Template) Template {
	return Template{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Content:     r.Content,
		Category:    r.Category,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func fromRecords(rs []storage.Template) []Template {
	out := make([]Template, len(rs))
	for i, r := range rs {
		out[i] = fromRecord(r)
	}
	return out
}
