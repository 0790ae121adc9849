package storage

import (
	"database/sql"
	"errors"
	"strings"
)

const templateColumns = `id, name, description, content, category, created_at, updated_at`

// SaveTemplate inserts t. An existing id yields ErrDuplicate.
func (s *Store) SaveTemplate(t Template) error {
	res, err := s.db.Exec(`
		INSERT INTO templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		t.ID, t.Name, t.Description, t.Content, t.Category,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *Store) GetTemplate(id string) (Template, error) {
	row := s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	return t, err
}

// ListTemplates returns templates in insertion order. An empty category
// matches all.
func (s *Store) ListTemplates(category string, skip, limit int) ([]Template, error) {
	rows, err := s.db.Query(`
		SELECT `+templateColumns+` FROM templates
		WHERE ? = '' OR category = ?
		ORDER BY rowid ASC LIMIT ? OFFSET ?`,
		category, category, limit, skip,
	)
	if err != nil {
		return nil, err
	}
	return collectTemplates(rows)
}

// SearchTemplates returns templates whose name, description or category
// contains q, ignoring ASCII case.
func (s *Store) SearchTemplates(q string, skip, limit int) ([]Template, error) {
	q = asciiLower(q)
	rows, err := s.db.Query(`
		SELECT `+templateColumns+` FROM templates
		WHERE instr(lower(name), ?) > 0
		   OR instr(lower(description), ?) > 0
		   OR instr(lower(category), ?) > 0
		ORDER BY rowid ASC LIMIT ? OFFSET ?`,
		q, q, q, limit, skip,
	)
	if err != nil {
		return nil, err
	}
	return collectTemplates(rows)
}

func (s *Store) DeleteTemplate(id string) error {
	res, err := s.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountTemplates() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(r rowScanner) (Template, error) {
	var t Template
	var createdAt, updatedAt string
	if err := r.Scan(&t.ID, &t.Name, &t.Description, &t.Content, &t.Category, &createdAt, &updatedAt); err != nil {
		return Template{}, err
	}
	var err error
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return Template{}, err
	}
	if t.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return Template{}, err
	}
	return t, nil
}

func collectTemplates(rows *sql.Rows) ([]Template, error) {
	defer rows.Close()
	results := []Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// asciiLower folds only A-Z, matching SQLite's built-in lower().
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
