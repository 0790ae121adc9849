package rag

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chengmingchun/editor/internal/documents"
	"github.com/chengmingchun/editor/internal/state"
)

// ExportFile is the name of the training data file written by Export.
const ExportFile = "rag_review_data.json"

// Export writes pairs as an indented JSON array to dir/rag_review_data.json
// and returns the file path. A nil slice is written as [].
func Export(dir string, pairs []state.TrainingPair) (string, error) {
	if pairs == nil {
		pairs = []state.TrainingPair{}
	}
	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding pairs: %w", err)
	}

	path := filepath.Join(dir, ExportFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &documents.IOError{Op: "mkdir", Path: dir, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &documents.IOError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}
