package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fekuna/omnipos-wms-service/internal/model"
)

// FileRepository keeps the settings document as one JSON file.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Get reads the document. A missing file reads as the defaults, and fields
// absent from the file keep their default values.
func (r *FileRepository) Get(ctx context.Context) (*model.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := model.DefaultSettings()
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &doc, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", r.path, err)
	}
	return &doc, nil
}

// Save writes to a temp file and renames it over the document, so readers
// never observe a half written file.
func (r *FileRepository) Save(ctx context.Context, doc *model.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}
