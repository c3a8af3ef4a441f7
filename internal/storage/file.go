package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/models"
)

const fileFormatVersion = 1

// fileDocument is the on-disk layout of a FileStore.
type fileDocument struct {
	Version  int                          `json:"version"`
	SavedAt  time.Time                    `json:"saved_at"`
	Cells    []models.Cell                `json:"cells"`
	Lanes    map[string]models.LaneConfig `json:"lanes"`
	Settings models.WarehouseSettings     `json:"settings"`
}

// FileStore keeps the inventory in one JSON file.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore returns a store writing to path. The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path is the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the file. A missing or empty file yields an empty inventory.
func (s *FileStore) Load(ctx context.Context) (*inventory.Table, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &inventory.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return &inventory.Table{}, nil
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if doc.Version > fileFormatVersion {
		return nil, fmt.Errorf("%s has format version %d, newer than supported %d", s.path, doc.Version, fileFormatVersion)
	}
	return &inventory.Table{Cells: doc.Cells, Lanes: doc.Lanes, Settings: doc.Settings}, nil
}

// Save writes the whole table to a temp file and renames it over the old one.
func (s *FileStore) Save(ctx context.Context, t *inventory.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := fileDocument{
		Version:  fileFormatVersion,
		SavedAt:  s.now().UTC(),
		Cells:    t.Cells,
		Lanes:    t.Lanes,
		Settings: t.Settings,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	return atomicWrite(s.path, data, 0644)
}

// atomicWrite writes data next to path and renames it into place.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".eckslots-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}
