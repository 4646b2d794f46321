package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/insighthub/insighthub/models"
)

// defaultDataFile is used when NewFileStore receives an empty path.
const defaultDataFile = "data.json"

// FileStore keeps the document as pretty-printed JSON in a single file.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a FileStore for path. If path is empty, it defaults to data.json
// in the working directory.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if path == "" {
		path = defaultDataFile
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

func (fs *FileStore) Name() string { return "file" }

func (fs *FileStore) Path() string { return fs.path }

func (fs *FileStore) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(fs.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat data file: %w", err)
}

func (fs *FileStore) Load(_ context.Context) (*models.Document, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewDocument(), nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		fs.logger.Error("Data file does not parse as a document", zap.String("path", fs.path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptData, fs.path, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Save writes the document to a temporary file in the target directory and
// renames it into place, so a concurrent reader sees either the old or the
// new document.
func (fs *FileStore) Save(_ context.Context, doc *models.Document) error {
	if doc == nil {
		return fmt.Errorf("document cannot be nil")
	}
	doc.Normalize()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(fs.path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		fs.logger.Error("Failed to write temporary data file", zap.String("path", tmpPath), zap.Error(err))
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	fs.logger.Debug("Saved document",
		zap.String("path", fs.path),
		zap.Int("tasks", len(doc.Tasks)),
		zap.Int("users", len(doc.Users)),
	)
	return nil
}
