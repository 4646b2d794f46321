package storage

import (
	"context"
	"errors"

	"github.com/insighthub/insighthub/models"
)

// ErrCorruptData is returned by Load when the persisted bytes do not decode
// into a models.Document.
var ErrCorruptData = errors.New("stored document is corrupt")

// DocumentStore persists the whole models.Document at once. There is no
// partial update primitive: Save always replaces the prior content.
type DocumentStore interface {
	// Load returns the current document, or a fresh default document if
	// nothing has been saved yet.
	Load(ctx context.Context) (*models.Document, error)
	// Save replaces the stored document.
	Save(ctx context.Context, doc *models.Document) error
	// Exists reports whether a document has been saved before.
	Exists(ctx context.Context) (bool, error)
	// Name identifies the backend in logs and metrics.
	Name() string
}
