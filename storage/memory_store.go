package storage

import (
	"context"
	"sync"

	"github.com/insighthub/insighthub/models"
)

// MemoryStore keeps the document in process memory. Loads and saves copy the
// document so callers never share slices with the stored value.
type MemoryStore struct {
	mu  sync.RWMutex
	doc *models.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Name() string { return "memory" }

func (ms *MemoryStore) Exists(_ context.Context) (bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.doc != nil, nil
}

func (ms *MemoryStore) Load(_ context.Context) (*models.Document, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if ms.doc == nil {
		return models.NewDocument(), nil
	}
	return ms.doc.Clone(), nil
}

func (ms *MemoryStore) Save(_ context.Context, doc *models.Document) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	doc.Normalize()
	ms.doc = doc.Clone()
	return nil
}
