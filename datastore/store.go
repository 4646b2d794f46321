package datastore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/insighthub/insighthub/metrics"
	"github.com/insighthub/insighthub/models"
	"github.com/insighthub/insighthub/storage"
)

// Store runs every repository operation as one load-mutate-save cycle on the
// backing document. A single mutex serializes the cycles of this process, so
// concurrent requests never interleave their read and write halves. Separate
// processes sharing one backend can still overwrite each other.
type Store struct {
	mu      sync.Mutex
	backend storage.DocumentStore
	logger  *zap.Logger
	now     func() time.Time

	// lastIssuedTaskID is the highest task id handed out by this process.
	// Deleting tasks never lowers it, so a removed id is not issued again.
	lastIssuedTaskID int64
}

func NewStore(backend storage.DocumentStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// Init verifies the stored document decodes and writes the zeroed default
// document when nothing has been stored yet. A storage.ErrCorruptData from
// Init should stop the process.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document from %s store: %w", s.backend.Name(), err)
	}

	s.lastIssuedTaskID = max(s.lastIssuedTaskID, lastTaskID(doc.Tasks))

	exists, err := s.backend.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.backend.Save(ctx, doc); err != nil {
			return fmt.Errorf("failed to create default document: %w", err)
		}
		s.logger.Info("Created default document", zap.String("backend", s.backend.Name()))
		return nil
	}

	s.logger.Info("Loaded document",
		zap.String("backend", s.backend.Name()),
		zap.Int("tasks", len(doc.Tasks)),
		zap.Int("users", len(doc.Users)),
	)
	return nil
}

// View loads the document and hands it to fn without saving.
func (s *Store) View(ctx context.Context, op string, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { metrics.RecordStoreOperation(op, s.backend.Name(), time.Since(start)) }()

	doc, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fn(doc)
}

// Update loads the document, lets fn mutate it, and saves the result. When fn
// returns an error nothing is written.
func (s *Store) Update(ctx context.Context, op string, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { metrics.RecordStoreOperation(op, s.backend.Name(), time.Since(start)) }()

	doc, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.backend.Save(ctx, doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetAll empties the task list and zeroes every counter. Users are kept.
// A corrupt document cannot be partially kept, so it is replaced by a fresh
// default document.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { metrics.RecordStoreOperation("reset", s.backend.Name(), time.Since(start)) }()

	doc, err := s.backend.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrCorruptData):
		s.logger.Warn("Stored document is corrupt; resetting to an empty document, registered users are lost",
			zap.String("backend", s.backend.Name()),
			zap.Error(err),
		)
		doc = models.NewDocument()
	case err != nil:
		return fmt.Errorf("reset: %w", err)
	default:
		doc.Tasks = []models.Task{}
		doc.Stats = models.Stats{}
	}

	if err := s.backend.Save(ctx, doc); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.logger.Info("Reset tasks and stats", zap.Int("users_kept", len(doc.Users)))
	return nil
}

// nextTaskID issues a task id above both the stored tasks and every id this
// process has issued before. Callers must hold s.mu.
func (s *Store) nextTaskID(now time.Time, doc *models.Document) int64 {
	id := nextID(now, max(s.lastIssuedTaskID, lastTaskID(doc.Tasks)))
	s.lastIssuedTaskID = id
	return id
}

// Ping checks the backend can still produce a document.
func (s *Store) Ping(ctx context.Context) error {
	return s.View(ctx, "ping", func(*models.Document) error { return nil })
}

func (s *Store) BackendName() string {
	return s.backend.Name()
}
