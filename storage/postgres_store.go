package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/insighthub/insighthub/models"
)

const (
	defaultDocumentName = "default"
	dbPingTimeout       = 5 * time.Second
	dbMaxOpenConns      = 5
	dbMaxIdleConns      = 5
	dbConnMaxLifetime   = 5 * time.Minute
)

const createDocumentsTable = `
	CREATE TABLE IF NOT EXISTS insighthub_documents (
		name       TEXT PRIMARY KEY,
		body       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresStore keeps the document as one JSONB row. It is meant for hosts
// without a writable disk; the document semantics are identical to FileStore.
type PostgresStore struct {
	db     *sql.DB
	name   string
	logger *zap.Logger
}

// OpenPostgres connects with lib/pq, pings, and makes sure the documents table exists.
func OpenPostgres(ctx context.Context, connStr string, logger *zap.Logger) (*PostgresStore, error) {
	if connStr == "" {
		return nil, fmt.Errorf("database url is required for the postgres backend")
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewPostgresStore(db, logger)
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore wraps an already opened pool. The caller owns db.
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, name: defaultDocumentName, logger: logger}
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	if _, err := ps.db.ExecContext(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	ps.logger.Info("Database connection successful")
	return nil
}

func (ps *PostgresStore) Name() string { return "postgres" }

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func (ps *PostgresStore) Exists(ctx context.Context) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM insighthub_documents WHERE name = $1)`
	if err := ps.db.QueryRowContext(ctx, query, ps.name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check document: %w", err)
	}
	return exists, nil
}

func (ps *PostgresStore) Load(ctx context.Context) (*models.Document, error) {
	query := `SELECT body FROM insighthub_documents WHERE name = $1`

	var body []byte
	err := ps.db.QueryRowContext(ctx, query, ps.name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NewDocument(), nil
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: row %q: %v", ErrCorruptData, ps.name, err)
	}
	doc.Normalize()
	return &doc, nil
}

func (ps *PostgresStore) Save(ctx context.Context, doc *models.Document) error {
	if doc == nil {
		return fmt.Errorf("document cannot be nil")
	}
	doc.Normalize()

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `
		INSERT INTO insighthub_documents (name, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`
	if _, err := ps.db.ExecContext(ctx, query, ps.name, body); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}
