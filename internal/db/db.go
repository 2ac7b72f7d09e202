// Package db provides optional PostgreSQL persistence for run rows and draft
// artifacts. The state file remains the source of truth for idempotence; the
// database is a mirror for inspection and history.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/internship-outreach/internal/types"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS outreach_runs (
    id         UUID PRIMARY KEY,
    started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    ended_at   TIMESTAMPTZ,
    sent       INT NOT NULL DEFAULT 0,
    failed     INT NOT NULL DEFAULT 0,
    skipped    INT NOT NULL DEFAULT 0,
    pending    INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS outreach_drafts (
    id         BIGSERIAL PRIMARY KEY,
    run_id     UUID NOT NULL REFERENCES outreach_runs(id),
    record_id  TEXT NOT NULL,
    company    TEXT NOT NULL,
    recipient  TEXT NOT NULL,
    subject    TEXT NOT NULL,
    body       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS outreach_drafts_run_idx ON outreach_drafts (run_id);
`

// EnsureSchema creates the tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("db: ensure schema: %w", err)
	}
	return nil
}

// CreateRun inserts a new run row and returns its ID.
func (db *DB) CreateRun(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	if _, err := db.pool.Exec(ctx,
		`INSERT INTO outreach_runs (id) VALUES ($1)`, id); err != nil {
		return uuid.Nil, fmt.Errorf("db: create run: %w", err)
	}
	return id, nil
}

// SaveDraft mirrors one generated draft for later inspection.
func (db *DB) SaveDraft(ctx context.Context, runID uuid.UUID, rec *types.CompanyRecord, draft *types.DraftedEmail) error {
	if _, err := db.pool.Exec(ctx,
		`INSERT INTO outreach_drafts (run_id, record_id, company, recipient, subject, body)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, rec.ID, rec.Company, rec.Email, draft.Subject, draft.Body); err != nil {
		return fmt.Errorf("db: save draft: %w", err)
	}
	return nil
}

// CompleteRun records the final summary counts on the run row.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, summary *types.RunSummary) error {
	if _, err := db.pool.Exec(ctx,
		`UPDATE outreach_runs
		 SET ended_at = now(), sent = $2, failed = $3, skipped = $4, pending = $5
		 WHERE id = $1`,
		runID, summary.Sent, summary.Failed, summary.Skipped, summary.Pending); err != nil {
		return fmt.Errorf("db: complete run: %w", err)
	}
	return nil
}
