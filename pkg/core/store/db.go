package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS planning_runs (
	id         UUID PRIMARY KEY,
	kind       TEXT NOT NULL,
	input_hash TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (kind, input_hash)
);
`

// PGStore keeps runs in Postgres as JSONB.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to databaseURL and makes sure the schema exists.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL not set")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

// Save upserts the run on (kind, input_hash).
func (s *PGStore) Save(ctx context.Context, run Run) error {
	query := `
		INSERT INTO planning_runs (id, kind, input_hash, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (kind, input_hash)
		DO UPDATE SET
			id = EXCLUDED.id,
			payload = EXCLUDED.payload,
			created_at = EXCLUDED.created_at;
	`
	_, err := s.pool.Exec(ctx, query, run.ID, string(run.Kind), run.InputHash, []byte(run.Payload), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// LoadByHash returns the run stored for (kind, hash).
func (s *PGStore) LoadByHash(ctx context.Context, kind Kind, hash string) (Run, error) {
	query := `SELECT id::text, kind, input_hash, payload, created_at FROM planning_runs WHERE kind = $1 AND input_hash = $2`

	var (
		run     Run
		kindStr string
		payload []byte
	)
	err := s.pool.QueryRow(ctx, query, string(kind), hash).Scan(&run.ID, &kindStr, &run.InputHash, &payload, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, fmt.Errorf("failed to load run: %w", err)
	}
	run.Kind = Kind(kindStr)
	run.Payload = payload
	return run, nil
}

// Close releases the pool.
func (s *PGStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
