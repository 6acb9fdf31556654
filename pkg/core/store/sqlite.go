package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS planning_runs (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	input_hash TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE (kind, input_hash)
);
`

// SQLiteStore keeps runs in a local SQLite file. It is the CLI's cache.
type SQLiteStore struct {
	db *sqlx.DB
}

type sqliteRun struct {
	ID        string `db:"id"`
	Kind      string `db:"kind"`
	InputHash string `db:"input_hash"`
	Payload   string `db:"payload"`
	CreatedAt string `db:"created_at"`
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, run Run) error {
	row := sqliteRun{
		ID:        run.ID,
		Kind:      string(run.Kind),
		InputHash: run.InputHash,
		Payload:   string(run.Payload),
		CreatedAt: run.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO planning_runs (id, kind, input_hash, payload, created_at)
		VALUES (:id, :kind, :input_hash, :payload, :created_at)
		ON CONFLICT (kind, input_hash) DO UPDATE SET
			id = excluded.id,
			payload = excluded.payload,
			created_at = excluded.created_at`, row)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadByHash(ctx context.Context, kind Kind, hash string) (Run, error) {
	var row sqliteRun
	err := s.db.GetContext(ctx, &row,
		`SELECT id, kind, input_hash, payload, created_at FROM planning_runs WHERE kind = ? AND input_hash = ?`,
		string(kind), hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, fmt.Errorf("load run: %w", err)
	}

	created, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	return Run{
		ID:        row.ID,
		InputHash: row.InputHash,
		Kind:      Kind(row.Kind),
		Payload:   []byte(row.Payload),
		CreatedAt: created,
	}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
