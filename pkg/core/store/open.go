package store

import "context"

// Open picks the backend: Postgres when databaseURL is set, SQLite when
// sqlitePath is set, memory otherwise. The returned name is for log lines.
func Open(ctx context.Context, databaseURL, sqlitePath string) (RunStore, string, error) {
	switch {
	case databaseURL != "":
		s, err := NewPGStore(ctx, databaseURL)
		if err != nil {
			return nil, "", err
		}
		return s, "postgres", nil
	case sqlitePath != "":
		s, err := NewSQLiteStore(sqlitePath)
		if err != nil {
			return nil, "", err
		}
		return s, "sqlite", nil
	default:
		return NewMemoryStore(), "memory", nil
	}
}
