package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// MemoryStore is a RunStore backed by a map. It is used when no database is
// configured.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]Run)}
}

func memoryKey(kind Kind, hash string) string {
	return string(kind) + ":" + hash
}

func (s *MemoryStore) Save(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[memoryKey(run.Kind, run.InputHash)] = run
	return nil
}

func (s *MemoryStore) LoadByHash(_ context.Context, kind Kind, hash string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[memoryKey(kind, hash)]
	if !ok {
		return Run{}, ErrNotFound
	}
	return run, nil
}

func (s *MemoryStore) Close() error { return nil }

// Memo returns stored payloads for documents it has seen and computes, stores
// and returns the rest. Payloads are keyed by the memo's scope as well as the
// document, so results computed under other engine settings are never served.
type Memo struct {
	store  RunStore
	logger *slog.Logger
	scope  string
}

// NewMemo wraps a store. A nil store falls back to a MemoryStore.
func NewMemo(s RunStore, logger *slog.Logger) *Memo {
	if s == nil {
		s = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Memo{store: s, logger: logger}
}

// WithScope returns a memo over the same store whose keys include scope.
func (m *Memo) WithScope(scope string) *Memo {
	return &Memo{store: m.store, logger: m.logger, scope: scope}
}

// Scope reports the settings fingerprint mixed into every key.
func (m *Memo) Scope() string { return m.scope }

// Get returns the payload for (kind, doc), calling compute on a miss. A store
// failure is logged and the freshly computed payload is still returned.
func (m *Memo) Get(ctx context.Context, kind Kind, doc []byte, compute func() (interface{}, error)) (json.RawMessage, bool, error) {
	hash, err := HashInput(kind, m.scope, doc)
	if err != nil {
		return nil, false, err
	}

	run, err := m.store.LoadByHash(ctx, kind, hash)
	switch {
	case err == nil:
		m.logger.Debug("memo hit", "kind", string(kind), "hash", hash[:12])
		return run.Payload, true, nil
	case !errors.Is(err, ErrNotFound):
		m.logger.Warn("memo lookup failed", "kind", string(kind), "error", err)
	}

	result, err := compute()
	if err != nil {
		return nil, false, err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode %s result: %w", kind, err)
	}

	if err := m.store.Save(ctx, NewRun(kind, hash, payload)); err != nil {
		m.logger.Warn("memo save failed", "kind", string(kind), "error", err)
	}
	return payload, false, nil
}

// Close closes the underlying store.
func (m *Memo) Close() error {
	return m.store.Close()
}
