// Package store keeps computed results keyed by a hash of the input document,
// so an unchanged document is never recomputed. The engine itself is pure; all
// caching lives here.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"business_planner/pkg/core/utils"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no run matches the requested hash.
var ErrNotFound = errors.New("run not found")

// Kind names what a run computed.
type Kind string

const (
	KindProjection  Kind = "projection"
	KindMetrics     Kind = "metrics"
	KindMarket      Kind = "market"
	KindSensitivity Kind = "sensitivity"
)

// Run is one stored computation.
type Run struct {
	ID        string          `json:"id" db:"id"`
	InputHash string          `json:"input_hash" db:"input_hash"`
	Kind      Kind            `json:"kind" db:"kind"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// NewRun stamps a payload with a fresh ID and the current time.
func NewRun(kind Kind, hash string, payload json.RawMessage) Run {
	return Run{
		ID:        uuid.New().String(),
		InputHash: hash,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// RunStore persists runs. Saving a run for an existing (kind, hash) pair
// replaces it.
type RunStore interface {
	Save(ctx context.Context, run Run) error
	LoadByHash(ctx context.Context, kind Kind, hash string) (Run, error)
	Close() error
}

// HashInput fingerprints a JSON document for a kind of computation under the
// settings named by scope. Documents that differ only in key order or
// whitespace hash the same; a different scope never does.
func HashInput(kind Kind, scope string, doc []byte) (string, error) {
	canonical, err := utils.CanonicalJSON(doc)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize input: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(scope))
	h.Write([]byte{0})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
