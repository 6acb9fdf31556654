package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"business_planner/pkg/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashInput_IgnoresKeyOrderAndWhitespace(t *testing.T) {
	a, err := store.HashInput(store.KindMetrics, "", []byte(`{"periods": 12, "currency": "EUR"}`))
	require.NoError(t, err)
	b, err := store.HashInput(store.KindMetrics, "", []byte(`{"currency":"EUR","periods":12}`))
	require.NoError(t, err)
	c, err := store.HashInput(store.KindProjection, "", []byte(`{"currency":"EUR","periods":12}`))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)

	_, err = store.HashInput(store.KindMetrics, "", []byte(`{broken`))
	assert.Error(t, err)
}

func TestHashInput_ScopeChangesKey(t *testing.T) {
	doc := []byte(`{"periods":12}`)
	a, err := store.HashInput(store.KindMetrics, "cogs_ratio=0.3", doc)
	require.NoError(t, err)
	b, err := store.HashInput(store.KindMetrics, "cogs_ratio=0.5", doc)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func runStoreContract(t *testing.T, s store.RunStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.LoadByHash(ctx, store.KindMetrics, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	first := store.NewRun(store.KindMetrics, "abc", json.RawMessage(`{"npv":1}`))
	require.NoError(t, s.Save(ctx, first))

	got, err := s.LoadByHash(ctx, store.KindMetrics, "abc")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.JSONEq(t, `{"npv":1}`, string(got.Payload))
	assert.WithinDuration(t, first.CreatedAt, got.CreatedAt, time.Millisecond)

	// same kind and hash replaces
	second := store.NewRun(store.KindMetrics, "abc", json.RawMessage(`{"npv":2}`))
	require.NoError(t, s.Save(ctx, second))
	got, err = s.LoadByHash(ctx, store.KindMetrics, "abc")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.JSONEq(t, `{"npv":2}`, string(got.Payload))

	// kinds are separate
	_, err = s.LoadByHash(ctx, store.KindMarket, "abc")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, store.NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer s.Close()

	runStoreContract(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	run := store.NewRun(store.KindMarket, "h1", json.RawMessage(`[1,2,3]`))
	require.NoError(t, s.Save(ctx, run))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadByHash(ctx, store.KindMarket, "h1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}

func TestPGStore(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	s, err := store.NewPGStore(context.Background(), url)
	require.NoError(t, err)
	defer s.Close()

	runStoreContract(t, s)
}

func TestMemo(t *testing.T) {
	memo := store.NewMemo(nil, nil)
	ctx := context.Background()
	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return map[string]float64{"npv": 42}, nil
	}

	payload, hit, err := memo.Get(ctx, store.KindMetrics, []byte(`{"a":1,"b":2}`), compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.JSONEq(t, `{"npv":42}`, string(payload))

	payload, hit, err = memo.Get(ctx, store.KindMetrics, []byte(`{"b":2, "a":1}`), compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.JSONEq(t, `{"npv":42}`, string(payload))
	assert.Equal(t, 1, calls)
}

func TestMemo_ScopesShareStoreNotResults(t *testing.T) {
	runs := store.NewMemoryStore()
	base := store.NewMemo(runs, nil)
	low := base.WithScope("cogs_ratio=0.3")
	high := base.WithScope("cogs_ratio=0.5")
	assert.Equal(t, "cogs_ratio=0.5", high.Scope())

	ctx := context.Background()
	doc := []byte(`{"periods":2}`)
	answer := func(v float64) func() (interface{}, error) {
		return func() (interface{}, error) { return map[string]float64{"netProfit": v}, nil }
	}

	_, hit, err := low.Get(ctx, store.KindMetrics, doc, answer(1400))
	require.NoError(t, err)
	assert.False(t, hit)

	payload, hit, err := high.Get(ctx, store.KindMetrics, doc, answer(1000))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.JSONEq(t, `{"netProfit":1000}`, string(payload))

	// Each scope still hits its own entry.
	payload, hit, err = low.Get(ctx, store.KindMetrics, doc, answer(-1))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.JSONEq(t, `{"netProfit":1400}`, string(payload))
}

func TestMemo_ComputeError(t *testing.T) {
	memo := store.NewMemo(store.NewMemoryStore(), nil)
	boom := errors.New("boom")

	_, _, err := memo.Get(context.Background(), store.KindMetrics, []byte(`{}`), func() (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, name, err := store.Open(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "memory", name)
	assert.IsType(t, &store.MemoryStore{}, s)

	s, name, err = store.Open(ctx, "", filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "sqlite", name)
	assert.IsType(t, &store.SQLiteStore{}, s)
}
