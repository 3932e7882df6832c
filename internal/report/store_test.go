package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapfuzz/internal/dut"
	"github.com/leapstack-labs/leapfuzz/internal/state"
	"github.com/leapstack-labs/leapfuzz/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLogger(t *testing.T) {
	ctx := context.Background()
	store, err := state.Open(ctx, state.DriverSQLite, filepath.Join(t.TempDir(), "state.db"), nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	l, err := NewStoreLogger(ctx, store, "db1:3307/shop", testutil.NewTestLogger(t))
	require.NoError(t, err)

	l.Generated("SELECT 1")
	l.Executed(succeeded("SELECT 1", 1))
	l.Error(failed("SELEC 2", 2, "syntax error"))
	l.Error(failed("SELECT * FROM nope", 3, "no such table"))
	require.NoError(t, l.Finish(ctx, dut.Stats{Queries: 3, Failed: 2}))

	run, err := store.GetRun(ctx, l.RunID())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), run.Queries)
	assert.Equal(t, uint64(2), run.Failed)
	assert.NotNil(t, run.CompletedAt)

	failures, err := store.ListFailures(ctx, l.RunID())
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, uint64(2), failures[0].Seq)
	assert.Equal(t, "SELEC 2", failures[0].Statement)
	assert.Equal(t, "syntax error", failures[0].Message)
	assert.Equal(t, "no such table", failures[1].Message)
}
