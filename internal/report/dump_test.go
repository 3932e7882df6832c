package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapfuzz/internal/dut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryDumper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.log")

	d, err := NewQueryDumper(path)
	require.NoError(t, err)
	d.Generated("SELECT 1")
	d.Generated("INSERT INTO t VALUES (1)")
	require.NoError(t, d.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\nINSERT INTO t VALUES (1);\n", string(data))

	// Reopening appends.
	d, err = NewQueryDumper(path)
	require.NoError(t, err)
	d.Generated("SELECT 2")
	require.NoError(t, d.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\nINSERT INTO t VALUES (1);\nSELECT 2;\n", string(data))
}

func TestErrorDumper_HarnessFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.err")
	sink, err := NewErrorDumper(path)
	require.NoError(t, err)

	h := dut.New(func(ctx context.Context) (dut.Conn, error) {
		return nil, errors.New("Can't connect to MySQL server on 'db1'")
	}, sink, dut.WithFailureLogging(true), dut.WithStatusInterval(2))

	h.Execute(context.Background(), "SELECT 1")
	h.Execute(context.Background(), "SELECT 2")

	// Written through before Close.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT 1\nCan't connect to MySQL server on 'db1'\n"+
			"SELECT 2\nCan't connect to MySQL server on 'db1'\n"+
			"Failed/Queries=2/2\n",
		string(data))

	require.NoError(t, sink.Close())
	assert.NoError(t, sink.Err())
}

func TestNewDumper_BadPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "f")

	_, err := NewQueryDumper(missing)
	assert.Error(t, err)
	_, err = NewErrorDumper(missing)
	assert.Error(t, err)
}
