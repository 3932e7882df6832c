package dut

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapfuzz/pkg/adapter"
	"github.com/leapstack-labs/leapfuzz/pkg/catalog"
	"github.com/leapstack-labs/leapfuzz/pkg/conninfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter connects to a fresh sqlmock database on every Connect.
type mockAdapter struct {
	adapter.BaseSQLAdapter
	connectErr error
	setup      func(sqlmock.Sqlmock)
	connected  *int
}

func (m *mockAdapter) Name() string     { return "mock" }
func (m *mockAdapter) DefaultPort() int { return 1 }

func (m *mockAdapter) Connect(ctx context.Context, desc conninfo.Descriptor) error {
	if m.connectErr != nil {
		return &adapter.ConnectionError{Target: desc, Err: m.connectErr}
	}
	db, mock, err := sqlmock.New()
	if err != nil {
		return err
	}
	if m.setup != nil {
		m.setup(mock)
	}
	mock.ExpectClose()
	*m.connected++
	return m.OpenDB(ctx, db, desc)
}

func (m *mockAdapter) LoadCatalog(context.Context) (*catalog.Catalog, error) {
	return nil, errors.New("not supported")
}

func TestAdapterDialer(t *testing.T) {
	connected := 0
	desc := conninfo.Descriptor{Host: "db1", Port: 1, Database: "shop"}
	factory := func(logger *slog.Logger) adapter.Adapter {
		return &mockAdapter{
			BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
			connected:      &connected,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO t VALUES \\(1\\)").WillReturnResult(sqlmock.NewResult(1, 1))
			},
		}
	}

	h := New(AdapterDialer(factory, desc, nil), nil)
	out := h.Execute(context.Background(), "INSERT INTO t VALUES (1)")
	assert.False(t, out.Failed())

	out = h.Execute(context.Background(), "DROP TABLE t")
	require.True(t, out.Failed(), "unexpected statements fail on the mock")

	assert.Equal(t, 2, connected, "each statement gets its own connection")
	assert.Equal(t, Stats{Queries: 2, Failed: 1}, h.Stats())
}

func TestAdapterDialer_ConnectError(t *testing.T) {
	refused := errors.New("connection refused")
	connected := 0
	factory := func(*slog.Logger) adapter.Adapter {
		return &mockAdapter{connectErr: refused, connected: &connected}
	}

	h := New(AdapterDialer(factory, conninfo.Descriptor{Host: "db1", Port: 1}, nil), nil)
	out := h.Execute(context.Background(), "SELECT 1")
	require.True(t, out.Failed())
	assert.ErrorIs(t, out.Failure, refused)

	var connErr *adapter.ConnectionError
	assert.True(t, errors.As(out.Failure, &connErr))
	assert.Equal(t, 0, connected)
}
