package adapter

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapfuzz/pkg/conninfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBase(t *testing.T) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &BaseSQLAdapter{DB: db}, mock
}

func TestBaseSQLAdapter_NotConnected(t *testing.T) {
	base := &BaseSQLAdapter{}
	ctx := context.Background()

	assert.False(t, base.IsConnected())
	assert.NoError(t, base.Close(), "closing an unconnected adapter is a no-op")

	err := base.Exec(ctx, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not established")

	rows, err := base.Query(ctx, "SELECT 1")
	require.Error(t, err)
	assert.Nil(t, rows)
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name   string
		stmt   string
		result error
		errMsg string
	}{
		{name: "insert", stmt: "INSERT INTO orders VALUES (1, 'x')"},
		{name: "select discards rows", stmt: "SELECT id FROM orders"},
		{name: "server error", stmt: "SELEC 1", result: assert.AnError, errMsg: "failed to execute SQL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, mock := newMockBase(t)
			exp := mock.ExpectExec(regexp.QuoteMeta(tt.stmt))
			if tt.result != nil {
				exp.WillReturnError(tt.result)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := base.Exec(context.Background(), tt.stmt)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.result)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	base, mock := newMockBase(t)
	mock.ExpectQuery("SELECT table_name").WillReturnRows(
		sqlmock.NewRows([]string{"table_name"}).AddRow("orders").AddRow("order_summary"))
	mock.ExpectQuery("SELECT broken").WillReturnError(assert.AnError)

	rows, err := base.Query(context.Background(), "SELECT table_name FROM information_schema.tables")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"orders", "order_summary"}, names)

	_, err = base.Query(context.Background(), "SELECT broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute query")
}

func TestBaseSQLAdapter_CloseTwice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	base := &BaseSQLAdapter{DB: db}
	require.NoError(t, base.Close())
	assert.False(t, base.IsConnected())
	assert.NoError(t, base.Close(), "second close is a no-op")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_OpenDB(t *testing.T) {
	desc := conninfo.Descriptor{Host: "db1", Port: 3307, Database: "shop", User: "tester"}

	t.Run("ping succeeds", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		mock.ExpectPing()

		base := &BaseSQLAdapter{}
		require.NoError(t, base.OpenDB(context.Background(), db, desc))
		assert.True(t, base.IsConnected())
		assert.Equal(t, desc, base.Target)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping fails", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing().WillReturnError(assert.AnError)
		mock.ExpectClose()

		base := &BaseSQLAdapter{}
		err = base.OpenDB(context.Background(), db, desc)
		require.Error(t, err)
		assert.False(t, base.IsConnected())

		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "db1:3307/shop")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
