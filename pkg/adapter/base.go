package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapfuzz/pkg/conninfo"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, and Query implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Target conninfo.Descriptor
	Logger *slog.Logger
}

// Close closes the database connection. It is safe to call more than once.
func (b *BaseSQLAdapter) Close() error {
	if b.DB == nil {
		return nil
	}
	if b.Logger != nil {
		b.Logger.Debug("closing database connection", slog.Any("target", b.Target))
	}
	err := b.DB.Close()
	b.DB = nil
	return err
}

// Exec executes a SQL statement, discarding any result set.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*sql.Rows, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// OpenDB opens db and verifies it with a ping, wrapping failures in a
// *ConnectionError. Adapters call it from Connect once they have a *sql.DB.
func (b *BaseSQLAdapter) OpenDB(ctx context.Context, db *sql.DB, desc conninfo.Descriptor) error {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return &ConnectionError{Target: desc, Err: err}
	}
	b.DB = db
	b.Target = desc
	return nil
}
