// Package adapter defines the contract that database backends implement so
// leapfuzz can load their catalog and execute statements against them.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves from init().
package adapter

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/leapfuzz/pkg/catalog"
	"github.com/leapstack-labs/leapfuzz/pkg/conninfo"
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Name returns the registry name of the backend (e.g. "mysql").
	Name() string

	// DefaultPort is the port used when a connection string omits one.
	DefaultPort() int

	// Connect establishes a connection to the database described by desc.
	Connect(ctx context.Context, desc conninfo.Descriptor) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement, discarding any result set.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*sql.Rows, error)

	// LoadCatalog introspects the connected database. It either returns a
	// complete catalog or an error, never a partial catalog.
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// ConnectionError is returned when a database connection cannot be established.
type ConnectionError struct {
	Target conninfo.Descriptor
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s:%d/%s: %v", e.Target.Host, e.Target.Port, e.Target.Database, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
