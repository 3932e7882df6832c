// Package state persists fuzz runs and their failed statements.
//
// The store runs on database/sql with either the pure-Go SQLite driver or
// pgx, and its schema is managed by goose migrations embedded in the binary.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // SQLite driver (pure Go)
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run is one invocation of the harness.
type Run struct {
	ID          string     `json:"id"`
	Target      string     `json:"target"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Queries     uint64     `json:"queries"`
	Failed      uint64     `json:"failed"`
}

// Failure is a failed statement recorded during a run.
type Failure struct {
	RunID     string    `json:"run_id"`
	Seq       uint64    `json:"seq"`
	Statement string    `json:"statement"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a run store backed by SQLite or PostgreSQL.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Open connects to the store and applies pending migrations.
// For SQLite the DSN is a file path or ":memory:".
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q (want %s or %s)", driver, DriverSQLite, DriverPostgres)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}
	if driver == DriverSQLite {
		// A single connection keeps ":memory:" databases alive across calls.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s store: %w", driver, err)
	}

	s := newStore(db, driver, logger)
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Debug("store opened", slog.String("driver", driver))
	return s, nil
}

func newStore(db *sql.DB, driver string, logger *slog.Logger) *Store {
	return &Store{db: db, driver: driver, logger: logger}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind rewrites ? placeholders to $N for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
