package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	driver "github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/leapfuzz/pkg/adapter"
	"github.com/leapstack-labs/leapfuzz/pkg/conninfo"
)

const (
	// Name is the registry name of the adapter.
	Name = "mysql"

	// DefaultPort is the MySQL server port used when a connection string omits one.
	DefaultPort = 3306
)

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Name returns the registry name of the adapter.
func (a *Adapter) Name() string {
	return Name
}

// DefaultPort returns the MySQL default port.
func (a *Adapter) DefaultPort() int {
	return DefaultPort
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, desc conninfo.Descriptor) error {
	a.Logger.Debug("connecting to mysql", slog.Any("target", desc))

	connector, err := driver.NewConnector(buildConfig(desc))
	if err != nil {
		return &adapter.ConnectionError{Target: desc, Err: err}
	}

	db := sql.OpenDB(connector)
	// Every adapter instance is a single session.
	db.SetMaxOpenConns(1)

	if err := a.OpenDB(ctx, db, desc); err != nil {
		return err
	}
	return nil
}

// Exec executes stmt. Server errors are returned unwrapped so their text
// reaches failure logs exactly as MySQL reported it.
func (a *Adapter) Exec(ctx context.Context, stmt string) error {
	if a.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	_, err := a.DB.ExecContext(ctx, stmt)
	return err
}

// buildConfig translates a descriptor into driver configuration.
func buildConfig(desc conninfo.Descriptor) *driver.Config {
	cfg := driver.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(desc.Host, strconv.Itoa(desc.Port))
	cfg.User = desc.User
	cfg.Passwd = desc.Password
	cfg.DBName = desc.Database
	return cfg
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
