package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapfuzz/internal/state"
	"github.com/leapstack-labs/leapfuzz/pkg/adapter"
	"github.com/leapstack-labs/leapfuzz/pkg/conninfo"
)

// Validate checks if the configuration is valid. The connection string is
// parsed so malformed settings fail before any connection is attempted.
func (c *Config) Validate() error {
	var errs []error

	if c.Target.Type == "" {
		errs = append(errs, errors.New("target type is required"))
	} else if !adapter.IsRegistered(c.Target.Type) {
		errs = append(errs, &adapter.UnknownAdapterError{Type: c.Target.Type, Available: adapter.ListAdapters()})
	} else if _, err := c.Descriptor(); err != nil {
		errs = append(errs, fmt.Errorf("invalid target conninfo: %w", err))
	}

	if c.StatusInterval == 0 {
		errs = append(errs, errors.New("status_interval must be greater than 0"))
	}
	if c.LogFailures && c.FailureLog == "" {
		errs = append(errs, errors.New("failure_log is required when log_failures is set"))
	}

	switch c.Store.Driver {
	case "", state.DriverSQLite, state.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("store driver %q is not supported (want %s or %s)",
			c.Store.Driver, state.DriverSQLite, state.DriverPostgres))
	}
	if c.Store.Enabled() && c.Store.DSN == "" {
		errs = append(errs, errors.New("store dsn is required when a store driver is set"))
	}

	return errors.Join(errs...)
}

// Descriptor parses the target connection string using the defaults of the
// target adapter.
func (c *Config) Descriptor() (conninfo.Descriptor, error) {
	a, err := adapter.NewAdapter(c.Target.Type, nil)
	if err != nil {
		return conninfo.Descriptor{}, err
	}
	return conninfo.Parse(c.Target.Conninfo, conninfo.Defaults(a.DefaultPort()))
}
