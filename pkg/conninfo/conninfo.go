// Package conninfo parses the flat key=value connection strings used to point
// leapfuzz at a target database.
//
// A connection string is a whitespace-separated list of tokens such as
//
//	host=db1 port=3307 dbname=shop user=tester password=secret
//
// Values cannot contain whitespace. Parsing is pure: no socket or handle is
// acquired until an adapter is connected with the resulting Descriptor.
package conninfo

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Default values for keys missing from a connection string.
const (
	DefaultHost     = "127.0.0.1"
	DefaultDatabase = "test"
	DefaultUser     = "root"
)

// Sentinel errors wrapped by ConfigError.
var (
	ErrUnknownKey     = errors.New("unknown key")
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidPort    = errors.New("invalid port")
)

// Descriptor describes how to reach a database.
type Descriptor struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// Defaults returns the descriptor used for keys that a connection string
// leaves out. The port is backend-specific.
func Defaults(port int) Descriptor {
	return Descriptor{
		Host:     DefaultHost,
		Port:     port,
		Database: DefaultDatabase,
		User:     DefaultUser,
	}
}

// LogValue implements slog.LogValuer. The password is never logged.
func (d Descriptor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", d.Host),
		slog.Int("port", d.Port),
		slog.String("dbname", d.Database),
		slog.String("user", d.User),
	)
}

// String renders the descriptor back into connection-string form with the
// password masked.
func (d Descriptor) String() string {
	s := fmt.Sprintf("host=%s port=%d dbname=%s user=%s", d.Host, d.Port, d.Database, d.User)
	if d.Password != "" {
		s += " password=***"
	}
	return s
}

// ConfigError reports a single rejected token of a connection string.
// Token holds the raw token and may contain a secret.
type ConfigError struct {
	Token string
	Err   error
}

// Error names the key of the rejected token. Values are left out, except
// for port, so a mistyped password key does not print the password.
func (e *ConfigError) Error() string {
	key, _, _ := strings.Cut(e.Token, "=")
	if key == "port" {
		return fmt.Sprintf("connection string: %v: %q", e.Err, e.Token)
	}
	return fmt.Sprintf("connection string: %v: %q", e.Err, key)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Parse parses a connection string on top of defaults.
//
// Every rejected token is reported; the returned error is the join of one
// *ConfigError per bad token. Later occurrences of a key override earlier ones.
func Parse(s string, defaults Descriptor) (Descriptor, error) {
	d := defaults
	var errs []error

	for _, tok := range strings.Fields(s) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			errs = append(errs, &ConfigError{Token: tok, Err: ErrMalformedToken})
			continue
		}

		switch key {
		case "host":
			d.Host = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil || port < 0 {
				errs = append(errs, &ConfigError{Token: tok, Err: ErrInvalidPort})
				continue
			}
			d.Port = port
		case "dbname":
			d.Database = value
		case "user":
			d.User = value
		case "password":
			d.Password = value
		default:
			errs = append(errs, &ConfigError{Token: tok, Err: ErrUnknownKey})
		}
	}

	if len(errs) > 0 {
		return Descriptor{}, errors.Join(errs...)
	}
	return d, nil
}
