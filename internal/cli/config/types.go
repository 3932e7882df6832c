// Package config provides configuration management for the leapfuzz CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	Target         TargetConfig `koanf:"target"`
	FailureLog     string       `koanf:"failure_log"`
	LogFailures    bool         `koanf:"log_failures"`
	QueryLog       string       `koanf:"query_log"`
	StatusInterval uint64       `koanf:"status_interval"`
	MaxQueries     uint64       `koanf:"max_queries"`
	Store          StoreConfig  `koanf:"store"`
	Verbose        bool         `koanf:"verbose"`
}

// TargetConfig selects the database under test.
type TargetConfig struct {
	// Type is the registered adapter name.
	Type string `koanf:"type"`
	// Conninfo is a "key=value ..." connection string. ${VAR} references
	// are expanded from the environment.
	Conninfo string `koanf:"conninfo"`
}

// StoreConfig configures the optional persistent run store.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

// Enabled reports whether a store is configured.
func (s StoreConfig) Enabled() bool {
	return s.Driver != ""
}

// Default configuration values.
const (
	DefaultTargetType     = "mysql"
	DefaultFailureLog     = "queries.err"
	DefaultStatusInterval = 1000
	DefaultConfigFile     = "leapfuzz.yaml"
)
