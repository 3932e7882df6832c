package config

import "github.com/spf13/pflag"

// RegisterFlags adds the global configuration flags to fs. Load only reads
// the flags that were explicitly set.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default: ./"+DefaultConfigFile+")")
	fs.String("conninfo", "", `connection string, e.g. "host=127.0.0.1 port=3306 dbname=test user=root"`)
	fs.String("target-type", DefaultTargetType, "database adapter of the target")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.Bool("log-failures", false, "write failed statements and their errors to the failure log")
	fs.String("failure-log", DefaultFailureLog, "failure log path")
	fs.String("query-log", "", "append every statement to this file")
	fs.Uint64("status-interval", DefaultStatusInterval, "statements between status lines in the failure log")
	fs.Uint64("max-queries", 0, "stop after this many statements (0 = unlimited)")
	fs.String("store-driver", "", "persist runs to a store: sqlite or pgx")
	fs.String("store-dsn", "", "store data source name")
}
