package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/leapstack-labs/leapfuzz/internal/cli/config"
	"github.com/leapstack-labs/leapfuzz/internal/dut"
	"github.com/leapstack-labs/leapfuzz/internal/engine"
	"github.com/leapstack-labs/leapfuzz/internal/report"
	"github.com/leapstack-labs/leapfuzz/internal/state"
	"github.com/leapstack-labs/leapfuzz/pkg/adapter"
	"github.com/leapstack-labs/leapfuzz/pkg/conninfo"
	"github.com/spf13/cobra"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	JSONOutput bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [FILE|-]",
		Short: "Execute statements against the target",
		Long: `Execute SQL statements against the target database, one fresh
connection per statement.

Statements are read from FILE, or from stdin when FILE is "-" or omitted.
A statement ends with ";" at the end of a line. Failed statements are
counted and never stop the run. With --log-failures every failed statement
and its error are appended to the failure log, which also receives a
"Failed/Queries=F/Q" status line every --status-interval statements.`,
		Example: `  # Run a script
  leapfuzz run generated.sql --conninfo "host=db1 dbname=shop"

  # Pipe statements from a generator and keep failures
  sqlgen | leapfuzz run --log-failures

  # Record runs in a SQLite store
  leapfuzz run generated.sql --store-driver sqlite --store-dsn runs.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Print the final statistics as JSON")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	factory, err := cmdCtx.Factory()
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open statements: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	_, err = executeRun(ctx, runEnv{
		cfg:      cmdCtx.Cfg,
		logger:   cmdCtx.Logger,
		factory:  factory,
		target:   cmdCtx.Target,
		src:      engine.NewScriptSource(in),
		out:      cmd.OutOrStdout(),
		progress: cmd.ErrOrStderr(),
		json:     opts.JSONOutput,
	})
	return err
}

// runEnv holds everything a run needs.
type runEnv struct {
	cfg      *config.Config
	logger   *slog.Logger
	factory  adapter.Factory
	target   conninfo.Descriptor
	src      engine.Source
	out      io.Writer
	progress io.Writer
	json     bool
}

// runSummary is the JSON form of the final statistics.
type runSummary struct {
	dut.Stats
	RunID  string              `json:"run_id,omitempty"`
	Errors []report.ErrorCount `json:"errors"`
}

func executeRun(ctx context.Context, env runEnv) (dut.Stats, error) {
	cfg, logger := env.cfg, env.logger

	var sink dut.FailureSink
	if cfg.FailureLog != "" {
		dumper, err := report.NewErrorDumper(cfg.FailureLog)
		if err != nil {
			return dut.Stats{}, err
		}
		defer closeLogged(logger, "failure log", dumper.Close)
		sink = dumper
	}

	statsLogger := report.NewStatsLogger(env.progress)
	loggers := report.Multi{statsLogger}

	if cfg.QueryLog != "" {
		dumper, err := report.NewQueryDumper(cfg.QueryLog)
		if err != nil {
			return dut.Stats{}, err
		}
		defer closeLogged(logger, "query log", dumper.Close)
		loggers = append(loggers, dumper)
	}

	var storeLogger *report.StoreLogger
	if cfg.Store.Enabled() {
		store, err := state.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, logger)
		if err != nil {
			return dut.Stats{}, err
		}
		defer closeLogged(logger, "store", store.Close)

		storeLogger, err = report.NewStoreLogger(ctx, store, env.target.String(), logger)
		if err != nil {
			return dut.Stats{}, err
		}
		loggers = append(loggers, storeLogger)
	}

	harness := dut.New(
		dut.AdapterDialer(env.factory, env.target, logger),
		sink,
		dut.WithFailureLogging(cfg.LogFailures),
		dut.WithStatusInterval(cfg.StatusInterval),
		dut.WithLogger(logger),
	)
	eng, err := engine.New(engine.Config{
		Harness:    harness,
		Reporter:   loggers,
		MaxQueries: cfg.MaxQueries,
		Logger:     logger,
	})
	if err != nil {
		return dut.Stats{}, err
	}

	stats, runErr := eng.Run(ctx, env.src)
	if errors.Is(runErr, context.Canceled) {
		logger.Info("run interrupted")
		runErr = nil
	}

	summary := runSummary{Stats: stats, Errors: statsLogger.Histogram()}
	if storeLogger != nil {
		summary.RunID = storeLogger.RunID()
		if err := storeLogger.Finish(context.WithoutCancel(ctx), stats); err != nil {
			logger.Warn("failed to finish run", slog.String("error", err.Error()))
		}
	}

	if env.json {
		enc := json.NewEncoder(env.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return stats, err
		}
	} else if err := statsLogger.Report(env.out); err != nil {
		return stats, err
	}

	return stats, runErr
}

func closeLogged(logger *slog.Logger, what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("failed to close "+what, slog.String("error", err.Error()))
	}
}
