// Package engine drives a fuzz run: it pulls statements from a Source, runs
// them through the harness and reports every outcome.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/leapfuzz/internal/dut"
	"github.com/leapstack-labs/leapfuzz/internal/report"
)

// Config holds engine configuration.
type Config struct {
	// Harness executes the statements. Required.
	Harness *dut.Harness
	// Reporter observes every statement (optional).
	Reporter report.Logger
	// MaxQueries stops the run after this many statements; 0 means no limit.
	MaxQueries uint64
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Engine runs statements in the order the source yields them.
type Engine struct {
	harness    *dut.Harness
	reporter   report.Logger
	maxQueries uint64
	logger     *slog.Logger
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Harness == nil {
		return nil, errors.New("engine: harness is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = report.Base{}
	}
	return &Engine{
		harness:    cfg.Harness,
		reporter:   reporter,
		maxQueries: cfg.MaxQueries,
		logger:     logger,
	}, nil
}

// Run executes statements from src until it is exhausted, MaxQueries is
// reached or ctx is canceled. Statement failures never stop the run; only a
// source error or cancellation is returned, together with the counters so far.
func (e *Engine) Run(ctx context.Context, src Source) (dut.Stats, error) {
	e.logger.Info("starting run", slog.Uint64("max_queries", e.maxQueries))

	var n uint64
	for e.maxQueries == 0 || n < e.maxQueries {
		if err := ctx.Err(); err != nil {
			e.logger.Info("run canceled", slog.Uint64("queries", n))
			return e.harness.Stats(), err
		}

		stmt, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return e.harness.Stats(), fmt.Errorf("failed to read statement %d: %w", n+1, err)
		}

		e.reporter.Generated(stmt)
		out := e.harness.Execute(ctx, stmt)
		if out.Canceled() {
			e.logger.Info("run canceled", slog.Uint64("queries", n))
			return e.harness.Stats(), ctx.Err()
		}
		report.Dispatch(e.reporter, out)
		n++
	}

	stats := e.harness.Stats()
	e.logger.Info("run completed", slog.Uint64("queries", stats.Queries), slog.Uint64("failed", stats.Failed))
	return stats, nil
}
