package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapfuzz/internal/dut"
	"github.com/leapstack-labs/leapfuzz/internal/state"
)

// storeTimeout bounds each write to the store.
const storeTimeout = 5 * time.Second

// StoreLogger records a run and its failures in the persistent store. Store
// errors are logged and do not stop the run.
type StoreLogger struct {
	Base
	store  *state.Store
	run    *state.Run
	logger *slog.Logger
}

// NewStoreLogger creates a run for target in store.
func NewStoreLogger(ctx context.Context, store *state.Store, target string, logger *slog.Logger) (*StoreLogger, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	run, err := store.CreateRun(ctx, target)
	if err != nil {
		return nil, err
	}
	logger.Info("recording run", slog.String("run_id", run.ID))
	return &StoreLogger{store: store, run: run, logger: logger}, nil
}

// RunID returns the ID of the recorded run.
func (l *StoreLogger) RunID() string {
	return l.run.ID
}

// Error records the failed statement.
func (l *StoreLogger) Error(out dut.Outcome) {
	msg := ""
	if out.Failure != nil {
		msg = out.Failure.Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := l.store.RecordFailure(ctx, l.run.ID, out.Query, out.Statement, msg); err != nil {
		l.logger.Warn("failed to record failure", slog.Uint64("query", out.Query), slog.String("error", err.Error()))
	}
}

// Finish stores the final counters of the run.
func (l *StoreLogger) Finish(ctx context.Context, stats dut.Stats) error {
	if err := l.store.CompleteRun(ctx, l.run.ID, stats.Queries, stats.Failed); err != nil {
		return fmt.Errorf("failed to finish run %s: %w", l.run.ID, err)
	}
	return nil
}
