// Package dut executes generated statements against a database under test.
//
// A Harness opens a fresh connection for every statement, so a statement that
// corrupts its session cannot affect the next one. Failures are counted and
// optionally written to a FailureSink; they are never returned to the caller.
package dut

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultStatusInterval is the number of statements between status lines.
const DefaultStatusInterval = 1000

// Conn is a single connection to the database under test.
type Conn interface {
	Exec(ctx context.Context, stmt string) error
	Close() error
}

// Dialer opens a new connection.
type Dialer func(ctx context.Context) (Conn, error)

// FailureSink receives failed statements, their error messages and periodic
// status lines, one line per call.
type FailureSink interface {
	Log(line string)
}

// State is the phase a statement is in.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateExecuting
	StateSucceeded
	StateFailed
	StateCanceled
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateExecuting:
		return "executing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ExecutionFailure records a statement that did not execute. Err is the dial
// error, the driver error or a recovered panic.
type ExecutionFailure struct {
	Statement string
	Err       error
}

func (e *ExecutionFailure) Error() string {
	return e.Err.Error()
}

func (e *ExecutionFailure) Unwrap() error {
	return e.Err
}

// Outcome is the result of one Execute call.
type Outcome struct {
	Statement string
	// State is StateSucceeded, StateFailed or StateCanceled.
	State State
	// Failure is set when State is StateFailed.
	Failure *ExecutionFailure
	// Query is the 1-based sequence number of the statement.
	Query uint64
}

// Failed reports whether the statement failed.
func (o Outcome) Failed() bool {
	return o.State == StateFailed
}

// Canceled reports whether the context was canceled while the statement ran.
// A canceled statement is neither counted nor logged.
func (o Outcome) Canceled() bool {
	return o.State == StateCanceled
}

// Stats holds the cumulative counters of a Harness.
type Stats struct {
	Queries uint64 `json:"queries"`
	Failed  uint64 `json:"failed"`
}

// String formats the counters as a status line.
func (s Stats) String() string {
	return fmt.Sprintf("Failed/Queries=%d/%d", s.Failed, s.Queries)
}

// Option configures a Harness.
type Option func(*Harness)

// WithFailureLogging enables writing failed statements and their errors to
// the sink. Status lines are written either way.
func WithFailureLogging(enabled bool) Option {
	return func(h *Harness) { h.logFailures = enabled }
}

// WithStatusInterval sets how many statements pass between status lines.
// Values below 1 keep the default.
func WithStatusInterval(n uint64) Option {
	return func(h *Harness) {
		if n > 0 {
			h.interval = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Harness runs statements one connection at a time. It is not safe for
// concurrent use.
type Harness struct {
	dial        Dialer
	sink        FailureSink
	logger      *slog.Logger
	logFailures bool
	interval    uint64
	stats       Stats
	state       State
}

// New creates a Harness. A nil sink discards all lines.
func New(dial Dialer, sink FailureSink, opts ...Option) *Harness {
	h := &Harness{
		dial:     dial,
		sink:     sink,
		logger:   slog.New(slog.DiscardHandler),
		interval: DefaultStatusInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.sink == nil {
		h.sink = discardSink{}
	}
	return h
}

// Execute runs stmt on a new connection and records the outcome.
func (h *Harness) Execute(ctx context.Context, stmt string) Outcome {
	h.stats.Queries++
	out := Outcome{Statement: stmt, Query: h.stats.Queries}

	err := h.run(ctx, stmt)
	switch {
	case err != nil && ctx.Err() != nil:
		h.stats.Queries--
		h.state = StateIdle
		h.logger.Debug("statement canceled", slog.Uint64("query", out.Query))
		out.State = StateCanceled
		return out
	case err != nil:
		h.stats.Failed++
		out.State = StateFailed
		out.Failure = &ExecutionFailure{Statement: stmt, Err: err}
		h.logger.Debug("statement failed",
			slog.Uint64("query", out.Query),
			slog.String("error", err.Error()))
		if h.logFailures {
			h.sink.Log(stmt)
			h.sink.Log(err.Error())
		}
	default:
		out.State = StateSucceeded
	}
	h.state = StateIdle

	if h.stats.Queries%h.interval == 0 {
		h.sink.Log(h.stats.String())
		h.logger.Info("status", slog.Uint64("queries", h.stats.Queries), slog.Uint64("failed", h.stats.Failed))
	}
	return out
}

func (h *Harness) run(ctx context.Context, stmt string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during execution: %v", r)
		}
	}()

	h.state = StateConnecting
	conn, err := h.dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			h.logger.Warn("failed to close connection", slog.String("error", cerr.Error()))
		}
	}()

	h.state = StateExecuting
	return conn.Exec(ctx, stmt)
}

// State returns the phase of the statement in progress, or StateIdle.
func (h *Harness) State() State {
	return h.state
}

// Stats returns the cumulative counters.
func (h *Harness) Stats() Stats {
	return h.stats
}

type discardSink struct{}

func (discardSink) Log(string) {}
