// Package testutil provides loggers and sinks shared by package tests.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a debug-level logger that writes through t.Log, so
// output only shows for failing tests or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(tbWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type tbWriter struct{ tb testing.TB }

func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(p))
	return len(p), nil
}

// Record is a captured log record.
type Record struct {
	Level   slog.Level
	Message string
}

// Capture is a slog.Handler that keeps every record for later assertions.
type Capture struct {
	mu      sync.Mutex
	records []Record
}

// NewCaptureLogger returns a logger backed by a fresh Capture.
func NewCaptureLogger() (*slog.Logger, *Capture) {
	c := &Capture{}
	return slog.New(c), c
}

func (c *Capture) Enabled(context.Context, slog.Level) bool { return true }

func (c *Capture) Handle(_ context.Context, r slog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, Record{Level: r.Level, Message: r.Message})
	return nil
}

func (c *Capture) WithAttrs([]slog.Attr) slog.Handler { return c }

func (c *Capture) WithGroup(string) slog.Handler { return c }

// Messages returns the messages logged at level or above.
func (c *Capture) Messages(level slog.Level) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, r := range c.records {
		if r.Level >= level {
			out = append(out, r.Message)
		}
	}
	return out
}
