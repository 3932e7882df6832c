// Package report provides the sinks that observe a fuzz run: statement
// dumps, the failure log, terminal statistics and the persistent store.
package report

import "github.com/leapstack-labs/leapfuzz/internal/dut"

// Logger observes statements as they are generated and executed.
type Logger interface {
	// Generated is called before a statement is executed.
	Generated(stmt string)
	// Executed is called after a statement succeeded.
	Executed(out dut.Outcome)
	// Error is called after a statement failed.
	Error(out dut.Outcome)
}

// Base implements Logger with no-ops. Embed it and override what you need.
type Base struct{}

func (Base) Generated(string)     {}
func (Base) Executed(dut.Outcome) {}
func (Base) Error(dut.Outcome)    {}

// Multi fans every event out to its loggers in order.
type Multi []Logger

func (m Multi) Generated(stmt string) {
	for _, l := range m {
		l.Generated(stmt)
	}
}

func (m Multi) Executed(out dut.Outcome) {
	for _, l := range m {
		l.Executed(out)
	}
}

func (m Multi) Error(out dut.Outcome) {
	for _, l := range m {
		l.Error(out)
	}
}

// Dispatch reports out to l as Executed or Error depending on its state.
// Canceled statements are not reported.
func Dispatch(l Logger, out dut.Outcome) {
	switch {
	case out.Canceled():
	case out.Failed():
		l.Error(out)
	default:
		l.Executed(out)
	}
}

var (
	_ Logger = Base{}
	_ Logger = Multi(nil)
)
