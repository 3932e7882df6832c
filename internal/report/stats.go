package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapfuzz/internal/dut"
	"golang.org/x/term"
)

// progressWidth is the number of progress marks per line.
const progressWidth = 80

// StatsLogger collects run statistics and, on a terminal, prints a progress
// mark per statement: "." for success and "e" for failure.
type StatsLogger struct {
	Base
	w        io.Writer
	progress bool
	column   int
	start    time.Time
	now      func() time.Time

	queries uint64
	failed  uint64
	errors  map[string]uint64
}

// NewStatsLogger returns a StatsLogger writing progress to w. Progress marks
// are only written when w is a terminal.
func NewStatsLogger(w io.Writer) *StatsLogger {
	l := &StatsLogger{
		w:      w,
		now:    time.Now,
		errors: make(map[string]uint64),
	}
	l.progress = isTerminal(w)
	l.start = l.now()
	return l
}

// SetProgress forces progress marks on or off.
func (l *StatsLogger) SetProgress(enabled bool) {
	l.progress = enabled
}

// Executed counts a successful statement.
func (l *StatsLogger) Executed(dut.Outcome) {
	l.queries++
	l.mark('.')
}

// Error counts a failed statement under the first line of its message.
func (l *StatsLogger) Error(out dut.Outcome) {
	l.queries++
	l.failed++
	msg := "unknown error"
	if out.Failure != nil {
		msg = firstLine(out.Failure.Error())
	}
	l.errors[msg]++
	l.mark('e')
}

func (l *StatsLogger) mark(c byte) {
	if !l.progress {
		return
	}
	_, _ = l.w.Write([]byte{c})
	l.column++
	if l.column == progressWidth {
		_, _ = io.WriteString(l.w, "\n")
		l.column = 0
	}
}

// ErrorCount is one entry of the error histogram.
type ErrorCount struct {
	Message string `json:"message"`
	Count   uint64 `json:"count"`
}

// Histogram returns the error messages ordered by descending count, then
// by message.
func (l *StatsLogger) Histogram() []ErrorCount {
	out := make([]ErrorCount, 0, len(l.errors))
	for msg, n := range l.errors {
		out = append(out, ErrorCount{Message: msg, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Message < out[j].Message
	})
	return out
}

// Stats returns the counters seen so far.
func (l *StatsLogger) Stats() dut.Stats {
	return dut.Stats{Queries: l.queries, Failed: l.failed}
}

// Report writes a summary of the run and its error histogram to w.
func (l *StatsLogger) Report(w io.Writer) error {
	if l.column > 0 {
		_, _ = io.WriteString(l.w, "\n")
		l.column = 0
	}

	elapsed := l.now().Sub(l.start)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(l.queries) / secs
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Run summary") + "\n")
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("queries"), okStyle.Render(fmt.Sprintf("%d", l.queries)))
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("failed"), failStyle.Render(fmt.Sprintf("%d", l.failed)))
	fmt.Fprintf(&b, "%s%s (%.1f queries/s)\n", labelStyle.Render("elapsed"), elapsed.Round(time.Millisecond), rate)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	hist := l.Histogram()
	if len(hist) == 0 {
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Count", "Error"})
	for _, e := range hist {
		t.AppendRow(table.Row{e.Count, e.Message})
	}
	t.Render()
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit int
}
