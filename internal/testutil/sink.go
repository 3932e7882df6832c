package testutil

import "sync"

// LineRecorder collects lines written to a failure sink.
type LineRecorder struct {
	mu    sync.Mutex
	lines []string
}

// Log records a line.
func (r *LineRecorder) Log(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

// Lines returns a copy of the recorded lines.
func (r *LineRecorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}
