package report

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// QueryDumper appends every generated statement, terminated by ";", to a file.
type QueryDumper struct {
	Base
	mu  sync.Mutex
	f   *os.File
	w   *bufio.Writer
	err error
}

// NewQueryDumper opens path for appending, creating it if needed.
func NewQueryDumper(path string) (*QueryDumper, error) {
	f, err := openAppend(path)
	if err != nil {
		return nil, err
	}
	return &QueryDumper{f: f, w: bufio.NewWriter(f)}, nil
}

// Generated writes stmt to the dump.
func (d *QueryDumper) Generated(stmt string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s;\n", stmt)
}

// Err returns the first write error, if any.
func (d *QueryDumper) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Close flushes and closes the dump file.
func (d *QueryDumper) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	flushErr := d.w.Flush()
	closeErr := d.f.Close()
	if d.err != nil {
		return d.err
	}
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// ErrorDumper is a file-backed failure sink. Every line is written through
// to the file immediately so the log survives a crash of the run.
type ErrorDumper struct {
	mu  sync.Mutex
	f   *os.File
	err error
}

// NewErrorDumper opens path for appending, creating it if needed.
func NewErrorDumper(path string) (*ErrorDumper, error) {
	f, err := openAppend(path)
	if err != nil {
		return nil, err
	}
	return &ErrorDumper{f: f}, nil
}

// Log appends line to the file.
func (d *ErrorDumper) Log(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return
	}
	_, d.err = d.f.WriteString(line + "\n")
}

// Err returns the first write error, if any.
func (d *ErrorDumper) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Close closes the file.
func (d *ErrorDumper) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.f.Close(); err != nil {
		return err
	}
	return d.err
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // G304: path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
