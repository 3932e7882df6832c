package engine

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Source yields statements to execute. Next returns io.EOF when exhausted.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// maxStatementSize bounds a single script line.
const maxStatementSize = 16 << 20

// ScriptSource reads statements from a SQL script. A statement ends at a line
// whose last non-blank character is ";". Blank lines and lines starting with
// "--" are skipped. A trailing statement without ";" is returned at EOF.
type ScriptSource struct {
	scanner *bufio.Scanner
	done    bool
}

// NewScriptSource returns a Source reading from r.
func NewScriptSource(r io.Reader) *ScriptSource {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxStatementSize)
	return &ScriptSource{scanner: s}
}

// Next returns the next statement without its terminating ";".
func (s *ScriptSource) Next(ctx context.Context) (string, error) {
	if s.done {
		return "", io.EOF
	}

	var lines []string
	for s.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line := strings.TrimRight(s.scanner.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(line, ";") {
			lines = append(lines, strings.TrimSuffix(line, ";"))
			stmt := strings.TrimSpace(strings.Join(lines, "\n"))
			if stmt == "" {
				lines = nil
				continue
			}
			return stmt, nil
		}
		lines = append(lines, line)
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}

	s.done = true
	if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
		return stmt, nil
	}
	return "", io.EOF
}

// SliceSource yields a fixed list of statements.
type SliceSource struct {
	stmts []string
	pos   int
}

// NewSliceSource returns a Source over stmts.
func NewSliceSource(stmts ...string) *SliceSource {
	return &SliceSource{stmts: stmts}
}

// Next returns the next statement.
func (s *SliceSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.pos >= len(s.stmts) {
		return "", io.EOF
	}
	stmt := s.stmts[s.pos]
	s.pos++
	return stmt, nil
}
