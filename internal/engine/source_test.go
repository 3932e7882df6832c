package engine

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, src Source) []string {
	t.Helper()
	var out []string
	for {
		stmt, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, stmt)
	}
}

func TestScriptSource(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected []string
	}{
		{
			name:     "single line statements",
			script:   "SELECT 1;\nSELECT 2;\n",
			expected: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:     "multi line statement",
			script:   "SELECT a,\n  b\nFROM t;\n",
			expected: []string{"SELECT a,\n  b\nFROM t"},
		},
		{
			name:     "comments and blank lines",
			script:   "-- setup\n\nCREATE TABLE t (a INT);\n   -- indented comment\n\nINSERT INTO t VALUES (1);   \n",
			expected: []string{"CREATE TABLE t (a INT)", "INSERT INTO t VALUES (1)"},
		},
		{
			name:     "semicolon inside line does not split",
			script:   "SELECT ';' AS x, 1;\n",
			expected: []string{"SELECT ';' AS x, 1"},
		},
		{
			name:     "trailing statement without terminator",
			script:   "SELECT 1;\nSELECT 2",
			expected: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:     "windows line endings",
			script:   "SELECT 1;\r\nSELECT 2;\r\n",
			expected: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:     "empty statements skipped",
			script:   ";\n  ;\nSELECT 1;\n",
			expected: []string{"SELECT 1"},
		},
		{
			name:     "empty script",
			script:   "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewScriptSource(strings.NewReader(tt.script))
			assert.Equal(t, tt.expected, drain(t, src))

			// Exhausted sources keep returning EOF.
			_, err := src.Next(context.Background())
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestScriptSource_Canceled(t *testing.T) {
	src := NewScriptSource(strings.NewReader("SELECT 1;\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSliceSource(t *testing.T) {
	src := NewSliceSource("SELECT 1", "SELECT 2")
	assert.Equal(t, []string{"SELECT 1", "SELECT 2"}, drain(t, src))
}
