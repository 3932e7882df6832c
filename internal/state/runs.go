package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// CreateRun starts a new run against target.
func (s *Store) CreateRun(ctx context.Context, target string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:        generateID(),
		Target:    target,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("creating run", slog.String("id", run.ID), slog.String("target", target))

	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO runs (id, target, started_at, queries, failed) VALUES (?, ?, ?, 0, 0)`),
		run.ID, run.Target, formatTime(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun stores the final counters of a run and marks it completed.
func (s *Store) CompleteRun(ctx context.Context, id string, queries, failed uint64) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE runs SET completed_at = ?, queries = ?, failed = ? WHERE id = ?`),
		formatTime(time.Now()), int64(queries), int64(failed), id, //nolint:gosec // counters fit int64
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var (
		run                  Run
		startedAt            string
		completedAt          sql.NullString
		queries, failedCount int64
	)
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, target, started_at, completed_at, queries, failed FROM runs WHERE id = ?`),
		id,
	).Scan(&run.ID, &run.Target, &startedAt, &completedAt, &queries, &failedCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("run %s: bad started_at: %w", id, err)
	}
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad completed_at: %w", id, err)
		}
		run.CompletedAt = &t
	}
	run.Queries = uint64(queries)    //nolint:gosec // stored from uint64
	run.Failed = uint64(failedCount) //nolint:gosec // stored from uint64
	return &run, nil
}

// RecordFailure stores a failed statement under its 1-based sequence number.
func (s *Store) RecordFailure(ctx context.Context, runID string, seq uint64, statement, message string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO failures (run_id, seq, statement, message, created_at) VALUES (?, ?, ?, ?, ?)`),
		runID, int64(seq), statement, message, formatTime(time.Now()), //nolint:gosec // sequence fits int64
	)
	if err != nil {
		return fmt.Errorf("failed to record failure %d of run %s: %w", seq, runID, err)
	}
	return nil
}

// ListFailures returns the failures of a run in sequence order.
func (s *Store) ListFailures(ctx context.Context, runID string) ([]*Failure, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT run_id, seq, statement, message, created_at FROM failures WHERE run_id = ? ORDER BY seq`),
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list failures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var failures []*Failure
	for rows.Next() {
		var (
			f         Failure
			seq       int64
			createdAt string
		)
		if err := rows.Scan(&f.RunID, &seq, &f.Statement, &f.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		f.Seq = uint64(seq) //nolint:gosec // stored from uint64
		if f.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failure %d: bad created_at: %w", seq, err)
		}
		failures = append(failures, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list failures: %w", err)
	}
	return failures, nil
}
