package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Popov85/challenge-graph/internal/record"
)

// ErrNotFound is returned when a requested journal entry does not exist.
var ErrNotFound = errors.New("not found")

// ReadSession returns all operations of a session.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the session has no operations.
func (s *Store) ReadSession(ctx context.Context, sessionID string) ([]record.Operation, error) {
	return s.queryOperations(ctx, `
		SELECT id, seq, session_id, request_id, anchor, targets, kind, added, engine_version
		FROM operations
		WHERE session_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, sessionID)
}

// ReadRequest returns the operations recorded for a request id.
// A request normally maps to at most one operation.
func (s *Store) ReadRequest(ctx context.Context, requestID string) ([]record.Operation, error) {
	return s.queryOperations(ctx, `
		SELECT id, seq, session_id, request_id, anchor, targets, kind, added, engine_version
		FROM operations
		WHERE request_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, requestID)
}

func (s *Store) queryOperations(ctx context.Context, query string, args ...any) ([]record.Operation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	ops := []record.Operation{}
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}

	return ops, nil
}

// scanOperation scans a single operation row.
func scanOperation(rows *sql.Rows) (record.Operation, error) {
	var op record.Operation
	var targetsJSON string

	err := rows.Scan(
		&op.ID,
		&op.Seq,
		&op.SessionID,
		&op.RequestID,
		&op.Anchor,
		&targetsJSON,
		&op.Kind,
		&op.Added,
		&op.EngineVersion,
	)
	if err != nil {
		return op, fmt.Errorf("scan operation: %w", err)
	}

	op.Targets, err = unmarshalTargets(targetsJSON)
	if err != nil {
		return op, fmt.Errorf("scan operation %s: %w", op.ID, err)
	}

	return op, nil
}

// Sessions returns all sessions ordered by start position.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_seq, engine_version
		FROM sessions
		ORDER BY start_seq ASC, rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.StartSeq, &sess.EngineVersion); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// LatestSession returns the most recently started session.
// Returns ErrNotFound if the journal has no sessions.
func (s *Store) LatestSession(ctx context.Context) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, start_seq, engine_version
		FROM sessions
		ORDER BY start_seq DESC, rowid DESC
		LIMIT 1
	`).Scan(&sess.ID, &sess.StartSeq, &sess.EngineVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, fmt.Errorf("latest session: %w", ErrNotFound)
	}
	if err != nil {
		return sess, fmt.Errorf("latest session: %w", err)
	}
	return sess, nil
}

// LastSeq returns the highest operation seq in the journal, or 0 if empty.
// A new session resumes its logical clock from here so seq stays unique.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM operations`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}

// CountOperations returns the number of operations in a session.
func (s *Store) CountOperations(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM operations WHERE session_id = ?
	`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count operations: %w", err)
	}
	return count, nil
}
