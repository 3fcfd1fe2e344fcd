package store

import (
	"context"
	"fmt"

	"github.com/Popov85/challenge-graph/internal/record"
)

// Session is one process lifetime of the service.
type Session struct {
	ID            string `json:"id"`
	StartSeq      int64  `json:"start_seq"`
	EngineVersion string `json:"engine_version"`
}

// WriteSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
func (s *Store) WriteSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, start_seq, engine_version)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sess.ID, sess.StartSeq, sess.EngineVersion)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteOperation inserts an operation record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// Other constraint violations (e.g., a reused seq or an unknown session) still return errors.
func (s *Store) WriteOperation(ctx context.Context, op record.Operation) error {
	targetsJSON, err := marshalTargets(op.Targets)
	if err != nil {
		return fmt.Errorf("write operation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO operations
		(id, seq, session_id, request_id, anchor, targets, kind, added, engine_version, record_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		op.ID,
		op.Seq,
		op.SessionID,
		op.RequestID,
		op.Anchor,
		targetsJSON,
		op.Kind,
		op.Added,
		op.EngineVersion,
		record.RecordVersion,
	)
	if err != nil {
		return fmt.Errorf("write operation: %w", err)
	}

	return nil
}
