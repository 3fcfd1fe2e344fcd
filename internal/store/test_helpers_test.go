package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Popov85/challenge-graph/internal/record"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession writes a session and fails the test on error.
func createTestSession(t *testing.T, s *Store, id string, startSeq int64) {
	t.Helper()
	err := s.WriteSession(context.Background(), Session{ID: id, StartSeq: startSeq, EngineVersion: record.EngineVersion})
	if err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
}

// createTestOperation builds an operation with a valid content-addressed ID.
func createTestOperation(sessionID, requestID string, seq int64, anchor string, targets ...string) record.Operation {
	return record.Operation{
		ID:            record.MustOperationID(sessionID, seq, anchor, targets),
		Seq:           seq,
		SessionID:     sessionID,
		RequestID:     requestID,
		Anchor:        anchor,
		Targets:       targets,
		Kind:          "fresh",
		Added:         2,
		EngineVersion: record.EngineVersion,
	}
}
