package engine

import (
	"errors"
	"fmt"
)

// ReplayError reports a journaled operation that could not be replayed.
type ReplayError struct {
	// Code identifies the failure category.
	Code ReplayErrorCode

	// Message is a human-readable description.
	Message string

	// Seq is the seq of the offending operation.
	Seq int64

	// OperationID is the stored id of the offending operation.
	OperationID string
}

// ReplayErrorCode categorizes replay failures.
type ReplayErrorCode string

const (
	// ErrCodeIDMismatch means the stored id does not match the recomputed one.
	ErrCodeIDMismatch ReplayErrorCode = "ID_MISMATCH"

	// ErrCodeRejected means the graph rejected a journaled operation.
	ErrCodeRejected ReplayErrorCode = "REJECTED"

	// ErrCodeDiverged means the operation classified differently on replay.
	ErrCodeDiverged ReplayErrorCode = "DIVERGED"
)

// Error implements the error interface.
func (e *ReplayError) Error() string {
	if e.OperationID != "" {
		return fmt.Sprintf("%s: %s (seq=%d, id=%s)", e.Code, e.Message, e.Seq, e.OperationID)
	}
	return fmt.Sprintf("%s: %s (seq=%d)", e.Code, e.Message, e.Seq)
}

// IsReplayError returns true if err wraps a *ReplayError.
func IsReplayError(err error) bool {
	var re *ReplayError
	return errors.As(err, &re)
}

// IsIDMismatch returns true if err is a replay id mismatch.
func IsIDMismatch(err error) bool {
	var re *ReplayError
	if errors.As(err, &re) {
		return re.Code == ErrCodeIDMismatch
	}
	return false
}
