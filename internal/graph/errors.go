package graph

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes graph errors.
type ErrorCode string

// ErrCodeInvalidArgument is the only error kind the engine produces.
const ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

// Reason pinpoints which validation rule rejected a star operation.
type Reason string

const (
	// ReasonEmptyAnchor indicates the anchor node is empty.
	ReasonEmptyAnchor Reason = "empty_anchor"

	// ReasonNoTargets indicates the target list is empty.
	ReasonNoTargets Reason = "no_targets"

	// ReasonBlankTargets indicates every target was empty or null.
	ReasonBlankTargets Reason = "blank_targets"

	// ReasonSingleNode indicates anchor and targets name fewer than two distinct nodes.
	ReasonSingleNode Reason = "single_node"
)

// ValidationError reports a rejected star operation.
// A rejected operation never mutates the graph.
type ValidationError struct {
	// Code is always ErrCodeInvalidArgument.
	Code ErrorCode

	// Reason identifies the failed rule.
	Reason Reason

	// Message is a human-readable description.
	Message string

	// Anchor is the anchor of the rejected operation (may be empty).
	Anchor Node
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Anchor != "" {
		return fmt.Sprintf("%s: %s (anchor=%s)", e.Code, e.Message, e.Anchor)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidArgument returns true if err is, or wraps, a ValidationError.
func IsInvalidArgument(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == ErrCodeInvalidArgument
	}
	return false
}

// ReasonOf returns the validation reason carried by err, or "" if err is not a ValidationError.
func ReasonOf(err error) Reason {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}

func newInvalidArgument(reason Reason, anchor Node, message string) *ValidationError {
	return &ValidationError{
		Code:    ErrCodeInvalidArgument,
		Reason:  reason,
		Message: message,
		Anchor:  anchor,
	}
}
