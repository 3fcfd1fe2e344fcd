package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainOperation prefixes operation hashes.
// The version suffix enables future algorithm migration.
const DomainOperation = "graphd/operation/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// OperationID computes the content-addressed ID of a star operation.
// The ID is stable across replays given the same session, seq and input.
//
// Targets are hashed in request order: ["B","C"] and ["C","B"] are distinct
// operations even though they produce the same graph.
func OperationID(sessionID string, seq int64, anchor string, targets []string) (string, error) {
	if targets == nil {
		targets = []string{}
	}
	obj := map[string]any{
		"session_id": sessionID,
		"seq":        seq,
		"anchor":     anchor,
		"targets":    targets,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("OperationID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainOperation, canonical), nil
}

// MustOperationID is like OperationID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustOperationID(sessionID string, seq int64, anchor string, targets []string) string {
	id, err := OperationID(sessionID, seq, anchor, targets)
	if err != nil {
		panic(err)
	}
	return id
}
