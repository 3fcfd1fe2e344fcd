package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalTargets converts a target list to JSON TEXT for storage.
// Node names are stored verbatim (no normalization) so that replay feeds the
// graph exactly what the live service saw.
func marshalTargets(targets []string) (string, error) {
	if targets == nil {
		targets = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(targets); err != nil {
		return "", fmt.Errorf("marshal targets: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalTargets parses JSON TEXT into a target list.
// Returns an empty (non-nil) slice for empty input.
func unmarshalTargets(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return []string{}, nil
	}
	var targets []string
	if err := json.Unmarshal([]byte(data), &targets); err != nil {
		return nil, fmt.Errorf("unmarshal targets: %w", err)
	}
	return targets, nil
}
