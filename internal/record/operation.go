package record

import "fmt"

// Operation is one accepted star operation as recorded in the journal.
// Rejected operations are never recorded.
type Operation struct {
	// ID is the content-addressed identity, see OperationID.
	ID string `json:"id"`

	// Seq is the logical clock value stamped by the engine.
	Seq int64 `json:"seq"`

	// SessionID identifies the process lifetime that accepted the operation.
	SessionID string `json:"session_id"`

	// RequestID correlates the operation with the inbound request.
	RequestID string `json:"request_id"`

	// Anchor is the anchor node.
	Anchor string `json:"anchor"`

	// Targets are the non-empty targets in request order (duplicates kept).
	Targets []string `json:"targets"`

	// Kind is the merge classification: fresh, extend or bridge.
	Kind string `json:"kind"`

	// Added is the number of directed connection records created.
	Added int `json:"added"`

	// EngineVersion is the engine version that accepted the operation.
	EngineVersion string `json:"engine_version"`
}

// String renders the operation as "#seq anchor -> [targets]".
func (o Operation) String() string {
	return fmt.Sprintf("#%d %s -> %v", o.Seq, o.Anchor, o.Targets)
}

// Verify recomputes the operation ID and compares it with the stored one.
func (o Operation) Verify() error {
	id, err := OperationID(o.SessionID, o.Seq, o.Anchor, o.Targets)
	if err != nil {
		return err
	}
	if id != o.ID {
		return fmt.Errorf("operation #%d: id mismatch: stored %s, computed %s", o.Seq, o.ID, id)
	}
	return nil
}
