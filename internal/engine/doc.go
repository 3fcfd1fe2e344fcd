// Package engine runs the graph service.
//
// The Engine owns one graph.Graph and serializes every star operation
// through a single apply lock. Each accepted operation is stamped with a
// seq from the logical Clock, given a content-addressed id, written to the
// optional Journal and reported to the optional Observer.
//
// Journal failures are logged and counted but never fail the request: the
// graph has already changed and the journal is an audit trail, not the
// source of truth.
//
// Replay rebuilds a fresh graph from journaled operations, checking that
// every operation id recomputes and that every operation classifies the
// same way it did when it was first applied.
package engine
