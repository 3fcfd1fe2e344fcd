package graph

import (
	"cmp"
	"slices"
)

// Connection is one directed record of an undirected edge.
// Both directions of an edge are always stored together.
type Connection struct {
	From Node `json:"connectFrom"`
	To   Node `json:"connectTo"`
}

// String renders the connection as "from - to".
func (c Connection) String() string {
	return c.From + " - " + c.To
}

// Reverse returns the connection in the opposite direction.
func (c Connection) Reverse() Connection {
	return Connection{From: c.To, To: c.From}
}

// CompareConnections orders connections by From, then To.
func CompareConnections(a, b Connection) int {
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c
	}
	return cmp.Compare(a.To, b.To)
}

// ConnectionStore holds the materialized connection records.
//
// records keeps insertion order and seen answers existence checks; both
// always contain exactly the same elements (I2).
//
// Not safe for concurrent use; see Graph.
type ConnectionStore struct {
	records []Connection
	seen    map[Connection]struct{}
}

// NewConnectionStore creates an empty store.
func NewConnectionStore() *ConnectionStore {
	return &ConnectionStore{seen: make(map[Connection]struct{})}
}

// Has reports whether the directed record exists.
func (s *ConnectionStore) Has(c Connection) bool {
	_, ok := s.seen[c]
	return ok
}

// Len returns the number of directed records.
func (s *ConnectionStore) Len() int {
	return len(s.records)
}

// MaterializeClique connects every pair of distinct nodes in nodes.
// Returns the number of directed records added. Idempotent: a second call
// with the same set adds nothing.
func (s *ConnectionStore) MaterializeClique(nodes NodeSet) int {
	ordered := nodes.Sorted()
	added := 0
	for _, from := range ordered {
		for _, to := range ordered {
			added += s.connect(from, to)
		}
	}
	return added
}

// connect stores (from,to) and (to,from) if absent; self-connections are skipped (I5).
func (s *ConnectionStore) connect(from, to Node) int {
	if from == to {
		return 0
	}
	c := Connection{From: from, To: to}
	added := 0
	if !s.Has(c) {
		s.append(c)
		added++
	}
	if r := c.Reverse(); !s.Has(r) {
		s.append(r)
		added++
	}
	return added
}

func (s *ConnectionStore) append(c Connection) {
	s.records = append(s.records, c)
	s.seen[c] = struct{}{}
}

// List returns all records sorted by From, then To.
// The result is a fresh slice and never nil.
func (s *ConnectionStore) List() []Connection {
	out := make([]Connection, len(s.records))
	copy(out, s.records)
	slices.SortFunc(out, CompareConnections)
	return out
}

// Inserted returns all records in insertion order.
func (s *ConnectionStore) Inserted() []Connection {
	out := make([]Connection, len(s.records))
	copy(out, s.records)
	return out
}
