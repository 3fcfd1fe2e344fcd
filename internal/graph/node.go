package graph

import "slices"

// Node identifies a participant in the graph. Equality is value equality.
type Node = string

// NodeSet is an unordered set of nodes.
type NodeSet map[Node]struct{}

// NewNodeSet creates a set holding the given nodes.
func NewNodeSet(nodes ...Node) NodeSet {
	s := make(NodeSet, len(nodes))
	for _, n := range nodes {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts n into the set.
func (s NodeSet) Add(n Node) {
	s[n] = struct{}{}
}

// Has reports whether n is in the set.
func (s NodeSet) Has(n Node) bool {
	_, ok := s[n]
	return ok
}

// Len returns the number of nodes in the set.
func (s NodeSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s NodeSet) Clone() NodeSet {
	c := make(NodeSet, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// AddAll inserts every node of other into s.
func (s NodeSet) AddAll(other NodeSet) {
	for n := range other {
		s[n] = struct{}{}
	}
}

// Union returns a new set holding the nodes of s and other.
func (s NodeSet) Union(other NodeSet) NodeSet {
	u := make(NodeSet, len(s)+len(other))
	u.AddAll(s)
	u.AddAll(other)
	return u
}

// Equal reports whether both sets hold exactly the same nodes.
func (s NodeSet) Equal(other NodeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

// Sorted returns the nodes in lexicographic order.
// Iteration over sets always goes through Sorted so that the insertion order
// of connection records is deterministic.
func (s NodeSet) Sorted() []Node {
	out := make([]Node, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
