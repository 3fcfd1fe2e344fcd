package graph

// ComponentIndex maps each known node to the set of nodes it is believed to
// share a connected component with. It is the membership oracle for the
// merge engine.
//
// Entries are created on first sight and only ever grow (I4). Stored sets are
// never mutated in place: MergeInto swaps in a fresh union, so snapshots
// returned by MembersOf stay valid while a merge is in progress.
//
// Not safe for concurrent use; see Graph.
type ComponentIndex struct {
	members map[Node]NodeSet
}

// NewComponentIndex creates an empty index.
func NewComponentIndex() *ComponentIndex {
	return &ComponentIndex{members: make(map[Node]NodeSet)}
}

// MembersOf returns a copy of the node's believed component.
// Returns an empty set if the node is unknown.
func (ix *ComponentIndex) MembersOf(node Node) NodeSet {
	set, ok := ix.members[node]
	if !ok {
		return NodeSet{}
	}
	return set.Clone()
}

// Known reports whether the node has an entry.
func (ix *ComponentIndex) Known(node Node) bool {
	_, ok := ix.members[node]
	return ok
}

// Len returns the number of known nodes.
func (ix *ComponentIndex) Len() int {
	return len(ix.members)
}

// RegisterIfAbsent associates an unknown node with members.
// No-op if the node is already known.
func (ix *ComponentIndex) RegisterIfAbsent(node Node, members NodeSet) {
	if _, ok := ix.members[node]; ok {
		return
	}
	ix.members[node] = members.Clone()
}

// MergeInto unions extra into the node's membership.
// An unknown node is associated with extra as-is.
func (ix *ComponentIndex) MergeInto(node Node, extra NodeSet) {
	current, ok := ix.members[node]
	if !ok {
		ix.members[node] = extra.Clone()
		return
	}
	ix.members[node] = current.Union(extra)
}

// Nodes returns every known node in lexicographic order.
func (ix *ComponentIndex) Nodes() []Node {
	all := make(NodeSet, len(ix.members))
	for n := range ix.members {
		all.Add(n)
	}
	return all.Sorted()
}

// ComponentCount returns the number of distinct components.
// Each component is identified by the smallest node of its membership set.
func (ix *ComponentIndex) ComponentCount() int {
	representatives := make(NodeSet)
	for node, set := range ix.members {
		rep := node
		for m := range set {
			if m < rep {
				rep = m
			}
		}
		representatives.Add(rep)
	}
	return representatives.Len()
}
