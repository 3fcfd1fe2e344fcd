package graph

import "sync"

// Stats summarizes the size of a graph.
type Stats struct {
	Nodes       int `json:"nodes"`
	Connections int `json:"connections"`
	Components  int `json:"components"`
}

// Graph is the owned aggregate of a ComponentIndex, a ConnectionStore and
// the MergeEngine driving them.
//
// Thread-safety model:
//   - Apply: exclusive lock for the whole merge transaction
//   - Connections, Component, Stats: shared lock
//
// Readers therefore see either the state before or after an Apply, never an
// intermediate one.
type Graph struct {
	mu     sync.RWMutex
	index  *ComponentIndex
	store  *ConnectionStore
	engine *MergeEngine
}

// New creates an empty graph.
func New() *Graph {
	index := NewComponentIndex()
	store := NewConnectionStore()
	return &Graph{
		index:  index,
		store:  store,
		engine: NewMergeEngine(index, store),
	}
}

// Apply runs a star operation connecting anchor to every target.
// Returns a *ValidationError (IsInvalidArgument) if the input is rejected;
// nothing is mutated in that case.
func (g *Graph) Apply(anchor Node, targets []Node) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.Apply(anchor, targets)
}

// Connections returns every directed connection sorted by From, then To.
func (g *Graph) Connections() []Connection {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store.List()
}

// Component returns the sorted component of node and whether the node is known.
func (g *Graph) Component(node Node) ([]Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.index.Known(node) {
		return nil, false
	}
	members := g.index.MembersOf(node)
	members.Add(node)
	return members.Sorted(), true
}

// Connected reports whether the directed record (from, to) exists.
func (g *Graph) Connected(from, to Node) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store.Has(Connection{From: from, To: to})
}

// Stats returns node, connection and component counts.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Stats{
		Nodes:       g.index.Len(),
		Connections: g.store.Len(),
		Components:  g.index.ComponentCount(),
	}
}
