package graph

// MergeKind classifies a star operation against the current index.
type MergeKind string

const (
	// MergeFresh means no node of the operation was known: a new component.
	MergeFresh MergeKind = "fresh"

	// MergeExtend means the known nodes all belonged to one existing component.
	MergeExtend MergeKind = "extend"

	// MergeBridge means the operation joined two or more existing components.
	MergeBridge MergeKind = "bridge"
)

// Outcome describes an accepted star operation.
type Outcome struct {
	// Kind is the classification of the operation.
	Kind MergeKind

	// Nodes lists the distinct nodes named by the operation, sorted.
	Nodes []Node

	// ComponentSize is the size of the component the operation ended up in.
	ComponentSize int

	// Added is the number of directed connection records created.
	Added int
}

// MergeEngine applies star operations to a ComponentIndex and a
// ConnectionStore. It owns no state of its own.
//
// Not safe for concurrent use; see Graph.
type MergeEngine struct {
	index *ComponentIndex
	store *ConnectionStore
}

// NewMergeEngine creates an engine driving the given index and store.
func NewMergeEngine(index *ComponentIndex, store *ConnectionStore) *MergeEngine {
	return &MergeEngine{index: index, store: store}
}

// Apply connects anchor to every target.
//
// Input is validated before any state is read or written; a rejected
// operation returns a *ValidationError and leaves index and store untouched.
func (e *MergeEngine) Apply(anchor Node, targets []Node) (Outcome, error) {
	newNodes, err := validate(anchor, targets)
	if err != nil {
		return Outcome{}, err
	}

	if !e.anyKnown(newNodes) {
		added := e.materializeFresh(newNodes)
		return Outcome{
			Kind:          MergeFresh,
			Nodes:         newNodes.Sorted(),
			ComponentSize: newNodes.Len(),
			Added:         added,
		}, nil
	}

	return e.bridge(newNodes), nil
}

// validate checks a star operation and returns its distinct nodes.
// Empty targets stand for absent (null) entries and are dropped.
func validate(anchor Node, targets []Node) (NodeSet, error) {
	if anchor == "" {
		return nil, newInvalidArgument(ReasonEmptyAnchor, anchor, "anchor must not be empty")
	}
	if len(targets) == 0 {
		return nil, newInvalidArgument(ReasonNoTargets, anchor, "targets must not be empty")
	}

	newNodes := NewNodeSet(anchor)
	filtered := 0
	for _, t := range targets {
		if t == "" {
			continue
		}
		newNodes.Add(t)
		filtered++
	}
	if filtered == 0 {
		return nil, newInvalidArgument(ReasonBlankTargets, anchor, "no valid targets")
	}
	if newNodes.Len() < 2 {
		return nil, newInvalidArgument(ReasonSingleNode, anchor, "operation must name at least two distinct nodes")
	}
	return newNodes, nil
}

func (e *MergeEngine) anyKnown(nodes NodeSet) bool {
	for n := range nodes {
		if e.index.Known(n) {
			return true
		}
	}
	return false
}

// materializeFresh registers every node with the whole set as its
// component and turns the set into a clique.
func (e *MergeEngine) materializeFresh(nodes NodeSet) int {
	for _, n := range nodes.Sorted() {
		e.index.RegisterIfAbsent(n, nodes)
	}
	return e.store.MaterializeClique(nodes)
}

// bridge folds the operation into the components its known nodes belong to.
//
// Unknown nodes first become a fresh component of their own when there are
// at least two of them. The bridge loop below only creates edges between
// different groups, so this step is what connects unknown nodes to each
// other.
//
// groups holds one membership snapshot per distinct existing component
// touched, plus the unknown nodes as a last group. Then, for each group G
// and each member n of G, n absorbs the union of every other group and that
// union plus n is materialized as a clique. Across all iterations every
// cross-group pair gets connected, so the participating groups converge to
// a single clique.
//
// n is always part of the membership it absorbs: a node that was unknown
// before this call has no entry yet, and without itself in the entry a
// later operation anchored on it would leave it out of its own group.
func (e *MergeEngine) bridge(newNodes NodeSet) Outcome {
	known, unknown := e.partition(newNodes)

	added := 0
	if unknown.Len() >= 2 {
		added += e.materializeFresh(unknown)
	}

	groups := make([]NodeSet, 0, known.Len()+1)
	for _, k := range known.Sorted() {
		groups = appendDistinct(groups, e.index.MembersOf(k))
	}
	kind := MergeExtend
	if len(groups) > 1 {
		kind = MergeBridge
	}
	groups = append(groups, unknown)

	component := make(NodeSet)
	for i, group := range groups {
		component.AddAll(group)
		for _, n := range group.Sorted() {
			merged := unionExcept(groups, i)
			merged.Add(n)
			e.index.MergeInto(n, merged)
			added += e.store.MaterializeClique(merged)
		}
	}

	return Outcome{
		Kind:          kind,
		Nodes:         newNodes.Sorted(),
		ComponentSize: component.Len(),
		Added:         added,
	}
}

// partition splits nodes by whether the index already knows them.
func (e *MergeEngine) partition(nodes NodeSet) (known, unknown NodeSet) {
	known, unknown = make(NodeSet), make(NodeSet)
	for n := range nodes {
		if e.index.Known(n) {
			known.Add(n)
		} else {
			unknown.Add(n)
		}
	}
	return known, unknown
}

// appendDistinct appends set unless an equal set is already present.
// Known nodes from the same component yield equal snapshots.
func appendDistinct(groups []NodeSet, set NodeSet) []NodeSet {
	for _, g := range groups {
		if g.Equal(set) {
			return groups
		}
	}
	return append(groups, set)
}

// unionExcept returns the union of every group except groups[skip].
func unionExcept(groups []NodeSet, skip int) NodeSet {
	merged := make(NodeSet)
	for j, g := range groups {
		if j == skip {
			continue
		}
		merged.AddAll(g)
	}
	return merged
}
