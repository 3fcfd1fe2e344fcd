// Package graph implements the incremental clique-component engine.
//
// The graph is built from star operations: Apply(anchor, targets) connects
// the anchor to every target. Connectivity is transitive, so every connected
// component is kept fully materialized as a complete graph (a clique), not
// merely a spanning structure.
//
// Three collaborators do the work, leaves first:
//
//   - ComponentIndex: node -> believed component membership. Entries are
//     created on first sight and only ever grow.
//   - ConnectionStore: the deduplicated, insertion-ordered set of directed
//     connection records. Each undirected edge is stored as two records.
//   - MergeEngine: classifies a star operation as fresh, extend or bridge,
//     then drives index updates and clique materialization.
//
// # Invariants
//
//   - I1: for every stored (a,b), (b,a) is stored too
//   - I2: no duplicate connection records
//   - I3: after a completed Apply, every pair of co-members is connected
//   - I4: memberships only grow
//   - I5: no self-connections
//
// # Concurrency
//
// ComponentIndex, ConnectionStore and MergeEngine are not safe for
// concurrent use. Graph bundles them behind a single sync.RWMutex: Apply
// holds the write lock for the whole merge transaction, reads hold the
// read lock and never observe a partially applied merge.
package graph
