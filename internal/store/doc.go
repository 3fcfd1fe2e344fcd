// Package store provides the SQLite-backed operation journal for graphd.
//
// The journal is an append-only audit trail:
//   - Sessions: one row per process lifetime of the service
//   - Operations: one row per accepted star operation
//
// The live service only writes to the journal. Graph state is never restored
// from it on start; replay and trace read it offline.
//
// # Ordering
//
// All ordering uses the seq INTEGER logical clock, never timestamps. Every
// query that returns operations orders by seq ASC, id ASC COLLATE BINARY so
// results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: operations must reference a known session
//
// Operation IDs are computed by internal/record using canonical JSON and
// SHA-256 with domain separation.
package store
