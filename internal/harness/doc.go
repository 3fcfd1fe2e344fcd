// Package harness runs graph scenarios as executable tests.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: bridge_two_components
//	description: "Joining two components materializes the union clique"
//	session_id: test-session        # optional
//	steps:
//	  - anchor: A
//	    targets: [B]
//	    expect_kind: fresh          # optional: fresh, extend, bridge
//	  - anchor: A
//	    targets: [null, ""]
//	    expect_error: blank_targets # or invalid_argument for any reason
//	assertions:
//	  - type: connection_count
//	    count: 2
//	  - type: connected
//	    from: A
//	    to: B
//	  - type: component
//	    node: A
//	    members: [A, B]
//	  - type: connections
//	    connections: ["A - B", "B - A"]
//
// # Assertion Types
//
//   - connection_count: exact number of directed connection records
//   - connected / not_connected: presence of the directed record from -> to
//   - component: exact sorted membership of the component containing node
//   - connections: exact sorted connection list in "from - to" form
//
// # Determinism
//
// Every scenario runs against a fresh engine with a fixed session id,
// sequential request ids and an in-memory journal. After the last step the
// journal is replayed into a second graph which must equal the live one.
// Identical scenarios therefore produce byte-identical golden snapshots.
package harness
