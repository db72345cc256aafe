// Package harness runs query scenarios end to end.
//
// A scenario declares a table catalog, a setup script, one query and the
// expected outcome. Each scenario runs against a fresh in-memory SQLite
// store.
//
// # Scenario Format
//
//	name: join_filter_order
//	description: "Slow movers for large customers"
//	catalog: |
//	  table: CUSTOMER_LIST: {
//	    columns: ["ship_to_id", "ship_to", "volume"]
//	    foreign_keys: ship_to: "SLOW_MOVING.stock_in_day"
//	  }
//	  table: SLOW_MOVING: columns: ["stock_in_day", "total_value"]
//	setup: |
//	  CREATE TABLE CUSTOMER_LIST (ship_to_id TEXT, ship_to TEXT, volume INTEGER);
//	  ...
//	query:
//	  from: CUSTOMER_LIST
//	  joins: [{table: SLOW_MOVING, kind: left}]
//	  where: [{column: CUSTOMER_LIST.volume, op: ">=", value: 10}]
//	  order: [{column: CUSTOMER_LIST.volume, desc: true}]
//	expect:
//	  sql: SELECT ... (whitespace-insensitive)
//	  params: [10]
//	  rows:
//	    - {CUSTOMER_LIST.ship_to_id: c3, ...}
//
// A scenario uses either query (generated SQL) or raw (literal SQL with
// params), never both.
//
// # Expectations
//
//   - sql: compared after collapsing whitespace
//   - params: compared after normalizing integer widths
//   - rows: compared as deterministic JSON, in order
//   - row_count: number of rows only
//   - error: "scope", "precondition", "plan" or "driver"; the scenario passes only
//     if building or running the query fails with that kind
//
// Failed expectations are collected in Result.Errors; Run returns an error
// only when the scenario itself cannot be set up.
//
// # Golden Files
//
// AssertGolden snapshots a Result's SQL, params and rows under
// testdata/golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
