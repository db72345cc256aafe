// Package store opens the SQLite databases queries run against.
//
// It is the driver collaborator of package query: a Store (or a Conn checked
// out from it) satisfies query.Querier. The store owns no schema; callers
// create tables with ExecScript.
//
// # Database Configuration
//
//   - Single connection: SQLite has one writer, and ":memory:" databases
//     live on one connection only
//   - WAL mode on file databases
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
