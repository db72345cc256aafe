// Package query builds parameterized SELECT statements and streams their
// results.
//
// A query is a sealed sum type with two stages:
//
//	Select  generated SQL: table scope, filters, joins, ordering
//	Raw     caller-supplied SQL text with positional parameters
//
// Both stages implement Executable, the only point where a database call is
// made. Rows come back through a RowStream that applies a caller projection
// lazily, one row at a time.
//
// Example:
//
//	q := query.From(customers)
//	q.Join(slowMoving, query.Left)
//	if err := q.Filter(query.Col("CUSTOMER_LIST", "volume").Gt(10)); err != nil {
//		return err
//	}
//	stream, err := query.Stream(ctx, q, conn, func(r *query.Row) string {
//		s, _ := r.String("CUSTOMER_LIST.ship_to")
//		return s
//	})
//
// Values are never interpolated into SQL text. Every filter binds exactly one
// positional parameter rendered as @pN, where N is the 1-based index into
// Params().
//
// Filters on one query combine with AND in registration order. There is no OR
// or grouping; callers needing disjunction use a Raw query.
//
// The package does not log. Driver errors are returned unchanged.
package query
