// Package schema supplies the table facts the query builder consumes.
//
// A query never inspects Go struct declarations. It only needs three static
// facts per table:
//   - TableName: the identifier rendered after FROM / JOIN
//   - Fields: the ordered column list projected from that table
//   - Relation: given another table's name, the join predicate (ON clause)
//
// These facts come either from a literal Static descriptor or from a
// Catalog authored in CUE:
//
//	table: CUSTOMER_LIST: {
//		columns: ["ship_to_id", "ship_to", "volume"]
//		foreign_keys: ship_to: "SLOW_MOVING.stock_in_day"
//	}
//
// Catalog identifiers are interpolated into SQL text, so every table and
// column name is NFC-normalized and checked against the identifier grammar
// at load time. Values are never interpolated; they travel as parameters.
package schema
