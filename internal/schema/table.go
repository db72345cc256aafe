package schema

// Table is the descriptor a query builder is rooted at or joins.
type Table interface {
	// TableName returns the SQL identifier of the table.
	TableName() string

	// Fields returns the projected column names in declaration order.
	Fields() []string

	// Relation returns the join predicate relating table to this one,
	// e.g. "ON CUSTOMER_LIST.ship_to = SLOW_MOVING.stock_in_day".
	// Returns "" when no relation is known.
	Relation(table string) string
}

// Static is a literal Table descriptor.
type Static struct {
	Name      string
	Columns   []string
	Relations map[string]string // joined table name → ON clause
}

// TableName implements Table.
func (s Static) TableName() string { return s.Name }

// Fields implements Table. The returned slice is a copy.
func (s Static) Fields() []string {
	out := make([]string, len(s.Columns))
	copy(out, s.Columns)
	return out
}

// Relation implements Table.
func (s Static) Relation(table string) string {
	return s.Relations[table]
}
