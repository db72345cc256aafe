package query

import "fmt"

// Column is a (table, column) reference.
type Column struct {
	Table string
	Name  string
}

// Col returns a reference to table.column.
func Col(table, column string) Column {
	return Column{Table: table, Name: column}
}

// Qualified renders table.column.
func (c Column) Qualified() string {
	return c.Table + "." + c.Name
}

// Alias renders the quoted result alias "table.column". Aliases keep the
// origin table visible in result rows after a join.
func (c Column) Alias() string {
	return `"` + c.Qualified() + `"`
}

// Projection renders table.column AS "table.column".
func (c Column) Projection() string {
	return c.Qualified() + " AS " + c.Alias()
}

// JoinKind selects the SQL join keyword.
type JoinKind int

const (
	Left JoinKind = iota
	Right
	Outer
	Inner
)

// String returns the SQL keyword. Outer renders FULL OUTER.
func (k JoinKind) String() string {
	switch k {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Outer:
		return "FULL OUTER"
	case Inner:
		return "INNER"
	default:
		panic(fmt.Sprintf("query: unknown join kind %d", int(k)))
	}
}

// ParseJoinKind parses left, right, outer or inner (case-insensitive).
func ParseJoinKind(s string) (JoinKind, error) {
	switch lower(s) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "outer", "full", "full outer":
		return Outer, nil
	case "inner":
		return Inner, nil
	default:
		return 0, fmt.Errorf("unknown join kind %q", s)
	}
}
