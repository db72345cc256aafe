package query

import (
	"strings"

	"github.com/roach88/ssql/internal/schema"
)

// RelationFunc returns the join predicate (ON clause) relating the named
// table to the query's scope. It is the only way a Select learns how two
// tables relate.
type RelationFunc func(table string) string

// Query is a compiled-on-demand statement. It is a sealed interface: only
// *Select and *Raw implement it.
type Query interface {
	// SQL returns the statement text and its positional parameters.
	SQL() (string, []any, error)

	queryNode() // Marker method - seals interface to this package
}

// Select is the generated-SQL stage of a query.
//
// A Select is rooted at one table, grows its scope through Join and
// accumulates filters and ordering. It is owned by one caller and is not safe
// for concurrent mutation.
type Select struct {
	mainTable string
	tables    []string            // scope in join order, mainTable first
	fields    map[string][]string // table → projected columns
	filters   []string
	join      strings.Builder
	order     strings.Builder
	params    []any
	counter   int
	relation  RelationFunc
}

func (*Select) queryNode() {}

// New creates a Select rooted at table projecting columns. relation may be
// nil, in which case joins carry no predicate.
func New(table string, columns []string, relation RelationFunc) *Select {
	cols := make([]string, len(columns))
	copy(cols, columns)
	if relation == nil {
		relation = func(string) string { return "" }
	}
	return &Select{
		mainTable: table,
		tables:    []string{table},
		fields:    map[string][]string{table: cols},
		relation:  relation,
	}
}

// From creates a Select rooted at the table described by t, using t's
// relation lookup for later joins.
func From(t schema.Table) *Select {
	return New(t.TableName(), t.Fields(), t.Relation)
}

// MainTable returns the table the query is rooted at.
func (s *Select) MainTable() string { return s.mainTable }

// Tables returns the tables in scope, main table first then in join order.
func (s *Select) Tables() []string {
	out := make([]string, len(s.tables))
	copy(out, s.tables)
	return out
}

// Columns returns the projected columns of an in-scope table.
func (s *Select) Columns(table string) []string {
	cols := s.fields[table]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// Filters returns the compiled predicate fragments in registration order.
func (s *Select) Filters() []string {
	out := make([]string, len(s.filters))
	copy(out, s.filters)
	return out
}

// Params returns the bound parameter values; Params()[i] binds @p<i+1>.
func (s *Select) Params() []any {
	out := make([]any, len(s.params))
	copy(out, s.params)
	return out
}

// Counter returns the number of positional parameters issued so far.
func (s *Select) Counter() int { return s.counter }

// InScope reports whether table has been joined into the query.
func (s *Select) InScope(table string) bool {
	_, ok := s.fields[table]
	return ok
}

// Filter registers f. The filter's table must already be in scope; otherwise
// a *ScopeError is returned and the query is left unchanged.
func (s *Select) Filter(f Filter) error {
	if !s.InScope(f.Column.Table) {
		return &ScopeError{Op: "filter", Table: f.Column.Table}
	}
	s.filters = append(s.filters, f.toSQL(s.counter+1))
	s.params = append(s.params, f.Value)
	s.counter++
	return nil
}

// OrderBy appends a sort key. The first call is the primary key. The column's
// table must already be in scope; otherwise a *ScopeError is returned and the
// query is left unchanged.
func (s *Select) OrderBy(c Column, asc bool) error {
	if !s.InScope(c.Table) {
		return &ScopeError{Op: "order_by", Table: c.Table}
	}
	if s.order.Len() > 0 {
		s.order.WriteString(", ")
	}
	s.order.WriteString(c.Qualified())
	if asc {
		s.order.WriteString(" ASC")
	} else {
		s.order.WriteString(" DESC")
	}
	return nil
}

// Join brings t into scope with the given join kind. The ON clause comes from
// the relation lookup supplied at construction.
//
// Joining a table that is already in scope panics with a *ScopeError: no
// valid SQL can follow, so it is treated as a caller bug rather than a
// recoverable condition.
func (s *Select) Join(t schema.Table, kind JoinKind) *Select {
	name := t.TableName()
	if s.InScope(name) {
		panic(&ScopeError{Op: "join", Table: name})
	}
	keyword := kind.String()
	predicate := s.relation(name)

	s.join.WriteString(" ")
	s.join.WriteString(keyword)
	s.join.WriteString(" JOIN ")
	s.join.WriteString(name)
	s.join.WriteString(" ")
	s.join.WriteString(predicate)
	s.join.WriteString(" ")

	s.fields[name] = t.Fields()
	s.tables = append(s.tables, name)
	return s
}

// SQL compiles the query:
//
//	SELECT <projection> FROM <main> <joins>[ WHERE f1 AND f2 ...][ ORDER BY k1, k2 ...]
//
// Every column renders as table.column AS "table.column". A table with no
// projected columns is a *PreconditionError.
func (s *Select) SQL() (string, []any, error) {
	var projection []string
	for _, table := range s.tables {
		cols := s.fields[table]
		if len(cols) == 0 {
			return "", nil, &PreconditionError{Reason: "table " + table + " projects no columns"}
		}
		for _, col := range cols {
			projection = append(projection, Col(table, col).Projection())
		}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(projection, ","))
	b.WriteString(" FROM ")
	b.WriteString(s.mainTable)
	b.WriteString(" ")
	b.WriteString(s.join.String())
	b.WriteString(s.whereClause())
	if s.order.Len() > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(s.order.String())
	}

	return strings.TrimRight(b.String(), " "), s.Params(), nil
}

// whereClause returns " WHERE f1 AND f2 ...", or "" when no filter is set.
func (s *Select) whereClause() string {
	if len(s.filters) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(s.filters, " AND ")
}
