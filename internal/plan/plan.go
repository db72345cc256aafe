// Package plan describes a SELECT declaratively and builds it into a
// query.Select against a schema catalog.
//
// Plans come from two places: scenario YAML files and CLI flags. Both are
// user input, so Build validates table references up front and reports
// duplicate joins as a *query.ScopeError instead of letting the builder
// panic.
package plan

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/ssql/internal/query"
	"github.com/roach88/ssql/internal/schema"
)

// Select is a declarative query.
type Select struct {
	From  string  `yaml:"from" json:"from"`
	Joins []Join  `yaml:"joins,omitempty" json:"joins,omitempty"`
	Where []Where `yaml:"where,omitempty" json:"where,omitempty"`
	Order []Order `yaml:"order,omitempty" json:"order,omitempty"`
}

// Join brings a catalog table into scope.
type Join struct {
	Table string `yaml:"table" json:"table"`
	Kind  string `yaml:"kind,omitempty" json:"kind,omitempty"` // default inner
}

// Where is one filter on TABLE.column.
type Where struct {
	Column string `yaml:"column" json:"column"`
	Op     string `yaml:"op,omitempty" json:"op,omitempty"` // default =
	Value  any    `yaml:"value" json:"value"`
}

// Order is one sort key on TABLE.column.
type Order struct {
	Column string `yaml:"column" json:"column"`
	Desc   bool   `yaml:"desc,omitempty" json:"desc,omitempty"`
}

// Build resolves the plan against cat.
func (p *Select) Build(cat *schema.Catalog) (*query.Select, error) {
	root, ok := cat.Table(p.From)
	if !ok {
		return nil, fmt.Errorf("from: unknown table %q", p.From)
	}
	q := query.From(root)

	for _, j := range p.Joins {
		t, ok := cat.Table(j.Table)
		if !ok {
			return nil, fmt.Errorf("join: unknown table %q", j.Table)
		}
		kind := query.Inner
		if j.Kind != "" {
			k, err := query.ParseJoinKind(j.Kind)
			if err != nil {
				return nil, fmt.Errorf("join %s: %w", j.Table, err)
			}
			kind = k
		}
		if q.InScope(t.TableName()) {
			return nil, &query.ScopeError{Op: "join", Table: t.TableName()}
		}
		q.Join(t, kind)
	}

	for _, w := range p.Where {
		col, err := ParseColumn(w.Column)
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		op := query.OpEq
		if w.Op != "" {
			if op, err = query.ParseOperator(w.Op); err != nil {
				return nil, fmt.Errorf("where %s: %w", w.Column, err)
			}
		}
		if err := q.Filter(query.Filter{Column: col, Op: op, Value: w.Value}); err != nil {
			return nil, err
		}
	}

	for _, o := range p.Order {
		col, err := ParseColumn(o.Column)
		if err != nil {
			return nil, fmt.Errorf("order: %w", err)
		}
		if err := q.OrderBy(col, !o.Desc); err != nil {
			return nil, err
		}
	}

	return q, nil
}

// ParseColumn parses TABLE.column.
func ParseColumn(s string) (query.Column, error) {
	table, col, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || !schema.ValidIdent(table) || !schema.ValidIdent(col) {
		return query.Column{}, fmt.Errorf("invalid column reference %q (want TABLE.column)", s)
	}
	return query.Col(table, col), nil
}

// operators in match order: two-character forms before their prefixes.
var operators = []string{"!=", "<>", ">=", "<=", "!~", "=", ">", "<", "~"}

// ParseWhere parses "TABLE.column<op>value", e.g. "T.volume>=10" or
// "T.name~a%". The value is typed by ParseValue.
func ParseWhere(s string) (Where, error) {
	for i := 0; i < len(s); i++ {
		for _, op := range operators {
			if strings.HasPrefix(s[i:], op) {
				col := strings.TrimSpace(s[:i])
				if _, err := ParseColumn(col); err != nil {
					return Where{}, err
				}
				return Where{Column: col, Op: op, Value: ParseValue(strings.TrimSpace(s[i+len(op):]))}, nil
			}
		}
	}
	return Where{}, fmt.Errorf("no operator in %q", s)
}

// ParseOrder parses "TABLE.column" or "TABLE.column:desc" / ":asc".
func ParseOrder(s string) (Order, error) {
	col, dir, _ := strings.Cut(s, ":")
	if _, err := ParseColumn(col); err != nil {
		return Order{}, err
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return Order{Column: col}, nil
	case "desc":
		return Order{Column: col, Desc: true}, nil
	default:
		return Order{}, fmt.Errorf("invalid sort direction %q", dir)
	}
}

// ParseJoin parses "TABLE" or "TABLE:kind".
func ParseJoin(s string) (Join, error) {
	table, kind, _ := strings.Cut(s, ":")
	if !schema.ValidIdent(table) {
		return Join{}, fmt.Errorf("invalid table %q", table)
	}
	if kind != "" {
		if _, err := query.ParseJoinKind(kind); err != nil {
			return Join{}, err
		}
	}
	return Join{Table: table, Kind: kind}, nil
}

// ParseValue types a command-line literal: int64, then float64, then bool,
// else string. Quoted values ('...' or "...") are always strings. NaN and
// infinity spellings ("nan", "Inf", ...) stay strings.
func ParseValue(s string) any {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
