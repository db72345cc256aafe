package query

import (
	"fmt"
	"strings"
)

// Operator is a comparison operator taking exactly one bound value.
type Operator string

const (
	OpEq      Operator = "="
	OpNe      Operator = "<>"
	OpGt      Operator = ">"
	OpGe      Operator = ">="
	OpLt      Operator = "<"
	OpLe      Operator = "<="
	OpLike    Operator = "LIKE"
	OpNotLike Operator = "NOT LIKE"
)

// Filter is one column comparison predicate. It is consumed by Select.Filter.
type Filter struct {
	Column Column
	Op     Operator
	Value  any
}

// Eq returns column = v.
func (c Column) Eq(v any) Filter { return Filter{Column: c, Op: OpEq, Value: v} }

// Ne returns column <> v.
func (c Column) Ne(v any) Filter { return Filter{Column: c, Op: OpNe, Value: v} }

// Gt returns column > v.
func (c Column) Gt(v any) Filter { return Filter{Column: c, Op: OpGt, Value: v} }

// Ge returns column >= v.
func (c Column) Ge(v any) Filter { return Filter{Column: c, Op: OpGe, Value: v} }

// Lt returns column < v.
func (c Column) Lt(v any) Filter { return Filter{Column: c, Op: OpLt, Value: v} }

// Le returns column <= v.
func (c Column) Le(v any) Filter { return Filter{Column: c, Op: OpLe, Value: v} }

// Like returns column LIKE pattern.
func (c Column) Like(pattern string) Filter { return Filter{Column: c, Op: OpLike, Value: pattern} }

// NotLike returns column NOT LIKE pattern.
func (c Column) NotLike(pattern string) Filter {
	return Filter{Column: c, Op: OpNotLike, Value: pattern}
}

// toSQL renders the predicate with placeholder @p<idx>.
func (f Filter) toSQL(idx int) string {
	return fmt.Sprintf("%s %s @p%d", f.Column.Qualified(), f.Op, idx)
}

// ParseOperator maps the textual operators accepted by the CLI and scenario
// files onto an Operator. "~" is LIKE and "!~" is NOT LIKE.
func ParseOperator(s string) (Operator, error) {
	switch lower(s) {
	case "=", "==", "eq":
		return OpEq, nil
	case "!=", "<>", "ne":
		return OpNe, nil
	case ">", "gt":
		return OpGt, nil
	case ">=", "ge":
		return OpGe, nil
	case "<", "lt":
		return OpLt, nil
	case "<=", "le":
		return OpLe, nil
	case "~", "like":
		return OpLike, nil
	case "!~", "not like":
		return OpNotLike, nil
	default:
		return "", fmt.Errorf("unknown operator %q", s)
	}
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
