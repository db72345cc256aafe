package query

import "strings"

// Raw is the literal-SQL stage of a query. It reuses the execution and
// streaming machinery without generating any SQL.
type Raw struct {
	sql    string
	params []any
}

func (*Raw) queryNode() {}

// NewRaw returns a Raw query for text with the given positional parameters.
func NewRaw(text string, params ...any) *Raw {
	p := make([]any, len(params))
	copy(p, params)
	return &Raw{sql: text, params: p}
}

// Bind appends one positional parameter.
func (r *Raw) Bind(v any) *Raw {
	r.params = append(r.params, v)
	return r
}

// Params returns the bound parameter values.
func (r *Raw) Params() []any {
	out := make([]any, len(r.params))
	copy(out, r.params)
	return out
}

// SQL returns the literal text and parameters. Blank text is a
// *PreconditionError.
func (r *Raw) SQL() (string, []any, error) {
	if strings.TrimSpace(r.sql) == "" {
		return "", nil, &PreconditionError{Reason: "raw query has no SQL text"}
	}
	return r.sql, r.Params(), nil
}
