package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/ssql/internal/query"
	"github.com/roach88/ssql/internal/rowjson"
	"github.com/roach88/ssql/internal/schema"
	"github.com/roach88/ssql/internal/store"
)

// Run executes a scenario and checks its expectations.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Open an in-memory store and run the setup script
//  2. Parse the catalog and build the query
//  3. Compile, execute and drain the query on one exclusive connection
//  4. Check expectations, collecting every failure in Result.Errors
//
// The returned error is non-nil only when the scenario cannot run at all
// (bad catalog, failing setup script).
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	if s.Setup != "" {
		if err := st.ExecScript(ctx, s.Setup); err != nil {
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	result := NewResult()
	q, err := build(s)
	if err != nil {
		var catErr *schema.CatalogError
		if errors.As(err, &catErr) {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		result.fail(err, ErrorKindPlan)
		checkExpectations(s, result)
		return result, nil
	}

	text, params, err := q.SQL()
	if err != nil {
		result.fail(err, ErrorKindPrecondition)
		checkExpectations(s, result)
		return result, nil
	}
	result.SQL = text
	result.Params = params

	conn, err := st.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := query.FindAll(ctx, q, conn)
	if err != nil {
		result.fail(err, ErrorKindDriver)
	} else {
		result.Rows = rows
	}

	checkExpectations(s, result)
	return result, nil
}

// build turns the scenario's query or raw section into an executable query.
func build(s *Scenario) (query.Executable, error) {
	if s.Raw != nil {
		return query.NewRaw(s.Raw.SQL, s.Raw.Params...), nil
	}
	cat, err := schema.ParseCatalog(s.Name+".cue", s.Catalog)
	if err != nil {
		return nil, err
	}
	return s.Query.Build(cat)
}

// fail records err on the result, classified by type. fallback applies to
// errors that are neither scope nor precondition errors.
func (r *Result) fail(err error, fallback string) {
	r.Err = err
	switch {
	case query.IsScopeError(err):
		r.ErrorKind = ErrorKindScope
	case query.IsPreconditionError(err):
		r.ErrorKind = ErrorKindPrecondition
	default:
		r.ErrorKind = fallback
	}
}

func checkExpectations(s *Scenario, r *Result) {
	exp := s.Expect

	switch {
	case exp.Error == "" && r.Err != nil:
		r.AddError("unexpected %s error: %v", r.ErrorKind, r.Err)
		return
	case exp.Error != "" && r.Err == nil:
		r.AddError("expected %s error, query succeeded", exp.Error)
	case exp.Error != "" && exp.Error != r.ErrorKind:
		r.AddError("expected %s error, got %s error: %v", exp.Error, r.ErrorKind, r.Err)
	}

	if exp.SQL != "" && collapseSpace(exp.SQL) != collapseSpace(r.SQL) {
		r.AddError("sql mismatch:\n  want: %s\n  got:  %s", collapseSpace(exp.SQL), collapseSpace(r.SQL))
	}

	if exp.Params != nil && !reflect.DeepEqual(normalizeParams(exp.Params), normalizeParams(r.Params)) {
		r.AddError("params mismatch: want %v, got %v", exp.Params, r.Params)
	}

	if exp.RowCount != nil && *exp.RowCount != len(r.Rows) {
		r.AddError("row count mismatch: want %d, got %d", *exp.RowCount, len(r.Rows))
	}

	if exp.Rows != nil {
		want, err := rowjson.MarshalLines(exp.Rows)
		if err != nil {
			r.AddError("expected rows: %v", err)
			return
		}
		got, err := rowjson.MarshalLines(r.Rows)
		if err != nil {
			r.AddError("actual rows: %v", err)
			return
		}
		if !bytes.Equal(want, got) {
			r.AddError("rows mismatch:\n  want:\n%s  got:\n%s", indent(want), indent(got))
		}
	}
}

// collapseSpace replaces every whitespace run with one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeParams widens integers to int64 so YAML ints compare equal to
// driver-side values.
func normalizeParams(params []any) []any {
	out := make([]any, len(params))
	for i, p := range params {
		switch v := p.(type) {
		case int:
			out[i] = int64(v)
		case int32:
			out[i] = int64(v)
		case float32:
			out[i] = float64(v)
		default:
			out[i] = p
		}
	}
	return out
}

func indent(b []byte) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(string(b), "\n") {
		if line == "" {
			continue
		}
		sb.WriteString("    ")
		sb.WriteString(line)
	}
	return sb.String()
}
