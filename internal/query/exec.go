package query

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

// Querier is the driver contract: run SQL with positional parameters and get
// a row cursor back. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
//
// Passing a *sql.Conn gives the query exclusive use of one connection for its
// whole lifetime.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Executable is a Query that knows how to run itself against a Querier.
type Executable interface {
	Query

	// Execute compiles the query and issues it. Compilation failures are
	// returned before conn is touched; driver errors are returned unchanged.
	Execute(ctx context.Context, conn Querier) (*sql.Rows, error)
}

// Execute runs the generated SELECT.
func (s *Select) Execute(ctx context.Context, conn Querier) (*sql.Rows, error) {
	text, params, err := s.SQL()
	if err != nil {
		return nil, err
	}
	return conn.QueryContext(ctx, text, bindArgs(text, params)...)
}

// Execute runs the literal SQL text.
func (r *Raw) Execute(ctx context.Context, conn Querier) (*sql.Rows, error) {
	text, params, err := r.SQL()
	if err != nil {
		return nil, err
	}
	return conn.QueryContext(ctx, text, bindArgs(text, params)...)
}

// numberedPlaceholder matches @p1, @P2, ... in statement text.
var numberedPlaceholder = regexp.MustCompile(`@([pP])[0-9]+`)

// bindArgs binds params[i] to placeholder number i+1. Drivers number named
// placeholders by first appearance, so text using @pN gets sql.Named
// arguments; any other text (e.g. "?") keeps ordinal binding.
func bindArgs(text string, params []any) []any {
	m := numberedPlaceholder.FindStringSubmatch(text)
	if m == nil {
		return params
	}
	args := make([]any, len(params))
	for i, v := range params {
		args[i] = sql.Named(fmt.Sprintf("%s%d", m[1], i+1), v)
	}
	return args
}

// Stream executes q and wraps the result in a RowStream applying project to
// each row. The stream's cursor is bound to ctx: cancelling ctx ends the
// stream and releases the cursor.
func Stream[T any](ctx context.Context, q Executable, conn Querier, project func(*Row) T) (*RowStream[T], error) {
	rows, err := q.Execute(ctx, conn)
	if err != nil {
		return nil, err
	}
	return NewRowStream[T](rows, project)
}

// FindAll executes q and returns every row as a column → value map.
func FindAll(ctx context.Context, q Executable, conn Querier) ([]map[string]any, error) {
	stream, err := Stream(ctx, q, conn, (*Row).Map)
	if err != nil {
		return nil, err
	}
	return stream.Collect()
}

// First executes q and returns the projection of its first row, or ErrNoRows.
func First[T any](ctx context.Context, q Executable, conn Querier, project func(*Row) T) (T, error) {
	var zero T
	stream, err := Stream(ctx, q, conn, project)
	if err != nil {
		return zero, err
	}
	defer stream.Close()

	if !stream.Next() {
		if err := stream.Err(); err != nil {
			return zero, err
		}
		return zero, ErrNoRows
	}
	return stream.Value(), nil
}
