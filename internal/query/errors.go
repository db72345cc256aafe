package query

import (
	"database/sql"
	"errors"
	"fmt"
)

// ScopeError reports a table reference that does not fit the builder's scope:
// a filter or ordering on a table that was never joined, or a second join of
// a table already present.
type ScopeError struct {
	// Op is the builder operation: "filter", "order_by" or "join".
	Op string

	// Table is the offending table.
	Table string
}

// Error implements the error interface.
func (e *ScopeError) Error() string {
	if e.Op == "join" {
		return fmt.Sprintf("join: table %q already joined", e.Table)
	}
	return fmt.Sprintf("%s: table %q is not in this query", e.Op, e.Table)
}

// PreconditionError reports a query that cannot be compiled. It is raised
// before any database call.
type PreconditionError struct {
	Reason string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return "precondition: " + e.Reason
}

// ErrNoRows is returned by First when the query yields nothing.
var ErrNoRows = fmt.Errorf("query: no rows: %w", sql.ErrNoRows)

// IsScopeError returns true if err is or wraps a *ScopeError.
func IsScopeError(err error) bool {
	var se *ScopeError
	return errors.As(err, &se)
}

// IsPreconditionError returns true if err is or wraps a *PreconditionError.
func IsPreconditionError(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
