package query

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ssql/internal/schema"
	"github.com/roach88/ssql/internal/store"
)

var (
	customers = schema.Static{
		Name:    "CUSTOMER_LIST",
		Columns: []string{"ship_to_id", "ship_to", "volume"},
		Relations: map[string]string{
			"SLOW_MOVING": "ON CUSTOMER_LIST.ship_to = SLOW_MOVING.stock_in_day",
			"PERSON":      "ON CUSTOMER_LIST.ship_to_id = PERSON.email",
		},
	}
	slowMoving = schema.Static{
		Name:    "SLOW_MOVING",
		Columns: []string{"stock_in_day", "total_value"},
	}
	person = schema.Static{
		Name:    "PERSON",
		Columns: []string{"id", "email"},
	}
)

const fixtureSQL = `
CREATE TABLE CUSTOMER_LIST (ship_to_id TEXT, ship_to TEXT, volume INTEGER);
CREATE TABLE SLOW_MOVING (stock_in_day TEXT, total_value REAL);
CREATE TABLE PERSON (id INTEGER PRIMARY KEY, email TEXT);

INSERT INTO CUSTOMER_LIST VALUES ('c1', 'north', 10), ('c2', 'south', 25), ('c3', 'east', 40);
INSERT INTO SLOW_MOVING VALUES ('north', 1.5), ('south', 7.25);
INSERT INTO PERSON VALUES (1, 'c1'), (2, 'c3');
`

// createTestStore opens an in-memory store loaded with the fixture tables.
func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.ExecScript(context.Background(), fixtureSQL))
	return s
}

// recordingQuerier records calls and fails every query.
type recordingQuerier struct {
	calls int
	args  []any
}

func (q *recordingQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	q.calls++
	q.args = args
	return nil, sql.ErrConnDone
}

// fakeCursor is an in-memory Cursor.
type fakeCursor struct {
	columns    []string
	rows       [][]any
	pos        int
	closeCalls int
	closed     bool
	columnsErr error
	scanErr    error
	err        error
}

func (c *fakeCursor) Columns() ([]string, error) { return c.columns, c.columnsErr }

func (c *fakeCursor) Next() bool {
	if c.closed || c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *fakeCursor) Scan(dest ...any) error {
	if c.scanErr != nil {
		return c.scanErr
	}
	row := c.rows[c.pos-1]
	for i := range dest {
		*(dest[i].(*any)) = row[i]
	}
	return nil
}

func (c *fakeCursor) Err() error { return c.err }

func (c *fakeCursor) Close() error {
	c.closeCalls++
	c.closed = true
	return nil
}
