package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeCursor() *fakeCursor {
	return &fakeCursor{
		columns: []string{"T.a", "T.b"},
		rows: [][]any{
			{int64(1), "one"},
			{int64(2), "two"},
		},
	}
}

func projectA(r *Row) int64 {
	v, _ := r.Int64("T.a")
	return v
}

func TestRowStream_Exhaustion(t *testing.T) {
	cur := newFakeCursor()
	s, err := NewRowStream(cur, projectA)
	require.NoError(t, err)

	var got []int64
	for s.Next() {
		got = append(got, s.Value())
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []int64{1, 2}, got)

	// end of sequence on every subsequent pull
	for i := 0; i < 3; i++ {
		assert.False(t, s.Next())
	}
	assert.Equal(t, 1, cur.closeCalls)
	assert.Zero(t, s.Value())
}

func TestRowStream_ProjectionIsLazy(t *testing.T) {
	calls := 0
	s, err := NewRowStream(newFakeCursor(), func(r *Row) string {
		calls++
		v, _ := r.String("T.b")
		return v
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)

	require.True(t, s.Next())
	assert.Equal(t, 1, calls)
	assert.Equal(t, "one", s.Value())

	require.NoError(t, s.Close())
	assert.Equal(t, 1, calls)
}

func TestRowStream_CloseMidIteration(t *testing.T) {
	cur := newFakeCursor()
	s, err := NewRowStream(cur, projectA)
	require.NoError(t, err)

	require.True(t, s.Next())
	require.NoError(t, s.Close())
	assert.True(t, cur.closed)

	assert.False(t, s.Next())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, cur.closeCalls)
}

func TestRowStream_CursorError(t *testing.T) {
	boom := errors.New("connection reset")
	cur := newFakeCursor()
	cur.rows = cur.rows[:1]
	cur.err = boom

	s, err := NewRowStream(cur, projectA)
	require.NoError(t, err)

	require.True(t, s.Next())
	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), boom)
	assert.True(t, cur.closed)
}

func TestRowStream_ScanError(t *testing.T) {
	boom := errors.New("bad value")
	cur := newFakeCursor()
	cur.scanErr = boom

	s, err := NewRowStream(cur, projectA)
	require.NoError(t, err)

	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), boom)
	assert.True(t, cur.closed)
}

func TestRowStream_ColumnsError(t *testing.T) {
	boom := errors.New("closed")
	cur := newFakeCursor()
	cur.columnsErr = boom

	_, err := NewRowStream(cur, projectA)
	assert.ErrorIs(t, err, boom)
	assert.True(t, cur.closed)
}

func TestRowStream_Collect(t *testing.T) {
	s, err := NewRowStream(newFakeCursor(), projectA)
	require.NoError(t, err)

	got, err := s.Collect()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got)
}

func TestRowStream_CollectEmpty(t *testing.T) {
	cur := newFakeCursor()
	cur.rows = nil
	s, err := NewRowStream(cur, projectA)
	require.NoError(t, err)

	got, err := s.Collect()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRowStream_AllBreakClosesCursor(t *testing.T) {
	cur := newFakeCursor()
	s, err := NewRowStream(cur, projectA)
	require.NoError(t, err)

	for v, err := range s.All() {
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)
		break
	}
	assert.True(t, cur.closed)
	assert.False(t, s.Next())
}

func TestRowStream_AllYieldsTerminalError(t *testing.T) {
	boom := errors.New("boom")
	cur := newFakeCursor()
	cur.err = boom
	s, err := NewRowStream(cur, projectA)
	require.NoError(t, err)

	var values []int64
	var errs []error
	for v, err := range s.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values = append(values, v)
	}
	assert.Equal(t, []int64{1, 2}, values)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
}

func TestRowStream_RowOutlivesStep(t *testing.T) {
	buf := []byte("first")
	cur := &fakeCursor{
		columns: []string{"T.b"},
		rows:    [][]any{{buf}},
	}
	s, err := NewRowStream(cur, func(r *Row) *Row { return r })
	require.NoError(t, err)

	require.True(t, s.Next())
	row := s.Value()
	copy(buf, "XXXXX")

	v, ok := row.String("T.b")
	require.True(t, ok)
	assert.Equal(t, "first", v)
}

func TestRowStream_ReleasesConnection(t *testing.T) {
	st := createTestStore(t)
	db := st.DB()
	ctx := context.Background()

	s, err := Stream(ctx, From(customers), db, projectVolume)
	require.NoError(t, err)
	require.True(t, s.Next())
	assert.Equal(t, 1, db.Stats().InUse)

	require.NoError(t, s.Close())
	assert.Equal(t, 0, db.Stats().InUse)
}

func TestRowStream_ExhaustionReleasesConnection(t *testing.T) {
	st := createTestStore(t)
	db := st.DB()

	s, err := Stream(context.Background(), From(customers), db, projectVolume)
	require.NoError(t, err)
	for s.Next() {
	}
	require.NoError(t, s.Err())
	assert.Equal(t, 0, db.Stats().InUse)
}

func projectVolume(r *Row) int64 {
	v, _ := r.Int64("CUSTOMER_LIST.volume")
	return v
}
