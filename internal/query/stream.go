package query

import "iter"

// Cursor is a forward-only driver result cursor. *sql.Rows satisfies it.
type Cursor interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// RowStream is a lazy, forward-only sequence of projected rows.
//
// Each call to Next pulls one row from the cursor, decodes it and applies the
// projection. Nothing is buffered beyond the current row. The stream is not
// restartable: once Next returns false it keeps returning false.
//
// The cursor is closed when the stream is exhausted, when decoding fails, or
// when Close is called. Callers that stop early must call Close.
type RowStream[T any] struct {
	cursor  Cursor
	project func(*Row) T
	columns []string
	index   map[string]int

	cur  T
	err  error
	done bool
}

// NewRowStream wraps cursor. If the cursor's columns cannot be read the
// cursor is closed and the error returned.
func NewRowStream[T any](cursor Cursor, project func(*Row) T) (*RowStream[T], error) {
	columns, err := cursor.Columns()
	if err != nil {
		cursor.Close()
		return nil, err
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	return &RowStream[T]{
		cursor:  cursor,
		project: project,
		columns: columns,
		index:   index,
	}, nil
}

// Columns returns the result column names.
func (s *RowStream[T]) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Next advances to the next row. It returns false at the end of the sequence
// or on error; check Err afterwards.
func (s *RowStream[T]) Next() bool {
	if s.done {
		return false
	}
	if !s.cursor.Next() {
		s.finish(s.cursor.Err())
		return false
	}
	row, err := scanRow(s.cursor, s.columns, s.index)
	if err != nil {
		s.finish(err)
		return false
	}
	s.cur = s.project(row)
	return true
}

// Value returns the projection of the current row.
func (s *RowStream[T]) Value() T {
	return s.cur
}

// Err returns the error that ended the stream, if any.
func (s *RowStream[T]) Err() error {
	return s.err
}

// Close releases the cursor. It is safe to call more than once.
func (s *RowStream[T]) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	var zero T
	s.cur = zero
	return s.cursor.Close()
}

// All returns a range-over-func iterator over the stream. Breaking out of the
// loop closes the cursor. A terminal error is yielded once with a zero value.
func (s *RowStream[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.cur, nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect drains the stream into a slice and closes it.
func (s *RowStream[T]) Collect() ([]T, error) {
	defer s.Close()
	out := []T{}
	for s.Next() {
		out = append(out, s.cur)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// finish records err and closes the cursor.
func (s *RowStream[T]) finish(err error) {
	closeErr := s.Close()
	if err == nil {
		err = closeErr
	}
	s.err = err
}
