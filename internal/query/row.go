package query

import "time"

// Row is one decoded result row. Values are addressed by result column name,
// which for generated queries is the "table.column" alias.
//
// A Row owns its values and stays valid after the stream advances.
type Row struct {
	columns []string
	values  []any
	index   map[string]int
}

// Columns returns the result column names in select order.
func (r *Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Get returns the raw driver value of a column. ok is false when the column
// does not exist.
func (r *Row) Get(name string) (v any, ok bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// IsNull reports whether the column exists and holds NULL.
func (r *Row) IsNull(name string) bool {
	v, ok := r.Get(name)
	return ok && v == nil
}

// String returns a text column. []byte values are converted.
func (r *Row) String(name string) (string, bool) {
	v, _ := r.Get(name)
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	default:
		return "", false
	}
}

// Int64 returns an integer column.
func (r *Row) Int64(name string) (int64, bool) {
	v, _ := r.Get(name)
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	default:
		return 0, false
	}
}

// Float64 returns a numeric column as float64.
func (r *Row) Float64(name string) (float64, bool) {
	v, _ := r.Get(name)
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

// Bool returns a boolean column. Integer 0/1 values are accepted since some
// drivers have no native boolean.
func (r *Row) Bool(name string) (bool, bool) {
	v, _ := r.Get(name)
	switch val := v.(type) {
	case bool:
		return val, true
	case int64:
		return val != 0, true
	default:
		return false, false
	}
}

// Time returns a timestamp column.
func (r *Row) Time(name string) (time.Time, bool) {
	v, _ := r.Get(name)
	t, ok := v.(time.Time)
	return t, ok
}

// Map returns the row as a column → value map.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}

// scanRow decodes the cursor's current row. Byte slices are copied because
// the driver may reuse them on the next call to Next.
func scanRow(c Cursor, columns []string, index map[string]int) (*Row, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = append([]byte(nil), b...)
		}
	}
	return &Row{columns: columns, values: values, index: index}, nil
}
