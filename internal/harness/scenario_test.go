package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/join_filter_order.yaml")
	require.NoError(t, err)

	assert.Equal(t, "join_filter_order", s.Name)
	require.NotNil(t, s.Query)
	assert.Nil(t, s.Raw)
	assert.Equal(t, "CUSTOMER_LIST", s.Query.From)
	require.Len(t, s.Query.Joins, 1)
	assert.Equal(t, "left", s.Query.Joins[0].Kind)
	require.Len(t, s.Query.Where, 1)
	assert.Equal(t, 20, s.Query.Where[0].Value)
	require.Len(t, s.Query.Order, 1)
	assert.True(t, s.Query.Order[0].Desc)
	assert.Equal(t, []any{20}, s.Expect.Params)
	assert.Len(t, s.Expect.Rows, 2)
	assert.Nil(t, s.Expect.Rows[0]["SLOW_MOVING.total_value"])
}

func TestLoadScenario_Raw(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/raw_count.yaml")
	require.NoError(t, err)

	require.NotNil(t, s.Raw)
	assert.Nil(t, s.Query)
	assert.Equal(t, []any{15}, s.Raw.Params)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\nraw: {sql: 'SELECT 1'}\nexpectations: {}\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "raw: {sql: 'SELECT 1'}\n",
			wantErr: "name is required",
		},
		{
			name:    "neither query nor raw",
			yaml:    "name: x\n",
			wantErr: "one of query or raw is required",
		},
		{
			name:    "both query and raw",
			yaml:    "name: x\ncatalog: 'table: T: columns: [\"a\"]'\nquery: {from: T}\nraw: {sql: 'SELECT 1'}\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "query without catalog",
			yaml:    "name: x\nquery: {from: T}\n",
			wantErr: "catalog is required",
		},
		{
			name:    "query without from",
			yaml:    "name: x\ncatalog: 'table: T: columns: [\"a\"]'\nquery: {joins: [{table: U}]}\n",
			wantErr: "query.from is required",
		},
		{
			name:    "unknown error kind",
			yaml:    "name: x\nraw: {sql: 'SELECT 1'}\nexpect: {error: boom}\n",
			wantErr: `unknown kind "boom"`,
		},
		{
			name:    "error with rows",
			yaml:    "name: x\nraw: {sql: 'SELECT 1'}\nexpect: {error: driver, rows: [{a: 1}]}\n",
			wantErr: "cannot be combined",
		},
		{
			name:    "negative row count",
			yaml:    "name: x\nraw: {sql: 'SELECT 1'}\nexpect: {row_count: -1}\n",
			wantErr: "non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_AllTestdataParse(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		_, err = ParseScenario(data)
		assert.NoError(t, err, p)
	}
}
