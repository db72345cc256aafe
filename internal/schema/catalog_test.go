package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopCatalog = `
package shop
table: CUSTOMER_LIST: {
	columns: ["ship_to_id", "ship_to", "volume"]
	foreign_keys: ship_to: "SLOW_MOVING.stock_in_day"
}

table: SLOW_MOVING: {
	columns: ["stock_in_day", "total_value"]
}

table: PERSON: {
	columns: ["id", "email"]
	foreign_keys: email: "CUSTOMER_LIST.ship_to_id"
}
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog("shop.cue", shopCatalog)
	require.NoError(t, err)

	tables := c.Tables()
	require.Len(t, tables, 3)
	assert.Equal(t, "CUSTOMER_LIST", tables[0].TableName())
	assert.Equal(t, []string{"ship_to_id", "ship_to", "volume"}, tables[0].Fields())
	assert.Equal(t, []ForeignKey{{Column: "ship_to", RefTable: "SLOW_MOVING", RefColumn: "stock_in_day"}},
		tables[0].ForeignKeys())
}

func TestCatalogTable_Relation(t *testing.T) {
	c, err := ParseCatalog("shop.cue", shopCatalog)
	require.NoError(t, err)

	cust, ok := c.Table("CUSTOMER_LIST")
	require.True(t, ok)

	// declared on this table
	assert.Equal(t, "ON CUSTOMER_LIST.ship_to = SLOW_MOVING.stock_in_day", cust.Relation("SLOW_MOVING"))
	// declared on the other table
	assert.Equal(t, "ON PERSON.email = CUSTOMER_LIST.ship_to_id", cust.Relation("PERSON"))
	// no relation
	slow, _ := c.Table("SLOW_MOVING")
	assert.Equal(t, "", slow.Relation("PERSON"))
	assert.Equal(t, "", cust.Relation("UNKNOWN"))
}

func TestCatalogTable_RelationMultipleKeys(t *testing.T) {
	c, err := ParseCatalog("multi.cue", `
table: A: {
	columns: ["x", "y"]
	foreign_keys: {
		x: "B.x"
		y: "B.y"
	}
}
table: B: columns: ["x", "y"]
`)
	require.NoError(t, err)

	a, _ := c.Table("A")
	assert.Equal(t, "ON A.x = B.x AND A.y = B.y", a.Relation("B"))
}

func TestCatalogTable_ImplementsTable(t *testing.T) {
	c, err := ParseCatalog("shop.cue", shopCatalog)
	require.NoError(t, err)
	tbl, _ := c.Table("PERSON")

	var _ Table = tbl
	fields := tbl.Fields()
	fields[0] = "mutated"
	assert.Equal(t, []string{"id", "email"}, tbl.Fields())
}

func TestParseCatalog_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "no tables",
			src:  `other: 1`,
			want: "no tables declared",
		},
		{
			name: "missing columns",
			src:  `table: A: {}`,
			want: "columns are required",
		},
		{
			name: "empty columns",
			src:  `table: A: columns: []`,
			want: "at least one column",
		},
		{
			name: "invalid column",
			src:  `table: A: columns: ["bad name"]`,
			want: "invalid identifier",
		},
		{
			name: "injection attempt",
			src:  `table: A: columns: ["x; DROP TABLE A"]`,
			want: "invalid identifier",
		},
		{
			name: "duplicate column",
			src:  `table: A: columns: ["x", "x"]`,
			want: "duplicate column",
		},
		{
			name: "foreign key on undeclared column",
			src:  `table: A: {columns: ["x"], foreign_keys: y: "B.y"}`,
			want: "not declared",
		},
		{
			name: "malformed reference",
			src:  `table: A: {columns: ["x"], foreign_keys: x: "B"}`,
			want: "must be TABLE.column",
		},
		{
			name: "unknown referenced table",
			src:  `table: A: {columns: ["x"], foreign_keys: x: "B.x"}`,
			want: `unknown table "B"`,
		},
		{
			name: "unknown referenced column",
			src: `
table: A: {columns: ["x"], foreign_keys: x: "B.z"}
table: B: columns: ["x"]`,
			want: `unknown column "z"`,
		},
		{
			name: "cue syntax",
			src:  `table: {`,
			want: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog("bad.cue", tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseCatalog_ErrorPosition(t *testing.T) {
	_, err := ParseCatalog("pos.cue", "table: A: {\n\tcolumns: [\"bad name\"]\n}\n")
	require.Error(t, err)

	var ce *CatalogError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Pos.IsValid())
	assert.Contains(t, err.Error(), "pos.cue:2:")
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.cue"), []byte(shopCatalog), 0644))

	c, err := LoadCatalog(dir)
	require.NoError(t, err)
	assert.Len(t, c.Tables(), 3)
}

func TestLoadCatalog_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte("package shop\n" + `table: A: columns: ["x"]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cue"),
		[]byte("package shop\n" + `table: B: {columns: ["x"], foreign_keys: x: "A.x"}`), 0644))

	c, err := LoadCatalog(dir)
	require.NoError(t, err)
	b, ok := c.Table("B")
	require.True(t, ok)
	assert.Equal(t, "ON B.x = A.x", b.Relation("A"))
}

func TestLoadCatalog_NotADirectory(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestValidIdent(t *testing.T) {
	assert.True(t, ValidIdent("CUSTOMER_LIST"))
	assert.True(t, ValidIdent("_x1"))
	assert.True(t, ValidIdent("café"))
	assert.True(t, ValidIdent("café")) // NFC-normalizes to a letter
	assert.False(t, ValidIdent("1abc"))
	assert.False(t, ValidIdent("a.b"))
	assert.False(t, ValidIdent(`a"`))
	assert.False(t, ValidIdent(""))
}

func TestStatic(t *testing.T) {
	s := Static{
		Name:      "T",
		Columns:   []string{"a"},
		Relations: map[string]string{"U": "ON T.a = U.a"},
	}
	var _ Table = s

	assert.Equal(t, "T", s.TableName())
	assert.Equal(t, []string{"a"}, s.Fields())
	assert.Equal(t, "ON T.a = U.a", s.Relation("U"))
	assert.Equal(t, "", s.Relation("V"))
}
