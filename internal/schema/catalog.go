package schema

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"
)

// identPattern is the identifier grammar for table and column names.
// Names are NFC-normalized before matching.
var identPattern = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// CatalogError is a catalog load or validation failure.
type CatalogError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CatalogError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ForeignKey links Column of the owning table to RefTable.RefColumn.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Catalog is a set of table descriptors with their foreign keys.
type Catalog struct {
	tables []*CatalogTable
	byName map[string]*CatalogTable
}

// CatalogTable is a Table descriptor backed by a Catalog.
type CatalogTable struct {
	catalog     *Catalog
	name        string
	columns     []string
	foreignKeys []ForeignKey
}

// LoadCatalog loads every CUE file in dir as one instance and builds a Catalog
// from its top-level "table" struct.
func LoadCatalog(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog path is not a directory: %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return FromValue(value)
}

// ParseCatalog compiles CUE source text into a Catalog.
// filename is used for error positions only.
func ParseCatalog(filename, src string) (*Catalog, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return FromValue(value)
}

// FromValue builds a Catalog from a CUE value holding a "table" struct.
func FromValue(v cue.Value) (*Catalog, error) {
	tablesVal := v.LookupPath(cue.ParsePath("table"))
	if !tablesVal.Exists() {
		return nil, &CatalogError{Field: "table", Message: "no tables declared", Pos: v.Pos()}
	}

	c := &Catalog{byName: make(map[string]*CatalogTable)}

	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		t, err := parseTable(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		if _, dup := c.byName[t.name]; dup {
			return nil, &CatalogError{
				Field:   "table." + t.name,
				Message: "table declared twice",
				Pos:     iter.Value().Pos(),
			}
		}
		t.catalog = c
		c.tables = append(c.tables, t)
		c.byName[t.name] = t
	}

	if len(c.tables) == 0 {
		return nil, &CatalogError{Field: "table", Message: "no tables declared", Pos: tablesVal.Pos()}
	}
	if err := c.checkForeignKeys(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseTable(label string, v cue.Value) (*CatalogTable, error) {
	field := "table." + label
	name, err := normalizeIdent(label)
	if err != nil {
		return nil, &CatalogError{Field: field, Message: err.Error(), Pos: v.Pos()}
	}
	t := &CatalogTable{name: name}

	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if !colsVal.Exists() {
		return nil, &CatalogError{Field: field + ".columns", Message: "columns are required", Pos: v.Pos()}
	}
	list, err := colsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	seen := make(map[string]bool)
	for list.Next() {
		raw, err := list.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		col, err := normalizeIdent(raw)
		if err != nil {
			return nil, &CatalogError{Field: field + ".columns", Message: err.Error(), Pos: list.Value().Pos()}
		}
		if seen[col] {
			return nil, &CatalogError{
				Field:   field + ".columns",
				Message: fmt.Sprintf("duplicate column %q", col),
				Pos:     list.Value().Pos(),
			}
		}
		seen[col] = true
		t.columns = append(t.columns, col)
	}
	if len(t.columns) == 0 {
		return nil, &CatalogError{Field: field + ".columns", Message: "at least one column is required", Pos: colsVal.Pos()}
	}

	fkVal := v.LookupPath(cue.ParsePath("foreign_keys"))
	if !fkVal.Exists() {
		return t, nil
	}
	fkIter, err := fkVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for fkIter.Next() {
		fkField := field + ".foreign_keys." + fkIter.Label()
		col, err := normalizeIdent(fkIter.Label())
		if err != nil {
			return nil, &CatalogError{Field: fkField, Message: err.Error(), Pos: fkIter.Value().Pos()}
		}
		if !seen[col] {
			return nil, &CatalogError{
				Field:   fkField,
				Message: fmt.Sprintf("column %q is not declared", col),
				Pos:     fkIter.Value().Pos(),
			}
		}
		ref, err := fkIter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		refTable, refCol, ok := strings.Cut(ref, ".")
		if !ok {
			return nil, &CatalogError{
				Field:   fkField,
				Message: fmt.Sprintf("reference %q must be TABLE.column", ref),
				Pos:     fkIter.Value().Pos(),
			}
		}
		if refTable, err = normalizeIdent(refTable); err != nil {
			return nil, &CatalogError{Field: fkField, Message: err.Error(), Pos: fkIter.Value().Pos()}
		}
		if refCol, err = normalizeIdent(refCol); err != nil {
			return nil, &CatalogError{Field: fkField, Message: err.Error(), Pos: fkIter.Value().Pos()}
		}
		t.foreignKeys = append(t.foreignKeys, ForeignKey{Column: col, RefTable: refTable, RefColumn: refCol})
	}
	return t, nil
}

// checkForeignKeys verifies every reference points at a declared column.
func (c *Catalog) checkForeignKeys() error {
	for _, t := range c.tables {
		for _, fk := range t.foreignKeys {
			field := "table." + t.name + ".foreign_keys." + fk.Column
			ref, ok := c.byName[fk.RefTable]
			if !ok {
				return &CatalogError{Field: field, Message: fmt.Sprintf("unknown table %q", fk.RefTable)}
			}
			if !ref.hasColumn(fk.RefColumn) {
				return &CatalogError{Field: field, Message: fmt.Sprintf("unknown column %q on %s", fk.RefColumn, fk.RefTable)}
			}
		}
	}
	return nil
}

// Tables returns the catalog's tables in declaration order.
func (c *Catalog) Tables() []*CatalogTable {
	out := make([]*CatalogTable, len(c.tables))
	copy(out, c.tables)
	return out
}

// Table looks up a table by name.
func (c *Catalog) Table(name string) (*CatalogTable, bool) {
	t, ok := c.byName[norm.NFC.String(name)]
	return t, ok
}

// TableName implements Table.
func (t *CatalogTable) TableName() string { return t.name }

// Fields implements Table. The returned slice is a copy.
func (t *CatalogTable) Fields() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// ForeignKeys returns the foreign keys declared on this table.
func (t *CatalogTable) ForeignKeys() []ForeignKey {
	out := make([]ForeignKey, len(t.foreignKeys))
	copy(out, t.foreignKeys)
	return out
}

// Relation implements Table. Foreign keys declared on this table that point
// at other come first, then keys declared on other that point back here.
// Multiple keys are ANDed.
func (t *CatalogTable) Relation(other string) string {
	other = norm.NFC.String(other)
	var preds []string
	for _, fk := range t.foreignKeys {
		if fk.RefTable == other {
			preds = append(preds, fmt.Sprintf("%s.%s = %s.%s", t.name, fk.Column, other, fk.RefColumn))
		}
	}
	if o, ok := t.catalog.byName[other]; ok && o != t {
		for _, fk := range o.foreignKeys {
			if fk.RefTable == t.name {
				preds = append(preds, fmt.Sprintf("%s.%s = %s.%s", other, fk.Column, t.name, fk.RefColumn))
			}
		}
	}
	if len(preds) == 0 {
		return ""
	}
	return "ON " + strings.Join(preds, " AND ")
}

func (t *CatalogTable) hasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// normalizeIdent NFC-normalizes name and checks the identifier grammar.
func normalizeIdent(name string) (string, error) {
	n := norm.NFC.String(name)
	if !identPattern.MatchString(n) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return n, nil
}

// ValidIdent reports whether name is a valid table or column identifier.
func ValidIdent(name string) bool {
	_, err := normalizeIdent(name)
	return err == nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CatalogError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}
