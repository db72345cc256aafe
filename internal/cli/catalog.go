package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ssql/internal/schema"
)

// CatalogOptions holds flags for the catalog command.
type CatalogOptions struct {
	*RootOptions
	Catalog string
}

// CatalogTableInfo describes one table in command output.
type CatalogTableInfo struct {
	Name        string   `json:"name"`
	Columns     []string `json:"columns"`
	ForeignKeys []string `json:"foreign_keys,omitempty"` // column -> TABLE.column
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate the table catalog and list its tables",
		Long: `Load the CUE table catalog, check identifiers and foreign keys, and
list every table with its columns.

Example:
  ssql catalog --catalog ./catalog`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "directory holding the CUE table catalog")

	return cmd
}

func runCatalog(opts *CatalogOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	prof, err := opts.profile("", opts.Catalog)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	if prof.Catalog == "" {
		return formatter.Fail(ExitCommandError, ErrCodeCatalog,
			errors.New("no catalog: pass --catalog or set catalog in --config"))
	}

	cat, err := schema.LoadCatalog(prof.Catalog)
	if err != nil {
		var catErr *schema.CatalogError
		if errors.As(err, &catErr) && formatter.Format != "json" && catErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				catErr.Pos.Filename(), catErr.Pos.Line(), catErr.Pos.Column())
		}
		return formatter.Fail(ExitCommandError, ErrCodeCatalog, err)
	}

	var tables []CatalogTableInfo
	for _, t := range cat.Tables() {
		info := CatalogTableInfo{Name: t.TableName(), Columns: t.Fields()}
		for _, fk := range t.ForeignKeys() {
			info.ForeignKeys = append(info.ForeignKeys,
				fmt.Sprintf("%s -> %s.%s", fk.Column, fk.RefTable, fk.RefColumn))
		}
		tables = append(tables, info)
	}

	if formatter.Format == "json" {
		return formatter.Success(tables)
	}

	fmt.Fprintf(formatter.Writer, "✓ Catalog valid: %d table(s)\n\n", len(tables))
	for _, t := range tables {
		fmt.Fprintf(formatter.Writer, "%s: %s\n", t.Name, strings.Join(t.Columns, ", "))
		for _, fk := range t.ForeignKeys {
			fmt.Fprintf(formatter.Writer, "  %s\n", fk)
		}
	}
	return nil
}
