package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ssql/internal/config"
	"github.com/roach88/ssql/internal/query"
	"github.com/roach88/ssql/internal/rowjson"
	"github.com/roach88/ssql/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	PlanFlags
	Database string
}

// QueryResult is the JSON payload of query and raw.
type QueryResult struct {
	SQL    string            `json:"sql"`
	Params []any             `json:"params"`
	Rows   []json.RawMessage `json:"rows"`
	Count  int               `json:"count"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Build a query from the catalog and run it",
		Long: `Build a SELECT from the catalog, run it against the database and print
one JSON object per row. Keys are "TABLE.column".

Example:
  ssql query --db ./shop.db --catalog ./catalog --from CUSTOMER_LIST \
    --join SLOW_MOVING:left --where 'CUSTOMER_LIST.volume>=20'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	opts.PlanFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite DSN (overrides database.dsn in --config)")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	prof, err := opts.profile(opts.Database, opts.Catalog)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	q, err := buildSelect(formatter, prof, &opts.PlanFlags)
	if err != nil {
		return err
	}
	return execute(formatter, cmd, prof, q)
}

// execute runs q on one exclusive connection and prints its rows.
func execute(formatter *OutputFormatter, cmd *cobra.Command, prof *config.Profile, q query.Executable) error {
	ctx := commandContext(cmd)

	text, params, err := q.SQL()
	if err != nil {
		return queryFailure(formatter, err, ErrCodeGeneric)
	}
	formatter.VerboseLog("SQL: %s", text)

	if prof.Database.DSN == "" {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase,
			errors.New("no database: pass --db or set database.dsn in --config"))
	}
	slog.Debug("opening database", "dsn", prof.Database.DSN)
	st, err := store.Open(prof.Database.DSN)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	conn, err := st.Conn(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
	}
	defer conn.Close()

	stream, err := query.Stream(ctx, q, conn, (*query.Row).Map)
	if err != nil {
		return queryFailure(formatter, err, ErrCodeDriver)
	}

	result := QueryResult{SQL: text, Params: params, Rows: []json.RawMessage{}}
	for row, err := range stream.All() {
		if err != nil {
			return queryFailure(formatter, err, ErrCodeDriver)
		}
		line, err := rowjson.Marshal(row)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeGeneric, err)
		}
		result.Count++
		if formatter.Format == "json" {
			result.Rows = append(result.Rows, line)
			continue
		}
		fmt.Fprintf(formatter.Writer, "%s\n", line)
	}
	slog.Debug("query finished", "rows", result.Count)

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return nil
}
