package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ssql/internal/plan"
	"github.com/roach88/ssql/internal/query"
)

// RawOptions holds flags for the raw command.
type RawOptions struct {
	*RootOptions
	Database string
}

// NewRawCommand creates the raw command.
func NewRawCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RawOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "raw <sql> [params...]",
		Short: "Run literal SQL with positional params",
		Long: `Run literal SQL against the database. Params bind to @p1, @p2, ...
in order and are typed like --where values: integer, float, true/false,
otherwise string. Quote a param to force a string.

Example:
  ssql raw --db ./shop.db 'SELECT COUNT(*) AS n FROM CUSTOMER_LIST WHERE volume > @p1' 15`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRaw(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite DSN (overrides database.dsn in --config)")

	return cmd
}

func runRaw(opts *RawOptions, text string, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	prof, err := opts.profile(opts.Database, "")
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	q := query.NewRaw(text)
	for _, a := range args {
		q.Bind(plan.ParseValue(a))
	}
	return execute(formatter, cmd, prof, q)
}
