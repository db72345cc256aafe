package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	PlanFlags
}

// CompileResult is the compiled statement.
type CompileResult struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the SQL and params for a query",
		Long: `Build a SELECT from the catalog and print its SQL and parameters.

No database is opened.

Example:
  ssql compile --catalog ./catalog --from CUSTOMER_LIST \
    --join SLOW_MOVING:left --where 'CUSTOMER_LIST.volume>=20' \
    --order CUSTOMER_LIST.volume:desc`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, cmd)
		},
	}

	opts.PlanFlags.register(cmd)

	return cmd
}

func runCompile(opts *CompileOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	prof, err := opts.profile("", opts.Catalog)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	q, err := buildSelect(formatter, prof, &opts.PlanFlags)
	if err != nil {
		return err
	}

	text, params, err := q.SQL()
	if err != nil {
		return queryFailure(formatter, err, ErrCodeGeneric)
	}

	if formatter.Format == "json" {
		return formatter.Success(CompileResult{SQL: text, Params: params})
	}
	writeStatement(formatter, text, params)
	return nil
}

// writeStatement prints SQL followed by one "@pN = value" line per param.
func writeStatement(formatter *OutputFormatter, text string, params []any) {
	fmt.Fprintln(formatter.Writer, text)
	for i, p := range params {
		fmt.Fprintf(formatter.Writer, "@p%d = %#v\n", i+1, p)
	}
}
