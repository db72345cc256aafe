// Command ssql builds parameterized SELECT statements from a CUE table
// catalog and runs them against SQLite.
package main

import (
	"os"

	"github.com/roach88/ssql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		cli.ReportError(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
