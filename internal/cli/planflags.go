package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ssql/internal/config"
	"github.com/roach88/ssql/internal/plan"
	"github.com/roach88/ssql/internal/query"
	"github.com/roach88/ssql/internal/schema"
)

// PlanFlags are the flags shared by compile and query.
type PlanFlags struct {
	Catalog string
	From    string
	Joins   []string // TABLE[:kind]
	Where   []string // TABLE.column<op>value
	Order   []string // TABLE.column[:asc|desc]
}

func (f *PlanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Catalog, "catalog", "", "directory holding the CUE table catalog")
	cmd.Flags().StringVar(&f.From, "from", "", "main table (required)")
	cmd.Flags().StringArrayVar(&f.Joins, "join", nil, "join a table: TABLE[:inner|left|right|outer] (repeatable)")
	cmd.Flags().StringArrayVar(&f.Where, "where", nil, "filter: TABLE.column<op>value, op one of = != >= <= > < ~ !~ (repeatable)")
	cmd.Flags().StringArrayVar(&f.Order, "order", nil, "sort key: TABLE.column[:asc|desc] (repeatable)")
	_ = cmd.MarkFlagRequired("from")
}

// Plan parses the flags into a declarative select.
func (f *PlanFlags) Plan() (*plan.Select, error) {
	p := &plan.Select{From: f.From}
	for _, s := range f.Joins {
		j, err := plan.ParseJoin(s)
		if err != nil {
			return nil, fmt.Errorf("--join: %w", err)
		}
		p.Joins = append(p.Joins, j)
	}
	for _, s := range f.Where {
		w, err := plan.ParseWhere(s)
		if err != nil {
			return nil, fmt.Errorf("--where: %w", err)
		}
		p.Where = append(p.Where, w)
	}
	for _, s := range f.Order {
		o, err := plan.ParseOrder(s)
		if err != nil {
			return nil, fmt.Errorf("--order: %w", err)
		}
		p.Order = append(p.Order, o)
	}
	return p, nil
}

// buildSelect loads the catalog named by the profile and builds the flags'
// plan against it. Failures are reported through formatter.
func buildSelect(formatter *OutputFormatter, prof *config.Profile, flags *PlanFlags) (*query.Select, error) {
	if prof.Catalog == "" {
		return nil, formatter.Fail(ExitCommandError, ErrCodeCatalog,
			errors.New("no catalog: pass --catalog or set catalog in --config"))
	}
	p, err := flags.Plan()
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodePlan, err)
	}

	slog.Debug("loading catalog", "dir", prof.Catalog)
	cat, err := schema.LoadCatalog(prof.Catalog)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeCatalog, err)
	}

	q, err := p.Build(cat)
	if err != nil {
		return nil, queryFailure(formatter, err, ErrCodePlan)
	}
	slog.Debug("query built", "tables", q.Tables(), "params", q.Counter())
	return q, nil
}

// queryFailure maps a build or execution error to an error code.
// fallback is used for errors that are neither scope nor precondition.
func queryFailure(formatter *OutputFormatter, err error, fallback string) error {
	switch {
	case query.IsScopeError(err):
		return formatter.Fail(ExitFailure, ErrCodeScope, err)
	case query.IsPreconditionError(err):
		return formatter.Fail(ExitFailure, ErrCodePrecondition, err)
	case fallback == ErrCodePlan:
		return formatter.Fail(ExitCommandError, fallback, err)
	default:
		return formatter.Fail(ExitFailure, fallback, err)
	}
}
