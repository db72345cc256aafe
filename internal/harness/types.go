package harness

import "fmt"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// SQL is the statement that was executed (or would have been).
	SQL string `json:"sql,omitempty"`

	// Params are the positional parameters bound to SQL.
	Params []any `json:"params,omitempty"`

	// Rows are the result rows as column → value maps.
	Rows []map[string]any `json:"rows"`

	// ErrorKind classifies a build or execution failure:
	// "scope", "precondition", "plan" or "driver". Empty on success.
	ErrorKind string `json:"error_kind,omitempty"`

	// Err is the build or execution failure, if any.
	Err error `json:"-"`

	// Errors lists failed expectations.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Rows:   []map[string]any{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Error kinds reported in Result.ErrorKind and Expect.Error.
const (
	ErrorKindScope        = "scope"
	ErrorKindPrecondition = "precondition"
	ErrorKindPlan         = "plan"
	ErrorKindDriver       = "driver"
)
