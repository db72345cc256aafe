package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ssql/internal/plan"
)

// Scenario defines one query run and its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Catalog is the CUE source declaring the tables the query may use.
	Catalog string `yaml:"catalog"`

	// Setup is a SQL script run on the fresh database before the query.
	Setup string `yaml:"setup,omitempty"`

	// Query is a generated SELECT. Exactly one of Query and Raw is set.
	Query *plan.Select `yaml:"query,omitempty"`

	// Raw is literal SQL with positional params.
	Raw *RawQuery `yaml:"raw,omitempty"`

	// Expect holds the expectations checked after the run.
	Expect Expect `yaml:"expect"`
}

// RawQuery is literal SQL text with its params.
type RawQuery struct {
	SQL    string `yaml:"sql"`
	Params []any  `yaml:"params,omitempty"`
}

// Expect lists what a scenario asserts. Unset fields are not checked.
type Expect struct {
	// SQL is compared with the compiled statement after collapsing
	// whitespace.
	SQL string `yaml:"sql,omitempty"`

	// Params are the expected positional params, in order.
	Params []any `yaml:"params,omitempty"`

	// Rows are the expected result rows, in order.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// RowCount checks only the number of rows.
	RowCount *int `yaml:"row_count,omitempty"`

	// Error is the expected failure kind: scope, precondition, plan or
	// driver.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Catalog == "" && s.Query != nil {
		return fmt.Errorf("catalog is required for query scenarios")
	}
	switch {
	case s.Query == nil && s.Raw == nil:
		return fmt.Errorf("one of query or raw is required")
	case s.Query != nil && s.Raw != nil:
		return fmt.Errorf("query and raw are mutually exclusive")
	}
	if s.Query != nil && s.Query.From == "" {
		return fmt.Errorf("query.from is required")
	}
	switch s.Expect.Error {
	case "", ErrorKindScope, ErrorKindPrecondition, ErrorKindPlan, ErrorKindDriver:
	default:
		return fmt.Errorf("expect.error: unknown kind %q", s.Expect.Error)
	}
	if s.Expect.Error != "" && (len(s.Expect.Rows) > 0 || s.Expect.RowCount != nil) {
		return fmt.Errorf("expect.error cannot be combined with rows or row_count")
	}
	if s.Expect.RowCount != nil && *s.Expect.RowCount < 0 {
		return fmt.Errorf("expect.row_count must be non-negative")
	}
	return nil
}
