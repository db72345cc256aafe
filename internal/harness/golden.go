package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ssql/internal/rowjson"
)

// Snapshot renders a result as stable text: the compiled SQL, one line per
// param, then one canonical JSON line per row. Failed runs render the
// error kind and message in place of rows.
func Snapshot(r *Result) ([]byte, error) {
	var b strings.Builder
	b.WriteString("-- sql --\n")
	b.WriteString(r.SQL)
	b.WriteString("\n-- params --\n")
	for i, p := range r.Params {
		fmt.Fprintf(&b, "@p%d = %#v\n", i+1, p)
	}
	if r.Err != nil {
		fmt.Fprintf(&b, "-- error --\n[%s] %v\n", r.ErrorKind, r.Err)
		return []byte(b.String()), nil
	}
	b.WriteString("-- rows --\n")
	lines, err := rowjson.MarshalLines(r.Rows)
	if err != nil {
		return nil, err
	}
	b.Write(lines)
	return []byte(b.String()), nil
}

// RunWithGolden executes a scenario, fails the test on unmet expectations
// and compares the snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, e)
	}
	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares the snapshot of r against testdata/golden/{name}.golden.
func AssertGolden(t *testing.T, name string, r *Result) {
	t.Helper()

	snap, err := Snapshot(r)
	if err != nil {
		t.Fatalf("snapshot %s: %v", name, err)
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snap)
}
