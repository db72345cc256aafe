package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ssql/internal/store"
)

const catalogDir = "testdata/catalog"

const shopSetup = `
CREATE TABLE CUSTOMER_LIST (ship_to_id TEXT, ship_to TEXT, volume INTEGER);
CREATE TABLE SLOW_MOVING (stock_in_day TEXT, total_value REAL);
CREATE TABLE PERSON (id INTEGER, email TEXT);
INSERT INTO CUSTOMER_LIST VALUES ('c1', 'north', 10), ('c2', 'south', 25), ('c3', 'east', 40);
INSERT INTO SLOW_MOVING VALUES ('north', 1.5), ('south', 7.25);
INSERT INTO PERSON VALUES (1, 'c1'), (2, 'c3');
`

// createShopDB writes a seeded SQLite file and returns its path.
func createShopDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.ExecScript(context.Background(), shopSetup))
	require.NoError(t, st.Close())
	return path
}

// writeProfile writes a YAML profile into dir and returns its path.
func writeProfile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "ssql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// runCommand runs cmd with args and returns stdout and the command error.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func absPath(p string) (string, error) {
	return filepath.Abs(p)
}

func openStore(t *testing.T, dsn string) *store.Store {
	t.Helper()
	st, err := store.Open(dsn)
	require.NoError(t, err)
	return st
}
