// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/cli/exit"
	"github.com/cockroachdb/pipexec/pkg/util/leaktest"
	"github.com/cockroachdb/pipexec/pkg/util/log"
	"github.com/stretchr/testify/require"
)

const variablesFragment = `
fragment_id: 1
descriptors:
  tuples:
  - id: 1
    slots:
    - {id: 1, column: variable_name, type: STRING, materialized: true, slot_idx: 0}
    - {id: 2, column: variable_value, type: STRING, materialized: true, slot_idx: 1}
node:
  node_id: 1
  node_type: SCHEMA_SCAN_NODE
  schema_scan_node:
    table_name: session_variables
    tuple_id: 1
`

const tablesFragment = `
fragment_id: 2
descriptors:
  tuples:
  - id: 4
    slots:
    - {id: 1, column: table_name, type: STRING, materialized: true, slot_idx: 0}
    - {id: 2, column: table_type, type: STRING, materialized: true, slot_idx: 1}
    - {id: 3, column: table_rows, type: INT8, materialized: true, slot_idx: 2}
node:
  node_id: 7
  node_type: SCHEMA_SCAN_NODE
  schema_scan_node:
    table_name: tables
    tuple_id: 4
`

const badTupleFragment = `
fragment_id: 3
descriptors:
  tuples: []
node:
  node_id: 1
  node_type: SCHEMA_SCAN_NODE
  schema_scan_node:
    table_name: tables
    tuple_id: 4
`

const testCatalog = `
databases:
- name: shop
  tables:
  - name: orders
    engine: InnoDB
    rows: 120
  - name: customers
  - name: order_totals
    type: VIEW
- name: other
  tables:
  - name: things
`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// runCLI runs the command line and returns what it printed to stdout and
// stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	pipexecCmd.SetOut(&stdout)
	pipexecCmd.SetErr(&stderr)
	defer func() {
		pipexecCmd.SetOut(nil)
		pipexecCmd.SetErr(nil)
	}()
	err := Run(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func TestScanSessionVariables(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	frag := writeFile(t, "vars.yaml", variablesFragment)
	stdout, stderr, err := runCLI(t, "scan", "--fragment", frag, "--set", "a=1,b=2", "--format", "tsv", "-p", "2")
	require.NoError(t, err)
	require.Equal(t, "variable_name\tvariable_value\na\t1\nb\t2\na\t1\nb\t2\n", stdout)
	require.Contains(t, stderr, "4 rows in 2 blocks from 2 instances")

	// The same rows come out serially and through the node adapter.
	serial, _, err := runCLI(t, "scan", "--fragment", frag, "--set", "a=1,b=2", "--format", "tsv", "-p", "2", "--serial")
	require.NoError(t, err)
	require.Equal(t, stdout, serial)
	legacy, stderr, err := runCLI(t, "scan", "--fragment", frag, "--set", "a=1,b=2", "--format", "tsv", "--legacy")
	require.NoError(t, err)
	require.Equal(t, "variable_name\tvariable_value\na\t1\nb\t2\n", legacy)
	require.Contains(t, stderr, "2 rows in 1 block from 1 instance")
}

func TestScanConfigFile(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	frag := writeFile(t, "vars.yaml", variablesFragment)
	cfg := writeFile(t, "exec.toml", "batch-size = 1\nparallelism = 3\n")
	_, stderr, err := runCLI(t, "scan", "-f", frag, "--config", cfg, "--set", "a=1")
	require.NoError(t, err)
	require.Contains(t, stderr, "3 rows in 3 blocks from 3 instances")

	// Flags override the file.
	_, stderr, err = runCLI(t, "scan", "-f", frag, "--config", cfg, "--set", "a=1", "-p", "1")
	require.NoError(t, err)
	require.Contains(t, stderr, "1 row in 1 block from 1 instance")
}

func TestScanCatalog(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	frag := writeFile(t, "tables.yaml", tablesFragment)
	catalog := writeFile(t, "catalog.yaml", testCatalog)
	stdout, _, err := runCLI(t, "scan", "-f", frag, "--catalog", catalog, "-d", "shop", "-p", "1", "--format", "csv")
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"table_name,table_type,table_rows",
		"customers,BASE TABLE,NULL",
		"order_totals,VIEW,NULL",
		"orders,BASE TABLE,120",
	}, "\n")+"\n", stdout)

	// The catalog can also come from the environment.
	t.Setenv("PIPEXEC_CATALOG", catalog)
	stdout, _, err = runCLI(t, "scan", "-f", frag, "-p", "1", "--format", "table")
	require.NoError(t, err)
	require.Contains(t, stdout, "things")
	require.Contains(t, stdout, "(4 rows)")

	stdout, _, err = runCLI(t, "scan", "-f", frag, "-p", "1", "--format", "records", "-d", "other")
	require.NoError(t, err)
	require.Equal(t, "-[ RECORD 1 ]\ntable_name | things\ntable_type | BASE TABLE\ntable_rows | NULL\n", stdout)
}

func TestScanErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	vars := writeFile(t, "vars.yaml", variablesFragment)
	tables := writeFile(t, "tables.yaml", tablesFragment)
	badTuple := writeFile(t, "bad.yaml", badTupleFragment)
	catalog := writeFile(t, "catalog.yaml", testCatalog)

	for _, tc := range []struct {
		name string
		args []string
		code exit.Code
		err  string
	}{
		{name: "no fragment", args: []string{"scan"},
			code: exit.CommandLineFlagError(), err: "missing --fragment"},
		{name: "unknown flag", args: []string{"scan", "-f", vars, "--nope"},
			code: exit.CommandLineFlagError(), err: "unknown flag: --nope"},
		{name: "bad format", args: []string{"scan", "-f", vars, "--format", "xml"},
			code: exit.CommandLineFlagError(), err: "invalid table display format: xml"},
		{name: "bad batch size", args: []string{"scan", "-f", vars, "--batch-size", "0"},
			code: exit.CommandLineFlagError(), err: "invalid batch size 0"},
		{name: "two catalogs", args: []string{"scan", "-f", tables, "--catalog", catalog, "--sql-driver", "mysql"},
			code: exit.CommandLineFlagError(), err: "mutually exclusive"},
		{name: "no dsn", args: []string{"scan", "-f", tables, "--sql-driver", "mysql"},
			code: exit.CommandLineFlagError(), err: "--sql-driver requires --sql-dsn"},
		{name: "unknown tuple", args: []string{"scan", "-f", badTuple, "--catalog", catalog},
			code: exit.PlanRejected(), err: "failed to get tuple descriptor 4"},
		{name: "no catalog", args: []string{"scan", "-f", tables},
			code: exit.SourceFailed(), err: "no catalog configured"},
		{name: "missing file", args: []string{"scan", "-f", filepath.Join(t.TempDir(), "missing.yaml")},
			code: exit.UnspecifiedError(), err: "reading fragment"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			require.ErrorContains(t, err, tc.err)
			require.Equal(t, tc.code, errorCode(err))
		})
	}

	require.Equal(t, exit.Interrupted(), errorCode(errors.Wrap(context.Canceled, "scan")))
}

func TestTablesCmd(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	stdout, _, err := runCLI(t, "tables", "session_variables", "--format", "tsv")
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"table\tcolumn\ttype\tnullable\tneeds_catalog",
		"session_variables\tvariable_name\tSTRING\tfalse\tfalse",
		"session_variables\tvariable_value\tSTRING\tfalse\tfalse",
	}, "\n")+"\n", stdout)

	stdout, _, err = runCLI(t, "tables", "--format", "tsv")
	require.NoError(t, err)
	require.Contains(t, stdout, "tables\ttable_rows\tINT8\ttrue\ttrue")

	_, _, err = runCLI(t, "tables", "nope")
	require.ErrorContains(t, err, `unknown table "nope"`)
}

func TestVersionCmd(t *testing.T) {
	defer leaktest.AfterTest(t)()

	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	require.Contains(t, stdout, "Build Tag:")
	require.Contains(t, stdout, "Go Version:")
	require.NotContains(t, stdout, "Build Deps:")

	stdout, _, err = runCLI(t, "version", "--include-deps")
	require.NoError(t, err)
	require.Contains(t, stdout, "Build Deps:")
}
