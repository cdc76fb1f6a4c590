// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/sql/schemascanner"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [<name>...]",
	Short: "list the catalog tables that can be scanned",
	Long: `
Lists the catalog tables a fragment can scan, with their columns. When names
are given, only those tables are listed.
`,
	RunE: runTables,
}

func runTables(cmd *cobra.Command, args []string) error {
	reg := schemascanner.DefaultRegistry()
	var kinds []*schemascanner.Kind
	if len(args) == 0 {
		kinds = reg.Kinds()
	} else {
		for _, name := range args {
			k, ok := reg.Lookup(name)
			if !ok {
				return errors.Newf("unknown table %q", name)
			}
			kinds = append(kinds, k)
		}
	}
	cols := []string{"table", "column", "type", "nullable", "needs_catalog"}
	var rows [][]string
	for _, k := range kinds {
		for _, c := range k.Columns {
			rows = append(rows, []string{
				k.Name,
				strings.ToLower(c.Name),
				c.Type.String(),
				fmt.Sprint(c.Nullable),
				fmt.Sprint(k.NeedsCatalog),
			})
		}
	}
	return printQueryOutput(cmd.OutOrStdout(), cols, newRowSliceIter(rows), scanCtx.displayFormat)
}
