// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/base"
	"github.com/cockroachdb/pipexec/pkg/sql/colexec/schemascan"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecop"
	"github.com/cockroachdb/pipexec/pkg/sql/colflow"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"github.com/cockroachdb/pipexec/pkg/sql/schemascanner"
	"github.com/cockroachdb/pipexec/pkg/util/humanizeutil"
	"github.com/cockroachdb/pipexec/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan --fragment <file> [--catalog <file> | --sql-driver <driver> --sql-dsn <dsn>]",
	Short: "run a fragment",
	Long: `
Compiles the fragment stored in the given YAML file and runs its source with
the configured number of instances. The rows of every instance are printed in
order, one instance after another.
`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

// openCatalog returns the catalog selected by the flags, or nil if none was
// selected, along with a function releasing it.
func openCatalog() (schemascanner.Catalog, func(), error) {
	switch {
	case scanCtx.catalog != "" && scanCtx.sqlDriver != "":
		return nil, nil, &flagError{cause: errors.New("--catalog and --sql-driver are mutually exclusive")}
	case scanCtx.catalog != "":
		c, err := schemascanner.LoadMemCatalog(scanCtx.catalog)
		return c, func() {}, err
	case scanCtx.sqlDriver != "":
		if scanCtx.sqlDSN == "" {
			return nil, nil, &flagError{cause: errors.New("--sql-driver requires --sql-dsn")}
		}
		c, err := schemascanner.OpenSQLCatalog(scanCtx.sqlDriver, scanCtx.sqlDSN)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	if scanCtx.fragment == "" {
		return &flagError{cause: errors.New("missing --fragment")}
	}
	cfg, err := execConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := log.Init(cmd.ErrOrStderr(), cfg.LogConfig()); err != nil {
		return err
	}
	frag, err := execinfrapb.LoadFragment(scanCtx.fragment)
	if err != nil {
		return err
	}
	catalog, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	session := &execinfra.SessionData{
		CurrentDatabase: scanCtx.database,
		User:            scanCtx.user,
		Variables:       scanCtx.sessionVars,
	}
	state := execinfra.NewRuntimeState(frag.FragmentID, session, &frag.Descriptors, &execinfra.ServerConfig{
		Catalog: catalog,
		Metrics: execinfra.NewMetrics(prometheus.NewRegistry()),
	})
	state.BatchSize = cfg.BatchSize
	state.ScannerTimeout = cfg.ScannerTimeout.Duration
	ctx := state.AnnotateCtx(cmd.Context())

	start := time.Now()
	r := colflow.NewCollectingReceiver()
	numTasks, err := runFragment(ctx, cfg, frag, state, r)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var cols []string
	if td := frag.Descriptors.GetTupleDescriptor(frag.Node.SchemaScanNode.TupleID); td != nil {
		for _, slot := range td.SortedSlots() {
			cols = append(cols, slot.ColumnName)
		}
	}
	var rows [][]string
	blocks := 0
	for _, idx := range r.TaskIndexes() {
		blocks += len(r.Batches(idx))
		for _, row := range r.Rows(idx) {
			strs := make([]string, len(row))
			for i, d := range row {
				strs[i] = d.String()
			}
			rows = append(rows, strs)
		}
	}
	if err := printQueryOutput(cmd.OutOrStdout(), cols, newRowSliceIter(rows), scanCtx.displayFormat); err != nil {
		return err
	}
	printSummary(cmd.ErrOrStderr(), len(rows), blocks, numTasks, elapsed)
	log.Infof(ctx, "fragment %d produced %d rows", frag.FragmentID, len(rows))
	return nil
}

// runFragment runs the source of frag in the mode selected by cfg and the
// flags, and returns the number of instances it ran.
func runFragment(
	ctx context.Context,
	cfg *base.ExecConfig,
	frag *execinfrapb.Fragment,
	state *execinfra.RuntimeState,
	r colflow.BatchReceiver,
) (int, error) {
	node := &frag.Node
	if node.SchemaScanNode == nil {
		return 0, errors.WithHint(
			errors.Newf("fragment %d has no schema scan node", frag.FragmentID),
			"only catalog scans can be run")
	}
	if scanCtx.legacy {
		n := schemascan.NewSchemaScanNode(node)
		if err := n.Init(node, state); err != nil {
			return 0, err
		}
		if err := n.Prepare(state); err != nil {
			return 0, err
		}
		src, err := schemascan.NewSchemaScanOperatorBuilder(node.NodeID, n).BuildOperator()
		if err != nil {
			return 0, err
		}
		t := &colflow.Task{Info: colexecop.LocalStateInfo{NumTasks: 1}, Source: src, Receiver: r}
		return 1, t.Run(ctx, state)
	}

	op, err := colflow.SetupSource(node, state)
	if err != nil {
		return 0, err
	}
	if cfg.Serial {
		inputs := make([]colexecop.SourceOperator, cfg.Parallelism)
		for i := range inputs {
			inputs[i] = colexecop.NewSourceOperator(op)
		}
		return cfg.Parallelism, colflow.RunSerial(ctx, state, colflow.NewSerialUnorderedSynchronizer(inputs), r)
	}
	f := colflow.NewParallelFlow(op, cfg.Parallelism, cfg.MaxRunningTasks, r)
	return cfg.Parallelism, f.Run(ctx, state)
}

func printSummary(w io.Writer, rows, blocks, numTasks int, elapsed time.Duration) {
	fmt.Fprintf(w, "%s in %s from %s (%s)\n",
		humanizeutil.Count(rows, "row"),
		humanizeutil.Count(blocks, "block"),
		humanizeutil.Count(numTasks, "instance"),
		humanizeutil.Duration(elapsed))
}
