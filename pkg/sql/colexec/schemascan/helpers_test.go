// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package schemascan

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/catalog/descpb"
	"github.com/cockroachdb/pipexec/pkg/sql/colconv"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecop"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"github.com/cockroachdb/pipexec/pkg/sql/schemascanner"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

// The seq table produces the number of rows given by the "rows" session
// variable, plus "rows_step" rows per task index. Its values are drawn from a
// generator seeded with the "seed" session variable plus the task index. The
// "fail_at" variable makes the table fail before producing the given row.
var seqColumns = []schemascanner.ColumnDesc{
	{Name: "ID", Type: types.Int},
	{Name: "NAME", Type: types.String},
	{Name: "SCORE", Type: types.Float, Nullable: true},
}

func seqVar(p *schemascanner.Param, name string, def int) int {
	v, ok := p.SessionVariables[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	return n
}

// seqRow returns the i'th row of a seq table with the given seed.
func seqRow(rng *rand.Rand, seed, i int) tree.Datums {
	var score tree.Datum = tree.DNull
	if rng.Intn(5) != 0 {
		score = tree.NewDFloat(tree.DFloat(rng.Intn(10000)) / 100)
	}
	name := tree.NewDString(fmt.Sprintf("r%d-%d", seed, rng.Intn(1000)))
	return tree.Datums{tree.NewDInt(tree.DInt(i)), name, score}
}

func populateSeq(ctx context.Context, p *schemascanner.Param, pusher schemascanner.RowPusher) error {
	n := seqVar(p, "rows", 0) + p.TaskIndex*seqVar(p, "rows_step", 0)
	seed := seqVar(p, "seed", 0) + p.TaskIndex
	failAt := seqVar(p, "fail_at", -1)
	rng := rand.New(rand.NewSource(int64(seed)))
	for i := 0; i < n; i++ {
		if i == failAt {
			return errors.New("source lost")
		}
		if err := pusher.PushRow(seqRow(rng, seed, i)...); err != nil {
			return err
		}
	}
	return nil
}

// newTestRegistry returns the built-in registry plus the seq table.
func newTestRegistry(t *testing.T) *schemascanner.Registry {
	r := schemascanner.NewRegistry()
	for _, k := range schemascanner.DefaultRegistry().Kinds() {
		require.NoError(t, r.Register(*k))
	}
	require.NoError(t, r.Register(schemascanner.Kind{
		Name:     "seq",
		Columns:  seqColumns,
		Populate: populateSeq,
	}))
	return r
}

const testCatalog = `
databases:
- name: shop
  character_set: utf8mb4
  collation: utf8mb4_general_ci
  tables:
  - name: orders
    engine: InnoDB
    rows: 120
    columns:
    - {name: id, type: BIGINT, nullable: false}
  - name: customers
    columns:
    - {name: id, type: BIGINT, nullable: false}
  - name: order_totals
    type: VIEW
    columns:
    - {name: total, type: "DECIMAL(10,2)", nullable: true}
`

const seqTupleID = descpb.TupleID(1)

// seqDescriptors declares the seq columns in a different order than the
// table, plus a slot that is not materialized.
var seqDescriptors = descpb.DescriptorTable{
	Tuples: []descpb.TupleDescriptor{{
		ID: seqTupleID,
		Slots: []descpb.SlotDescriptor{
			{ID: 10, ColumnName: "score", Type: types.TypeRef{T: types.Decimal}, Materialized: true, SlotIdx: 2},
			{ID: 11, ColumnName: "id", Type: types.TypeRef{T: types.Int}, Materialized: true, SlotIdx: 0},
			{ID: 12, ColumnName: "name", Type: types.TypeRef{T: types.String}, Materialized: true, SlotIdx: 1},
			{ID: 13, ColumnName: "unused", Type: types.TypeRef{T: types.String}, SlotIdx: 3},
		},
	}},
}

// expectedSeqRows returns the rows of a seq table laid out as the
// seqDescriptors tuple.
func expectedSeqRows(seed, n int) []string {
	rng := rand.New(rand.NewSource(int64(seed)))
	var res []string
	for i := 0; i < n; i++ {
		row := seqRow(rng, seed, i)
		var score tree.Datum = tree.DNull
		if row[2] != tree.DNull {
			d := &tree.DDecimal{}
			if _, err := d.SetFloat64(float64(*row[2].(*tree.DFloat))); err != nil {
				panic(err)
			}
			score = d
		}
		res = append(res, tree.Datums{row[0], row[1], score, tree.DNull}.String())
	}
	return res
}

func seqPlanNode(limit int64) *execinfrapb.PlanNode {
	return &execinfrapb.PlanNode{
		NodeID:   3,
		NodeType: execinfrapb.SchemaScanNodeType,
		Limit:    limit,
		SchemaScanNode: &execinfrapb.SchemaScanNode{
			TableName: "seq",
			TupleID:   seqTupleID,
		},
	}
}

type seqOptions struct {
	rows, seed, batchSize int
	rowsStep              int
	failAt                int
	metrics               *execinfra.Metrics
}

func newSeqState(t *testing.T, o seqOptions) *execinfra.RuntimeState {
	vars := map[string]string{
		"rows": strconv.Itoa(o.rows),
		"seed": strconv.Itoa(o.seed),
	}
	if o.rowsStep > 0 {
		vars["rows_step"] = strconv.Itoa(o.rowsStep)
	}
	if o.failAt > 0 {
		vars["fail_at"] = strconv.Itoa(o.failAt)
	}
	state := execinfra.NewRuntimeState(
		1,
		&execinfra.SessionData{Variables: vars},
		&seqDescriptors,
		&execinfra.ServerConfig{Scanners: newTestRegistry(t), Metrics: o.metrics},
	)
	state.BatchSize = o.batchSize
	return state
}

// newSeqOperator returns an opened seq descriptor.
func newSeqOperator(
	t *testing.T, state *execinfra.RuntimeState, limit int64,
) *SchemaScanOperatorX {
	node := seqPlanNode(limit)
	op := NewSchemaScanOperatorX(node)
	require.NoError(t, op.Init(node, state))
	require.NoError(t, op.Prepare(state))
	require.NoError(t, op.Open(state))
	return op
}

type blockResult struct {
	rows []string
	ss   colexecop.SourceState
}

// pollAll drives an opened instance until it finishes and returns every
// block. It checks the shape of every block.
func pollAll(
	t *testing.T,
	ctx context.Context,
	state *execinfra.RuntimeState,
	op colexecop.OperatorX,
	ls colexecop.LocalState,
) []blockResult {
	t.Helper()
	var res []blockResult
	for {
		b := coldata.NewMemBatchWithCapacity(op.OutputTypes(), state.GetBatchSize())
		ss, err := op.GetBlock(ctx, state, ls, b)
		require.NoError(t, err)
		require.Equal(t, len(op.OutputTypes()), b.Width())
		require.LessOrEqual(t, b.Length(), state.GetBatchSize())
		for i, typ := range op.OutputTypes() {
			require.Same(t, typ, b.ColVec(i).Type())
		}
		var rows []string
		for _, row := range colconv.BatchToDatumRows(b) {
			rows = append(rows, row.String())
		}
		res = append(res, blockResult{rows: rows, ss: ss})
		if ss == colexecop.SourceStateFinished {
			return res
		}
		// Only the last block may be partially filled.
		require.Equal(t, state.GetBatchSize(), b.Length())
	}
}

func flatten(blocks []blockResult) []string {
	var res []string
	for _, b := range blocks {
		res = append(res, b.rows...)
	}
	return res
}
