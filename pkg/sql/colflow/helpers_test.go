// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colflow

import (
	"context"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/catalog/descpb"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"github.com/cockroachdb/pipexec/pkg/sql/schemascanner"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

// The numbers table emits "rows" rows plus three more per task index. Each
// row holds its position and the index of the task producing it. The task
// named by "fail_task", if any, fails before its first row.
func populateNumbers(_ context.Context, p *schemascanner.Param, pusher schemascanner.RowPusher) error {
	rows, _ := strconv.Atoi(p.SessionVariables["rows"])
	if v, ok := p.SessionVariables["fail_task"]; ok && v == strconv.Itoa(p.TaskIndex) {
		return errors.Newf("task %d lost its source", p.TaskIndex)
	}
	n := rows + 3*p.TaskIndex
	for i := 0; i < n; i++ {
		if err := pusher.PushRow(tree.NewDInt(tree.DInt(i)), tree.NewDInt(tree.DInt(p.TaskIndex))); err != nil {
			return err
		}
	}
	return nil
}

func numbersRowCount(rows, taskIdx int) int {
	return rows + 3*taskIdx
}

var numbersDescriptors = descpb.DescriptorTable{
	Tuples: []descpb.TupleDescriptor{{
		ID: 1,
		Slots: []descpb.SlotDescriptor{
			{ID: 1, ColumnName: "n", Type: types.TypeRef{T: types.Int}, Materialized: true, SlotIdx: 0},
			{ID: 2, ColumnName: "task", Type: types.TypeRef{T: types.Int}, Materialized: true, SlotIdx: 1},
		},
	}},
}

func numbersPlanNode() *execinfrapb.PlanNode {
	return &execinfrapb.PlanNode{
		NodeID:   1,
		NodeType: execinfrapb.SchemaScanNodeType,
		SchemaScanNode: &execinfrapb.SchemaScanNode{
			TableName: "numbers",
			TupleID:   1,
		},
	}
}

func newNumbersState(
	t *testing.T, rows, batchSize int, metrics *execinfra.Metrics, vars map[string]string,
) *execinfra.RuntimeState {
	r := schemascanner.NewRegistry()
	require.NoError(t, r.Register(schemascanner.Kind{
		Name: "numbers",
		Columns: []schemascanner.ColumnDesc{
			{Name: "N", Type: types.Int},
			{Name: "TASK", Type: types.Int},
		},
		Populate: populateNumbers,
	}))
	if vars == nil {
		vars = map[string]string{}
	}
	vars["rows"] = strconv.Itoa(rows)
	state := execinfra.NewRuntimeState(
		2,
		&execinfra.SessionData{Variables: vars},
		&numbersDescriptors,
		&execinfra.ServerConfig{Scanners: r, Metrics: metrics},
	)
	state.BatchSize = batchSize
	return state
}

// requireNumbers checks that rows is the complete, ordered stream of the task
// with the given index.
func requireNumbers(t *testing.T, rows []tree.Datums, numRows, taskIdx int) {
	t.Helper()
	require.Len(t, rows, numbersRowCount(numRows, taskIdx), "task %d", taskIdx)
	for i, row := range rows {
		require.Equal(t, int64(i), int64(*row[0].(*tree.DInt)), "task %d", taskIdx)
		require.Equal(t, int64(taskIdx), int64(*row[1].(*tree.DInt)))
	}
}

// errReceiver fails once it has received limit batches.
type errReceiver struct {
	limit int
	n     int
}

func (r *errReceiver) PushBatch(_ int, _ coldata.Batch) error {
	r.n++
	if r.n > r.limit {
		return errors.New("receiver is full")
	}
	return nil
}
