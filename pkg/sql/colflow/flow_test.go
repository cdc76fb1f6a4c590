// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/colexec/schemascan"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecerror"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecop"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/util/leaktest"
	"github.com/cockroachdb/pipexec/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSetupSource(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	state := newNumbersState(t, 1, 4, nil, nil)
	op, err := SetupSource(numbersPlanNode(), state)
	require.NoError(t, err)
	require.True(t, op.IsSource())
	require.Len(t, op.OutputTypes(), 2)

	_, err = SetupSource(nil, state)
	require.Equal(t, colexecerror.KindInvalidPlan, colexecerror.KindOf(err))

	node := numbersPlanNode()
	node.NodeType = "HASH_JOIN_NODE"
	_, err = SetupSource(node, state)
	require.Equal(t, colexecerror.KindInvalidPlan, colexecerror.KindOf(err))

	node = numbersPlanNode()
	node.SchemaScanNode.TupleID = 9
	_, err = SetupSource(node, state)
	require.Equal(t, colexecerror.KindSchemaResolution, colexecerror.KindOf(err))
}

func TestParallelFlow(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	for _, tc := range []struct {
		numTasks, maxRunning, rows, batchSize int
	}{
		{numTasks: 1, rows: 0, batchSize: 4},
		{numTasks: 4, rows: 4, batchSize: 4},
		{numTasks: 8, maxRunning: 3, rows: 5, batchSize: 3},
		{numTasks: 16, maxRunning: 1, rows: 30, batchSize: 1024},
	} {
		t.Run(fmt.Sprintf("tasks=%d/limit=%d/rows=%d", tc.numTasks, tc.maxRunning, tc.rows), func(t *testing.T) {
			ctx := context.Background()
			metrics := execinfra.NewMetrics(nil)
			state := newNumbersState(t, tc.rows, tc.batchSize, metrics, nil)
			op, err := SetupSource(numbersPlanNode(), state)
			require.NoError(t, err)

			r := NewCollectingReceiver()
			require.NoError(t, NewParallelFlow(op, tc.numTasks, tc.maxRunning, r).Run(ctx, state))

			total := 0
			for i := 0; i < tc.numTasks; i++ {
				rows := r.Rows(i)
				requireNumbers(t, rows, tc.rows, i)
				total += len(rows)
				for _, b := range r.Batches(i) {
					require.Greater(t, b.Length(), 0)
					require.LessOrEqual(t, b.Length(), tc.batchSize)
				}
			}
			require.Equal(t, float64(total), testutil.ToFloat64(metrics.RowsEmitted))
			require.Equal(t, float64(0), testutil.ToFloat64(metrics.ActiveInstances))
		})
	}
}

func TestParallelFlowError(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	metrics := execinfra.NewMetrics(nil)
	state := newNumbersState(t, 50, 2, metrics, map[string]string{"fail_task": "2"})
	op, err := SetupSource(numbersPlanNode(), state)
	require.NoError(t, err)

	var r RowCountingReceiver
	err = NewParallelFlow(op, 6, 0 /* maxRunning */, &r).Run(ctx, state)
	require.Error(t, err)
	require.Equal(t, colexecerror.KindSourceUnavailable, colexecerror.KindOf(err))
	require.Contains(t, err.Error(), "task 2 lost its source")
	// Every instance is closed, including the ones that were cancelled.
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.ActiveInstances))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.SourceErrors))

	err = NewParallelFlow(op, 0, 0, &r).Run(ctx, state)
	require.True(t, errors.IsAssertionFailure(err))
}

func TestTaskReceiverError(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	metrics := execinfra.NewMetrics(nil)
	state := newNumbersState(t, 10, 4, metrics, nil)
	op, err := SetupSource(numbersPlanNode(), state)
	require.NoError(t, err)

	src := colexecop.NewSourceOperator(op)
	task := &Task{Info: colexecop.LocalStateInfo{NumTasks: 1}, Source: src, Receiver: &errReceiver{limit: 1}}
	require.ErrorContains(t, task.Run(ctx, state), "receiver is full")
	require.False(t, src.CanRead())
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.ActiveInstances))
}

func TestTaskCancellation(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state := newNumbersState(t, 10, 4, nil, nil)
	op, err := SetupSource(numbersPlanNode(), state)
	require.NoError(t, err)

	var r RowCountingReceiver
	task := &Task{Info: colexecop.LocalStateInfo{NumTasks: 1}, Source: colexecop.NewSourceOperator(op), Receiver: &r}
	err = task.Run(ctx, state)
	require.True(t, errors.Is(err, context.Canceled), "%+v", err)
	require.Equal(t, int64(0), r.Rows())
}

func TestTaskLegacyAdapter(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	state := newNumbersState(t, 9, 4, nil, nil)
	planNode := numbersPlanNode()
	node := schemascan.NewSchemaScanNode(planNode)
	require.NoError(t, node.Init(planNode, state))
	require.NoError(t, node.Prepare(state))
	src, err := schemascan.NewSchemaScanOperatorBuilder(1, node).BuildOperator()
	require.NoError(t, err)

	r := NewCollectingReceiver()
	task := &Task{Info: colexecop.LocalStateInfo{NumTasks: 1}, Source: src, Receiver: r}
	require.NoError(t, task.Run(ctx, state))
	requireNumbers(t, r.Rows(0), 9, 0)
	require.Equal(t, []int{0}, r.TaskIndexes())
	require.Len(t, r.Batches(0), 3)
}

// orderReceiver records the input of every batch.
type orderReceiver struct {
	RowCountingReceiver
	inputs []int
}

func (r *orderReceiver) PushBatch(taskIdx int, b coldata.Batch) error {
	r.inputs = append(r.inputs, taskIdx)
	return r.RowCountingReceiver.PushBatch(taskIdx, b)
}

func TestSerialUnorderedSynchronizer(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	const numInputs = 3
	metrics := execinfra.NewMetrics(nil)
	state := newNumbersState(t, 5, 4, metrics, nil)
	op, err := SetupSource(numbersPlanNode(), state)
	require.NoError(t, err)

	inputs := make([]colexecop.SourceOperator, numInputs)
	for i := range inputs {
		inputs[i] = colexecop.NewSourceOperator(op)
	}
	r := &orderReceiver{}
	require.NoError(t, RunSerial(ctx, state, NewSerialUnorderedSynchronizer(inputs), r))

	// Inputs of 5, 8 and 11 rows in blocks of 4.
	require.Equal(t, []int{0, 0, 1, 1, 2, 2, 2}, r.inputs)
	require.Equal(t, int64(24), r.Rows())
	require.Equal(t, float64(24), testutil.ToFloat64(metrics.RowsEmitted))
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.ActiveInstances))
	for _, input := range inputs {
		require.False(t, input.CanRead())
	}

	s := NewSerialUnorderedSynchronizer(nil)
	_, err = s.Next(ctx)
	require.True(t, errors.IsAssertionFailure(err))
}

func TestSerialUnorderedSynchronizerRows(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	state := newNumbersState(t, 2, 3, nil, nil)
	op, err := SetupSource(numbersPlanNode(), state)
	require.NoError(t, err)
	inputs := []colexecop.SourceOperator{
		colexecop.NewSourceOperator(op), colexecop.NewSourceOperator(op),
	}
	r := NewCollectingReceiver()
	require.NoError(t, RunSerial(ctx, state, NewSerialUnorderedSynchronizer(inputs), r))
	require.Equal(t, []int{0, 1}, r.TaskIndexes())
	requireNumbers(t, r.Rows(0), 2, 0)
	requireNumbers(t, r.Rows(1), 2, 1)
}
