// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colflow

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/sql/colexec/schemascan"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecerror"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecop"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"github.com/cockroachdb/pipexec/pkg/util/log"
	"golang.org/x/sync/errgroup"
)

// NewSourceOperatorX returns the uninitialized descriptor of a source node.
func NewSourceOperatorX(node *execinfrapb.PlanNode) (colexecop.OperatorX, error) {
	if node == nil {
		return nil, colexecerror.NewInvalidPlanf("missing plan node")
	}
	switch node.NodeType {
	case execinfrapb.SchemaScanNodeType:
		return schemascan.NewSchemaScanOperatorX(node), nil
	default:
		return nil, colexecerror.NewInvalidPlanf("unsupported source node type %q", node.NodeType)
	}
}

// SetupSource builds the descriptor of a source node and takes it through
// Init, Prepare and Open. The result may be shared by any number of tasks.
func SetupSource(
	node *execinfrapb.PlanNode, state *execinfra.RuntimeState,
) (colexecop.OperatorX, error) {
	op, err := NewSourceOperatorX(node)
	if err != nil {
		return nil, err
	}
	if err := op.Init(node, state); err != nil {
		return nil, err
	}
	if err := op.Prepare(state); err != nil {
		return nil, err
	}
	if err := op.Open(state); err != nil {
		return nil, err
	}
	return op, nil
}

// ParallelFlow runs several instances of one shared descriptor, each on its
// own goroutine. Blocks of one instance reach the receiver in order; there is
// no order across instances.
type ParallelFlow struct {
	op       colexecop.OperatorX
	numTasks int
	// maxRunning limits the number of instances running at once. Zero means
	// no limit.
	maxRunning int
	receiver   BatchReceiver
}

// NewParallelFlow returns a flow of numTasks instances of op.
func NewParallelFlow(
	op colexecop.OperatorX, numTasks, maxRunning int, receiver BatchReceiver,
) *ParallelFlow {
	return &ParallelFlow{op: op, numTasks: numTasks, maxRunning: maxRunning, receiver: receiver}
}

// Run starts every instance and waits for all of them. The first error
// cancels the context of the other instances and is returned.
func (f *ParallelFlow) Run(ctx context.Context, state *execinfra.RuntimeState) error {
	if f.numTasks <= 0 {
		return errors.AssertionFailedf("flow needs at least one task, got %d", f.numTasks)
	}
	ctx = state.AnnotateCtx(ctx)
	log.VEventf(ctx, 1, "running %d instances of operator %d", f.numTasks, f.op.ID())
	g, gCtx := errgroup.WithContext(ctx)
	if f.maxRunning > 0 {
		g.SetLimit(f.maxRunning)
	}
	for i := 0; i < f.numTasks; i++ {
		task := &Task{
			Info:     colexecop.LocalStateInfo{TaskIndex: i, NumTasks: f.numTasks},
			Source:   colexecop.NewSourceOperator(f.op),
			Receiver: f.receiver,
		}
		g.Go(func() error {
			return task.Run(gCtx, state)
		})
	}
	return g.Wait()
}
