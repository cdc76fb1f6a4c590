// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package schemascan

import (
	"context"

	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecerror"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecop"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// SchemaScanNode is the schema scan of the non-parallel execution model. It
// runs a single instance of a SchemaScanOperatorX.
type SchemaScanNode struct {
	op     *SchemaScanOperatorX
	ls     *SchemaScanLocalState
	closed bool
}

var _ colexecop.ExecNode = &SchemaScanNode{}

// NewSchemaScanNode returns the uninitialized node of the scan described by
// node.
func NewSchemaScanNode(node *execinfrapb.PlanNode) *SchemaScanNode {
	return &SchemaScanNode{op: NewSchemaScanOperatorX(node)}
}

// ID implements the colexecop.ExecNode interface.
func (n *SchemaScanNode) ID() int32 {
	return n.op.ID()
}

// OutputTypes implements the colexecop.ExecNode interface.
func (n *SchemaScanNode) OutputTypes() []*types.T {
	return n.op.OutputTypes()
}

// Init implements the colexecop.ExecNode interface.
func (n *SchemaScanNode) Init(node *execinfrapb.PlanNode, state *execinfra.RuntimeState) error {
	if err := n.checkOpen("Init"); err != nil {
		return err
	}
	return n.op.Init(node, state)
}

// Prepare implements the colexecop.ExecNode interface.
func (n *SchemaScanNode) Prepare(state *execinfra.RuntimeState) error {
	if err := n.checkOpen("Prepare"); err != nil {
		return err
	}
	return n.op.Prepare(state)
}

// Open implements the colexecop.ExecNode interface. It opens the descriptor
// and its only instance.
func (n *SchemaScanNode) Open(ctx context.Context, state *execinfra.RuntimeState) error {
	if err := n.checkOpen("Open"); err != nil {
		return err
	}
	if err := n.op.Open(state); err != nil {
		return err
	}
	n.ls = n.op.NewLocalState().(*SchemaScanLocalState)
	if err := n.ls.Init(ctx, state, colexecop.LocalStateInfo{TaskIndex: 0, NumTasks: 1}); err != nil {
		return err
	}
	return n.ls.Open(ctx, state)
}

// GetNext implements the colexecop.ExecNode interface.
func (n *SchemaScanNode) GetNext(
	ctx context.Context, state *execinfra.RuntimeState, b coldata.Batch,
) (eos bool, err error) {
	if err := n.checkOpen("GetNext"); err != nil {
		return true, err
	}
	if n.ls == nil {
		return true, colexecop.StateCreated.Check("GetNext")
	}
	ss, err := n.op.GetBlock(ctx, state, n.ls, b)
	return ss == colexecop.SourceStateFinished, err
}

// Close implements the colexecop.ExecNode interface.
func (n *SchemaScanNode) Close(ctx context.Context, state *execinfra.RuntimeState) error {
	if n.closed {
		return nil
	}
	n.closed = true
	if n.ls == nil {
		return nil
	}
	return n.ls.Close(ctx, state)
}

// Stats returns the statistics of the instance of the node.
func (n *SchemaScanNode) Stats() execinfrapb.ComponentStats {
	if n.ls == nil {
		return execinfrapb.ComponentStats{ComponentID: n.op.ID()}
	}
	return n.ls.Stats()
}

func (n *SchemaScanNode) checkOpen(method string) error {
	if n.closed {
		return colexecop.StateClosed.Check(method)
	}
	return nil
}

// SchemaScanOperatorBuilder builds the pipeline operator of a SchemaScanNode.
type SchemaScanOperatorBuilder struct {
	id    int32
	node  *SchemaScanNode
	built bool
}

var _ colexecop.OperatorBuilder = &SchemaScanOperatorBuilder{}

// NewSchemaScanOperatorBuilder returns the builder of the operator running
// node.
func NewSchemaScanOperatorBuilder(id int32, node *SchemaScanNode) *SchemaScanOperatorBuilder {
	return &SchemaScanOperatorBuilder{id: id, node: node}
}

// ID implements the colexecop.OperatorBuilder interface.
func (b *SchemaScanOperatorBuilder) ID() int32 {
	return b.id
}

// IsSource implements the colexecop.OperatorBuilder interface.
func (b *SchemaScanOperatorBuilder) IsSource() bool {
	return true
}

// BuildOperator implements the colexecop.OperatorBuilder interface. A node
// runs a single instance, so only one operator can be built.
func (b *SchemaScanOperatorBuilder) BuildOperator() (colexecop.SourceOperator, error) {
	if b.built {
		return nil, colexecerror.NewInvalidOperatorStatef(
			"schema scan node %d already has an operator", b.node.ID())
	}
	b.built = true
	return &SchemaScanOperator{builder: b, node: b.node}, nil
}

// SchemaScanOperator runs a SchemaScanNode in a pipeline.
type SchemaScanOperator struct {
	builder *SchemaScanOperatorBuilder
	node    *SchemaScanNode
	state   *execinfra.RuntimeState
	opened  bool
}

var _ colexecop.SourceOperator = &SchemaScanOperator{}

// OperatorID implements the colexecop.SourceOperator interface.
func (o *SchemaScanOperator) OperatorID() int32 {
	return o.builder.ID()
}

// OutputTypes implements the colexecop.SourceOperator interface.
func (o *SchemaScanOperator) OutputTypes() []*types.T {
	return o.node.OutputTypes()
}

// Init implements the colexecop.SourceOperator interface. The node must have
// been initialized and prepared.
func (o *SchemaScanOperator) Init(
	_ context.Context, state *execinfra.RuntimeState, _ colexecop.LocalStateInfo,
) error {
	if err := o.node.checkOpen("Init"); err != nil {
		return err
	}
	if o.state != nil {
		return colexecop.StateInitialized.Check("Init", colexecop.StateCreated)
	}
	o.state = state
	return nil
}

// Open implements the colexecop.SourceOperator interface.
func (o *SchemaScanOperator) Open(ctx context.Context) error {
	if o.state == nil {
		if err := o.node.checkOpen("Open"); err != nil {
			return err
		}
		return colexecop.StateCreated.Check("Open")
	}
	if err := o.node.Open(ctx, o.state); err != nil {
		return err
	}
	o.opened = true
	return nil
}

// CanRead implements the colexecop.SourceOperator interface.
func (o *SchemaScanOperator) CanRead() bool {
	return o.opened
}

// GetBlock implements the colexecop.SourceOperator interface.
func (o *SchemaScanOperator) GetBlock(
	ctx context.Context, b coldata.Batch,
) (colexecop.SourceState, error) {
	eos, err := o.node.GetNext(ctx, o.state, b)
	if eos {
		o.opened = false
		return colexecop.SourceStateFinished, err
	}
	return colexecop.SourceStateMoreData, err
}

// Close implements the colexecop.SourceOperator interface.
func (o *SchemaScanOperator) Close(ctx context.Context) error {
	o.opened = false
	return o.node.Close(ctx, o.state)
}
