// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colexecop

import (
	"context"

	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// OperatorX is the plan-level description of one pipeline step. It is built
// once per fragment and, after Prepare, is shared read-only by every running
// instance of the step. Per-instance state lives in a LocalState.
type OperatorX interface {
	// ID returns the id of the step, unique within its fragment.
	ID() int32
	// Init validates and stores the parameters of the compiled plan node.
	// Malformed or missing parameters result in an InvalidPlan error.
	Init(node *execinfrapb.PlanNode, state *execinfra.RuntimeState) error
	// Prepare resolves the output schema against the fragment's descriptor
	// table. Unknown references result in a SchemaResolutionError, after
	// which the descriptor cannot be opened.
	Prepare(state *execinfra.RuntimeState) error
	// Open performs descriptor-level setup.
	Open(state *execinfra.RuntimeState) error
	// IsSource returns whether the step originates data.
	IsSource() bool
	// OutputTypes returns the types of the output columns, in order. It is
	// only valid after Prepare.
	OutputTypes() []*types.T
	// NewLocalState returns the uninitialized state of a new instance.
	NewLocalState() LocalState
	// GetBlock fills b with the next block of ls. b must have been allocated
	// with OutputTypes and a capacity of at least the fragment's batch size.
	// The returned SourceState tells whether more blocks will follow.
	GetBlock(
		ctx context.Context, state *execinfra.RuntimeState, ls LocalState, b coldata.Batch,
	) (SourceState, error)
}

// LocalStateInfo describes the task an instance is bound to.
type LocalStateInfo struct {
	// TaskIndex is the index of the task among the NumTasks tasks running the
	// same descriptor.
	TaskIndex int
	NumTasks  int
}

// LocalState is the mutable state of one running instance of an OperatorX.
// It is owned by exactly one task and is never used concurrently.
type LocalState interface {
	// Init binds the instance to its descriptor and constructs, without
	// opening, the resources of the instance.
	Init(ctx context.Context, state *execinfra.RuntimeState, info LocalStateInfo) error
	// Open acquires the resources of the instance. It may block.
	Open(ctx context.Context, state *execinfra.RuntimeState) error
	// Close releases the resources of the instance. It may be called in any
	// state and any number of times; resources are released exactly once.
	Close(ctx context.Context, state *execinfra.RuntimeState) error
	// Parent returns the descriptor of the instance.
	Parent() OperatorX
	// State returns the lifecycle position of the instance.
	State() State
}

// SourceOperator is the view of one running source instance that a task
// driver works with.
type SourceOperator interface {
	// OperatorID returns the id of the descriptor.
	OperatorID() int32
	OutputTypes() []*types.T
	Init(ctx context.Context, state *execinfra.RuntimeState, info LocalStateInfo) error
	Open(ctx context.Context) error
	// CanRead returns whether a block can be pulled immediately.
	CanRead() bool
	GetBlock(ctx context.Context, b coldata.Batch) (SourceState, error)
	// Close is idempotent and may be called in any state.
	Close(ctx context.Context) error
}

// ExecNode is a plan node of the non-parallel execution model. A node runs
// exactly one instance of its step.
type ExecNode interface {
	ID() int32
	Init(node *execinfrapb.PlanNode, state *execinfra.RuntimeState) error
	Prepare(state *execinfra.RuntimeState) error
	Open(ctx context.Context, state *execinfra.RuntimeState) error
	// GetNext fills b with the next block. eos is set with the last block.
	GetNext(ctx context.Context, state *execinfra.RuntimeState, b coldata.Batch) (eos bool, err error)
	Close(ctx context.Context, state *execinfra.RuntimeState) error
	OutputTypes() []*types.T
}

// OperatorBuilder builds the pipeline operator of an ExecNode.
type OperatorBuilder interface {
	ID() int32
	IsSource() bool
	BuildOperator() (SourceOperator, error)
}
