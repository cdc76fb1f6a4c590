// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colexecop

import (
	"context"

	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecerror"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// sourceOperator binds a shared descriptor to one LocalState.
type sourceOperator struct {
	op     OperatorX
	state  *execinfra.RuntimeState
	ls     LocalState
	closed bool
}

var _ SourceOperator = &sourceOperator{}

// NewSourceOperator returns a SourceOperator running a new instance of op.
// op must be a prepared source descriptor.
func NewSourceOperator(op OperatorX) SourceOperator {
	return &sourceOperator{op: op}
}

// OperatorID implements the SourceOperator interface.
func (s *sourceOperator) OperatorID() int32 {
	return s.op.ID()
}

// OutputTypes implements the SourceOperator interface.
func (s *sourceOperator) OutputTypes() []*types.T {
	return s.op.OutputTypes()
}

// Init implements the SourceOperator interface.
func (s *sourceOperator) Init(
	ctx context.Context, state *execinfra.RuntimeState, info LocalStateInfo,
) error {
	if s.closed {
		return colexecerror.NewInvalidOperatorStatef("Init called in state %s", StateClosed)
	}
	if s.ls == nil {
		if !s.op.IsSource() {
			return colexecerror.NewInvalidOperatorStatef("operator %d is not a source", s.op.ID())
		}
		s.ls = s.op.NewLocalState()
	} else if err := s.ls.State().Check("Init", StateCreated); err != nil {
		return err
	}
	// A local state left in StateCreated by a failed Init is initialized
	// again.
	s.state = state
	return s.ls.Init(ctx, state, info)
}

// Open implements the SourceOperator interface.
func (s *sourceOperator) Open(ctx context.Context) error {
	if err := s.checkBound("Open"); err != nil {
		return err
	}
	return s.ls.Open(ctx, s.state)
}

// CanRead implements the SourceOperator interface. Production is synchronous
// so an opened instance can always be read.
func (s *sourceOperator) CanRead() bool {
	if s.ls == nil {
		return false
	}
	st := s.ls.State()
	return st == StateOpened || st == StatePolling
}

// GetBlock implements the SourceOperator interface.
func (s *sourceOperator) GetBlock(ctx context.Context, b coldata.Batch) (SourceState, error) {
	if err := s.checkBound("GetBlock"); err != nil {
		return SourceStateFinished, err
	}
	return s.op.GetBlock(ctx, s.state, s.ls, b)
}

// Close implements the SourceOperator interface.
func (s *sourceOperator) Close(ctx context.Context) error {
	s.closed = true
	if s.ls == nil {
		return nil
	}
	return s.ls.Close(ctx, s.state)
}

func (s *sourceOperator) checkBound(method string) error {
	if s.ls == nil {
		if s.closed {
			return StateClosed.Check(method)
		}
		return StateCreated.Check(method)
	}
	return nil
}
