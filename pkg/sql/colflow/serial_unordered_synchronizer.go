// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colflow

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecop"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
)

// SerialUnorderedSynchronizer combines multiple source streams into one. It
// reads its inputs one by one until each one is finished, at which point it
// closes it and moves to the next input. It is used when concurrency is
// undesirable, for example to run a fragment on a single goroutine.
type SerialUnorderedSynchronizer struct {
	inputs []colexecop.SourceOperator
	state  *execinfra.RuntimeState
	// curSerialInputIdx indicates the index of the current input being consumed.
	curSerialInputIdx int
	// lastInputIdx is the index of the input that produced the last batch.
	lastInputIdx int
	curOpened    bool
}

// NewSerialUnorderedSynchronizer creates a new SerialUnorderedSynchronizer.
func NewSerialUnorderedSynchronizer(
	inputs []colexecop.SourceOperator,
) *SerialUnorderedSynchronizer {
	return &SerialUnorderedSynchronizer{inputs: inputs}
}

// Init initializes every input. Inputs are opened lazily, when the
// synchronizer reaches them.
func (s *SerialUnorderedSynchronizer) Init(ctx context.Context, state *execinfra.RuntimeState) error {
	s.state = state
	for i, input := range s.inputs {
		info := colexecop.LocalStateInfo{TaskIndex: i, NumTasks: len(s.inputs)}
		if err := input.Init(ctx, state, info); err != nil {
			return err
		}
	}
	return nil
}

// Next returns the next non-empty batch. A zero-length batch means that every
// input is finished.
func (s *SerialUnorderedSynchronizer) Next(ctx context.Context) (coldata.Batch, error) {
	if s.state == nil {
		return nil, errors.AssertionFailedf("synchronizer is not initialized")
	}
	for {
		if s.curSerialInputIdx == len(s.inputs) {
			return coldata.ZeroBatch, nil
		}
		input := s.inputs[s.curSerialInputIdx]
		if !s.curOpened {
			if err := input.Open(ctx); err != nil {
				return nil, err
			}
			s.curOpened = true
		}
		b := coldata.NewMemBatchWithCapacity(input.OutputTypes(), s.state.GetBatchSize())
		ss, err := input.GetBlock(ctx, b)
		if err != nil {
			return nil, err
		}
		s.lastInputIdx = s.curSerialInputIdx
		if ss == colexecop.SourceStateFinished {
			if err := input.Close(ctx); err != nil {
				return nil, err
			}
			s.curSerialInputIdx++
			s.curOpened = false
		}
		if b.Length() > 0 {
			return b, nil
		}
	}
}

// LastInputIdx returns the index of the input that produced the last batch
// returned by Next.
func (s *SerialUnorderedSynchronizer) LastInputIdx() int {
	return s.lastInputIdx
}

// Close closes every input.
func (s *SerialUnorderedSynchronizer) Close(ctx context.Context) error {
	var retErr error
	for _, input := range s.inputs {
		retErr = errors.CombineErrors(retErr, input.Close(ctx))
	}
	return retErr
}

// RunSerial drains the synchronizer into receiver, attributing every batch to
// the input that produced it, and closes it.
func RunSerial(
	ctx context.Context,
	state *execinfra.RuntimeState,
	s *SerialUnorderedSynchronizer,
	receiver BatchReceiver,
) (retErr error) {
	ctx = state.AnnotateCtx(ctx)
	defer func() {
		retErr = errors.CombineErrors(retErr, s.Close(ctx))
	}()
	if err := s.Init(ctx, state); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := s.Next(ctx)
		if err != nil {
			return err
		}
		if b.Length() == 0 {
			return nil
		}
		if err := receiver.PushBatch(s.LastInputIdx(), b); err != nil {
			return err
		}
	}
}
