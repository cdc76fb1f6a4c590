// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colflow

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecop"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/util/log"
)

// Task drives one source instance on the calling goroutine.
type Task struct {
	Info     colexecop.LocalStateInfo
	Source   colexecop.SourceOperator
	Receiver BatchReceiver
}

// Run takes the source through Init, Open and as many GetBlock calls as it
// takes to finish, handing every non-empty block to the receiver. The source
// is always closed, and a close error is combined with the error of the run.
// A fresh block is allocated for every poll since the receiver owns it.
func (t *Task) Run(ctx context.Context, state *execinfra.RuntimeState) (retErr error) {
	ctx = logtags.AddTag(ctx, "task", t.Info.TaskIndex)
	defer func() {
		retErr = errors.CombineErrors(retErr, t.Source.Close(ctx))
	}()
	if err := t.Source.Init(ctx, state, t.Info); err != nil {
		return err
	}
	if err := t.Source.Open(ctx); err != nil {
		return err
	}
	var blocks, rows int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !t.Source.CanRead() {
			return errors.AssertionFailedf("source %d cannot be read", t.Source.OperatorID())
		}
		b := coldata.NewMemBatchWithCapacity(t.Source.OutputTypes(), state.GetBatchSize())
		ss, err := t.Source.GetBlock(ctx, b)
		if err != nil {
			return err
		}
		if n := b.Length(); n > 0 {
			blocks++
			rows += n
			if err := t.Receiver.PushBatch(t.Info.TaskIndex, b); err != nil {
				return err
			}
		}
		if ss == colexecop.SourceStateFinished {
			log.VEventf(ctx, 2, "finished after %d blocks and %d rows", blocks, rows)
			return nil
		}
	}
}
