// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package schemascanner

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
)

// RowPusher is the interface a worker uses to emit rows.
type RowPusher interface {
	// PushRow emits a row. It blocks until the row has been consumed and the
	// next one is requested, and fails once the generator is cleaned up.
	PushRow(row ...tree.Datum) error
}

// funcRowPusher implements RowPusher on a function.
type funcRowPusher func(row ...tree.Datum) error

func (f funcRowPusher) PushRow(row ...tree.Datum) error {
	return f(row...)
}

// Worker generates rows eagerly, pushing each one into the pusher.
type Worker func(ctx context.Context, pusher RowPusher) error

type generatorResponse struct {
	datums tree.Datums
	err    error
}

// generator returns the next row, or a nil row once the worker is done.
type generator func(ctx context.Context) (tree.Datums, error)

// errGeneratorClosed is returned to a worker blocked in PushRow when the
// generator is cleaned up.
var errGeneratorClosed = errors.New("row generator closed")

// setupGenerator takes in a worker that generates rows eagerly and transforms
// it into a lazy row generator. It returns two functions:
//   - next: a handle that can be called to generate a row from the worker.
//     next cannot be called once cleanup has been called.
//   - cleanup: performs all cleanup. It must be called exactly once and does
//     not wait for the worker, so an unresponsive worker is abandoned rather
//     than waited on.
func setupGenerator(ctx context.Context, worker Worker) (next generator, cleanup func()) {
	var cancel func()
	ctx, cancel = context.WithCancel(ctx)
	cleanup = cancel

	// comm is the channel to manage communication between the row receiver
	// and the generator. The row receiver notifies the worker to begin
	// computation through comm, and the generator places rows to consume
	// back into comm.
	comm := make(chan generatorResponse)

	addRow := func(datums ...tree.Datum) error {
		if datums == nil {
			// A nil row signals the end of the stream.
			datums = tree.Datums{}
		}
		select {
		case <-ctx.Done():
			return errGeneratorClosed
		case comm <- generatorResponse{datums: datums}:
		}

		// Block until the next call to cleanup() or next(). The worker only
		// runs while next() is being called.
		select {
		case <-ctx.Done():
			return errGeneratorClosed
		case <-comm:
		}
		return nil
	}

	go func() {
		// We wait until a call to next before starting the worker. We also
		// have to wait on done here if cleanup is called before any calls to
		// next() to avoid leaking this goroutine.
		select {
		case <-ctx.Done():
			return
		case <-comm:
		}
		err := worker(ctx, funcRowPusher(addRow))
		if errors.Is(err, errGeneratorClosed) {
			return
		}

		// Notify that we are done sending rows.
		select {
		case <-ctx.Done():
			return
		case comm <- generatorResponse{err: err}:
		}
	}()

	genDone := func(callerCtx context.Context) error {
		if err := callerCtx.Err(); err != nil {
			return err
		}
		if err := ctx.Err(); errors.Is(err, context.DeadlineExceeded) {
			return errors.Wrap(err, "scanner timed out")
		}
		return errGeneratorClosed
	}

	next = func(callerCtx context.Context) (tree.Datums, error) {
		if err := callerCtx.Err(); err != nil {
			return nil, err
		}
		// Notify the worker to begin computing a row.
		select {
		case comm <- generatorResponse{}:
		case <-ctx.Done():
			return nil, genDone(callerCtx)
		case <-callerCtx.Done():
			return nil, callerCtx.Err()
		}

		// Wait for the row to be sent.
		select {
		case <-ctx.Done():
			return nil, genDone(callerCtx)
		case <-callerCtx.Done():
			return nil, callerCtx.Err()
		case resp := <-comm:
			return resp.datums, resp.err
		}
	}
	return next, cleanup
}
