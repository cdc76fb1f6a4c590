// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colflow

import (
	"sort"
	"sync/atomic"

	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/colconv"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
	"github.com/cockroachdb/pipexec/pkg/util/syncutil"
)

// BatchReceiver consumes the blocks produced by the tasks of a flow. It may be
// called concurrently by different tasks, but never concurrently for the same
// task index.
type BatchReceiver interface {
	// PushBatch hands over a non-empty block of the task with the given index.
	// The receiver owns b. A returned error stops the task.
	PushBatch(taskIdx int, b coldata.Batch) error
}

// CollectingReceiver keeps every block, grouped by task.
type CollectingReceiver struct {
	mu struct {
		syncutil.Mutex
		batches map[int][]coldata.Batch
	}
}

var _ BatchReceiver = &CollectingReceiver{}

// NewCollectingReceiver returns an empty CollectingReceiver.
func NewCollectingReceiver() *CollectingReceiver {
	r := &CollectingReceiver{}
	r.mu.batches = make(map[int][]coldata.Batch)
	return r
}

// PushBatch implements the BatchReceiver interface.
func (r *CollectingReceiver) PushBatch(taskIdx int, b coldata.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mu.batches[taskIdx] = append(r.mu.batches[taskIdx], b)
	return nil
}

// TaskIndexes returns the sorted indexes of the tasks that pushed at least one
// block.
func (r *CollectingReceiver) TaskIndexes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]int, 0, len(r.mu.batches))
	for idx := range r.mu.batches {
		res = append(res, idx)
	}
	sort.Ints(res)
	return res
}

// Batches returns the blocks of one task in the order they were pushed.
func (r *CollectingReceiver) Batches(taskIdx int) []coldata.Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]coldata.Batch(nil), r.mu.batches[taskIdx]...)
}

// Rows returns the rows of one task in order.
func (r *CollectingReceiver) Rows(taskIdx int) []tree.Datums {
	var res []tree.Datums
	for _, b := range r.Batches(taskIdx) {
		res = append(res, colconv.BatchToDatumRows(b)...)
	}
	return res
}

// RowCountingReceiver only counts what it receives.
type RowCountingReceiver struct {
	rows    atomic.Int64
	batches atomic.Int64
}

var _ BatchReceiver = &RowCountingReceiver{}

// PushBatch implements the BatchReceiver interface.
func (r *RowCountingReceiver) PushBatch(_ int, b coldata.Batch) error {
	r.rows.Add(int64(b.Length()))
	r.batches.Add(1)
	return nil
}

// Rows returns the number of rows received so far.
func (r *RowCountingReceiver) Rows() int64 { return r.rows.Load() }

// Batches returns the number of blocks received so far.
func (r *RowCountingReceiver) Batches() int64 { return r.batches.Load() }
