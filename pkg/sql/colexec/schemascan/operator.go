// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package schemascan implements the source operator that adapts the rows of a
// catalog scanner into blocks.
package schemascan

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/catalog/descpb"
	"github.com/cockroachdb/pipexec/pkg/sql/colconv"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecerror"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecop"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"github.com/cockroachdb/pipexec/pkg/sql/schemascanner"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// SchemaScanOperatorX scans one catalog table. It is shared by all the
// instances of the scan. Every field is written by Init and Prepare only.
type SchemaScanOperatorX struct {
	id    int32
	state colexecop.State

	tableName string
	tupleID   descpb.TupleID
	// limit is the maximum number of rows of one instance. Zero means no
	// limit.
	limit  int64
	kind   *schemascanner.Kind
	common *schemascanner.CommonParam

	// Resolved by Prepare.
	tupleDesc   *descpb.TupleDescriptor
	outputTypes []*types.T
	// srcIdx maps each output column to the scanner column that fills it, or
	// to -1 for slots that are not materialized.
	srcIdx []int
	// slotNum is the number of slots that are filled.
	slotNum int
}

var _ colexecop.OperatorX = &SchemaScanOperatorX{}

// NewSchemaScanOperatorX returns the uninitialized descriptor of the scan
// described by node.
func NewSchemaScanOperatorX(node *execinfrapb.PlanNode) *SchemaScanOperatorX {
	o := &SchemaScanOperatorX{}
	if node != nil {
		o.id = node.NodeID
	}
	return o
}

// ID implements the colexecop.OperatorX interface.
func (o *SchemaScanOperatorX) ID() int32 {
	return o.id
}

// IsSource implements the colexecop.OperatorX interface.
func (o *SchemaScanOperatorX) IsSource() bool {
	return true
}

// TableName returns the name of the scanned table.
func (o *SchemaScanOperatorX) TableName() string {
	return o.tableName
}

// OutputTypes implements the colexecop.OperatorX interface.
func (o *SchemaScanOperatorX) OutputTypes() []*types.T {
	return o.outputTypes
}

// NumMaterializedSlots returns the number of output columns that are filled
// from the scanner. The other columns are NULL.
func (o *SchemaScanOperatorX) NumMaterializedSlots() int {
	return o.slotNum
}

// Init implements the colexecop.OperatorX interface.
func (o *SchemaScanOperatorX) Init(
	node *execinfrapb.PlanNode, state *execinfra.RuntimeState,
) error {
	if err := o.state.Check("Init", colexecop.StateCreated); err != nil {
		return err
	}
	if node == nil {
		return colexecerror.NewInvalidPlanf("schema scan %d: no plan node", o.id)
	}
	if node.NodeType != execinfrapb.SchemaScanNodeType || node.SchemaScanNode == nil {
		return colexecerror.NewInvalidPlanf(
			"schema scan %d: unexpected plan node of type %q", o.id, node.NodeType)
	}
	spec := node.SchemaScanNode
	if spec.TableName == "" {
		return colexecerror.NewInvalidPlanf("schema scan %d: missing table name", o.id)
	}
	if node.Limit < 0 {
		return colexecerror.NewInvalidPlanf("schema scan %d: negative limit %d", o.id, node.Limit)
	}
	kind, ok := state.Cfg.ScannerRegistry().Lookup(spec.TableName)
	if !ok {
		return colexecerror.NewInvalidPlanf(
			"schema scan %d: unknown schema table %q", o.id, spec.TableName)
	}
	common, err := schemascanner.NewCommonParam(spec)
	if err != nil {
		return colexecerror.WrapInvalidPlanf(err, "schema scan %d", o.id)
	}
	o.id = node.NodeID
	o.tableName = spec.TableName
	o.tupleID = spec.TupleID
	o.limit = node.Limit
	o.kind = kind
	o.common = common
	o.state = colexecop.StateInitialized
	return nil
}

// Prepare implements the colexecop.OperatorX interface. Each materialized
// slot is bound to the scanner column of the same name, compared
// case-insensitively.
func (o *SchemaScanOperatorX) Prepare(state *execinfra.RuntimeState) error {
	if err := o.state.Check("Prepare", colexecop.StateInitialized); err != nil {
		return err
	}
	td := state.Descriptors.GetTupleDescriptor(o.tupleID)
	if td == nil {
		return colexecerror.NewSchemaResolutionErrorf(
			"schema scan %d: failed to get tuple descriptor %d", o.id, o.tupleID)
	}
	if err := td.Validate(); err != nil {
		return colexecerror.WrapSchemaResolutionf(err, "schema scan %d", o.id)
	}
	slots := td.SortedSlots()
	outputTypes := make([]*types.T, len(slots))
	srcIdx := make([]int, len(slots))
	slotNum := 0
	for i := range slots {
		slot := &slots[i]
		outputTypes[i] = slot.Type.T
		srcIdx[i] = -1
		if !slot.Materialized {
			continue
		}
		j := findColumn(o.kind.Columns, slot.ColumnName)
		if j < 0 {
			return colexecerror.NewSchemaResolutionErrorf(
				"schema scan %d: table %s has no column %q", o.id, o.tableName, slot.ColumnName)
		}
		col := &o.kind.Columns[j]
		if !colconv.CanCast(col.Type, slot.Type.T) {
			return colexecerror.NewSchemaResolutionErrorf(
				"schema scan %d: slot %d of type %s cannot hold column %s of type %s",
				o.id, slot.ID, slot.Type.T, col.Name, col.Type)
		}
		srcIdx[i] = j
		slotNum++
	}
	o.tupleDesc = td
	o.outputTypes = outputTypes
	o.srcIdx = srcIdx
	o.slotNum = slotNum
	o.state = colexecop.StatePrepared
	return nil
}

func findColumn(cols []schemascanner.ColumnDesc, name string) int {
	for i := range cols {
		if strings.EqualFold(cols[i].Name, name) {
			return i
		}
	}
	return -1
}

// Open implements the colexecop.OperatorX interface. The scanners are opened
// by the instances.
func (o *SchemaScanOperatorX) Open(*execinfra.RuntimeState) error {
	if err := o.state.Check("Open", colexecop.StatePrepared); err != nil {
		return err
	}
	o.state = colexecop.StateOpened
	return nil
}

// NewLocalState implements the colexecop.OperatorX interface.
func (o *SchemaScanOperatorX) NewLocalState() colexecop.LocalState {
	return &SchemaScanLocalState{parent: o}
}

// GetBlock implements the colexecop.OperatorX interface.
//
// Rows are pulled until the block is full. A full block is followed by a
// lookahead pull so that a source ending exactly on a block boundary reports
// SourceStateFinished with its last block. A partially filled block is only
// ever the last one.
func (o *SchemaScanOperatorX) GetBlock(
	ctx context.Context, state *execinfra.RuntimeState, ls colexecop.LocalState, b coldata.Batch,
) (colexecop.SourceState, error) {
	s, ok := ls.(*SchemaScanLocalState)
	if !ok || s.parent != o {
		return colexecop.SourceStateFinished, colexecerror.NewInvalidOperatorStatef(
			"schema scan %d: foreign local state %T", o.id, ls)
	}
	if err := s.st.Check("GetBlock", colexecop.StateOpened, colexecop.StatePolling); err != nil {
		return colexecop.SourceStateFinished, err
	}
	batchSize := state.GetBatchSize()
	if b.Width() != len(o.outputTypes) || b.Capacity() < batchSize {
		return colexecop.SourceStateFinished, colexecerror.NewInvalidOperatorStatef(
			"schema scan %d: block of width %d and capacity %d, expected width %d and capacity %d",
			o.id, b.Width(), b.Capacity(), len(o.outputTypes), batchSize)
	}

	start := time.Now()
	b.Reset()
	maxRows := batchSize
	if o.limit > 0 {
		if remaining := o.limit - s.emitted; remaining < int64(maxRows) {
			maxRows = int(remaining)
		}
	}
	n := 0
	for n < maxRows {
		row, err := s.nextRow(ctx)
		if err != nil {
			return s.fail(b, err)
		}
		if row == nil {
			return s.finish(b, n, start, colexecop.SourceStateFinished), nil
		}
		if err := o.fillRow(row, b, n); err != nil {
			return s.fail(b, err)
		}
		n++
	}
	if o.limit > 0 && s.emitted+int64(n) >= o.limit {
		return s.finish(b, n, start, colexecop.SourceStateFinished), nil
	}
	row, err := s.nextRow(ctx)
	if err != nil {
		return s.fail(b, err)
	}
	if row == nil {
		return s.finish(b, n, start, colexecop.SourceStateFinished), nil
	}
	s.lookahead = row
	return s.finish(b, n, start, colexecop.SourceStateMoreData), nil
}

// fillRow writes row into the idx'th position of b.
func (o *SchemaScanOperatorX) fillRow(row tree.Datums, b coldata.Batch, idx int) error {
	for i, j := range o.srcIdx {
		vec := b.ColVec(i)
		if j < 0 {
			vec.Nulls().SetNull(idx)
			continue
		}
		if err := colconv.DatumToVec(row[j], vec, idx); err != nil {
			return colexecerror.NewSourceUnavailable(err,
				"schema scan %d: column %s of %s", o.id, o.kind.Columns[j].Name, o.tableName)
		}
	}
	return nil
}
