// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package descpb

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// TupleID identifies a tuple descriptor within a fragment's descriptor table.
type TupleID int32

// SlotID identifies a slot within a fragment.
type SlotID int32

// SlotDescriptor describes one output column slot of a tuple.
type SlotDescriptor struct {
	ID SlotID `yaml:"id"`
	// ColumnName is the name of the source column that fills the slot.
	ColumnName string        `yaml:"column"`
	Type       types.TypeRef `yaml:"type"`
	// Materialized is false for slots declared by the plan but not read by
	// the query. Such slots are emitted as NULL.
	Materialized bool `yaml:"materialized"`
	// SlotIdx is the position of the slot in the tuple's row layout.
	SlotIdx int `yaml:"slot_idx"`
}

// TupleDescriptor describes the row layout produced by one plan node.
type TupleDescriptor struct {
	ID    TupleID          `yaml:"id"`
	Slots []SlotDescriptor `yaml:"slots"`
}

// SortedSlots returns the slots ordered by their position in the row layout.
func (t *TupleDescriptor) SortedSlots() []SlotDescriptor {
	slots := append([]SlotDescriptor(nil), t.Slots...)
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].SlotIdx < slots[j].SlotIdx
	})
	return slots
}

// NumMaterializedSlots returns the number of slots that must be filled.
func (t *TupleDescriptor) NumMaterializedSlots() int {
	n := 0
	for i := range t.Slots {
		if t.Slots[i].Materialized {
			n++
		}
	}
	return n
}

// Validate checks that slot positions form a permutation of [0, len(Slots))
// and that every slot has a type.
func (t *TupleDescriptor) Validate() error {
	seen := make([]bool, len(t.Slots))
	for i := range t.Slots {
		s := &t.Slots[i]
		if s.Type.T == nil {
			return errors.Newf("slot %d of tuple %d has no type", s.ID, t.ID)
		}
		if s.SlotIdx < 0 || s.SlotIdx >= len(t.Slots) || seen[s.SlotIdx] {
			return errors.Newf("slot %d of tuple %d has invalid position %d", s.ID, t.ID, s.SlotIdx)
		}
		seen[s.SlotIdx] = true
	}
	return nil
}

// DescriptorTable holds the tuple descriptors of one fragment.
type DescriptorTable struct {
	Tuples []TupleDescriptor `yaml:"tuples"`
}

// GetTupleDescriptor returns the tuple descriptor with the given id, or nil
// if the table does not contain it.
func (d *DescriptorTable) GetTupleDescriptor(id TupleID) *TupleDescriptor {
	if d == nil {
		return nil
	}
	for i := range d.Tuples {
		if d.Tuples[i].ID == id {
			return &d.Tuples[i]
		}
	}
	return nil
}
