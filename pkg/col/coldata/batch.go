// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package coldata

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// Batch is the type that operators produce. It is a columnar batch of rows:
// every column holds Length() values.
type Batch interface {
	// Length returns the number of values in the columns in the batch.
	Length() int
	// SetLength sets the number of values in the columns in the batch.
	SetLength(int)
	// Capacity returns the maximum number of values that can be stored in the
	// columns in the batch.
	Capacity() int
	// Width returns the number of columns in the batch.
	Width() int
	// ColVec returns the ith Vec in this batch.
	ColVec(i int) Vec
	// ColVecs returns all of the underlying Vecs in this batch.
	ColVecs() []Vec
	// Reset prepares the batch for reuse: the length becomes zero and the
	// null bitmaps are cleared.
	Reset()
	// String returns a pretty representation of this batch.
	String() string
}

// MaxBatchSize is the upper bound on the number of rows in a batch.
const MaxBatchSize = 4096

// defaultBatchSize is the number of rows in a batch unless configured
// otherwise.
const defaultBatchSize = 1024

// DefaultBatchSize returns the default number of rows per batch.
func DefaultBatchSize() int {
	return defaultBatchSize
}

// NewMemBatch allocates a new in-memory Batch with the default capacity.
func NewMemBatch(typs []*types.T) Batch {
	return NewMemBatchWithCapacity(typs, defaultBatchSize)
}

// NewMemBatchWithCapacity allocates a new in-memory Batch with the given
// column types and capacity.
func NewMemBatchWithCapacity(typs []*types.T, capacity int) Batch {
	if capacity < 0 || capacity > MaxBatchSize {
		panic(fmt.Sprintf("batch capacity %d out of range [0, %d]", capacity, MaxBatchSize))
	}
	b := &MemBatch{capacity: capacity, b: make([]Vec, len(typs))}
	for i, t := range typs {
		b.b[i] = NewMemColumn(t, capacity)
	}
	return b
}

// ZeroBatch is a schema-less Batch of length 0.
var ZeroBatch = &zeroBatch{MemBatch: &MemBatch{}}

// MemBatch is an in-memory implementation of Batch.
type MemBatch struct {
	length   int
	capacity int
	b        []Vec
}

var _ Batch = &MemBatch{}

// Length implements the Batch interface.
func (m *MemBatch) Length() int {
	return m.length
}

// SetLength implements the Batch interface.
func (m *MemBatch) SetLength(length int) {
	if length > m.capacity {
		panic(fmt.Sprintf("length %d exceeds batch capacity %d", length, m.capacity))
	}
	m.length = length
}

// Capacity implements the Batch interface.
func (m *MemBatch) Capacity() int {
	return m.capacity
}

// Width implements the Batch interface.
func (m *MemBatch) Width() int {
	return len(m.b)
}

// ColVec implements the Batch interface.
func (m *MemBatch) ColVec(i int) Vec {
	return m.b[i]
}

// ColVecs implements the Batch interface.
func (m *MemBatch) ColVecs() []Vec {
	return m.b
}

// Reset implements the Batch interface.
func (m *MemBatch) Reset() {
	for _, v := range m.b {
		if mc, ok := v.(*memColumn); ok {
			mc.reset(m.length)
		}
	}
	m.length = 0
}

// String implements the Batch interface.
func (m *MemBatch) String() string {
	if m.length == 0 {
		return "[zero-length batch]"
	}
	var sb strings.Builder
	for i := 0; i < m.length; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte('[')
		for j, v := range m.b {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(ValueString(v, i))
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

// ValueString returns a human readable form of the idx'th value of v. It is
// not meant for hot paths.
func ValueString(v Vec, idx int) string {
	if v.Nulls().NullAt(idx) {
		return "NULL"
	}
	switch v.CanonicalTypeFamily() {
	case types.BoolFamily:
		return fmt.Sprint(v.Bool()[idx])
	case types.IntFamily:
		return fmt.Sprint(v.Int64()[idx])
	case types.FloatFamily:
		return fmt.Sprint(v.Float64()[idx])
	case types.BytesFamily:
		return string(v.Bytes()[idx])
	case types.DecimalFamily:
		d := v.Decimal()[idx]
		return d.String()
	case types.TimestampFamily:
		return v.Timestamp()[idx].Format("2006-01-02 15:04:05.999999")
	default:
		return "NULL"
	}
}

type zeroBatch struct {
	*MemBatch
}

func (b *zeroBatch) SetLength(int) {
	panic("zero batch should not be modified")
}

func (b *zeroBatch) Reset() {}
