// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package coldata

import (
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// column is an interface that represents a raw array of a Go native type.
type column interface{}

// Vec is an interface that represents a column vector that's accessible by
// Go native types.
type Vec interface {
	// Type returns the type of data stored in this Vec.
	Type() *types.T
	// CanonicalTypeFamily returns the family of the physical representation.
	CanonicalTypeFamily() types.Family

	// Bool returns a bool list.
	Bool() []bool
	// Int64 returns an int64 slice. Integers of every width are stored as
	// int64.
	Int64() []int64
	// Float64 returns a float64 slice.
	Float64() []float64
	// Bytes returns a [][]byte slice. Strings and bytes share this
	// representation.
	Bytes() [][]byte
	// Decimal returns an apd.Decimal slice.
	Decimal() []apd.Decimal
	// Timestamp returns a time.Time slice.
	Timestamp() []time.Time

	// Col returns the raw, typeless backing storage for this Vec.
	Col() interface{}

	// Nulls returns the nulls vector for the column.
	Nulls() *Nulls

	// Capacity returns the number of values the Vec can hold.
	Capacity() int
}

var _ Vec = &memColumn{}

// memColumn is a simple pass-through implementation of Vec that just casts
// a generic interface{} to the proper type when requested.
type memColumn struct {
	t                   *types.T
	canonicalTypeFamily types.Family
	col                 column
	nulls               Nulls
}

// CanonicalTypeFamily maps a type family to the family of its physical
// representation.
func CanonicalTypeFamily(f types.Family) types.Family {
	switch f {
	case types.StringFamily:
		return types.BytesFamily
	default:
		return f
	}
}

// NewMemColumn returns a new memColumn, initialized with a capacity.
func NewMemColumn(t *types.T, n int) Vec {
	nulls := NewNulls(n)
	family := CanonicalTypeFamily(t.Family())
	var col column
	switch family {
	case types.BoolFamily:
		col = make([]bool, n)
	case types.IntFamily:
		col = make([]int64, n)
	case types.FloatFamily:
		col = make([]float64, n)
	case types.BytesFamily:
		col = make([][]byte, n)
	case types.DecimalFamily:
		col = make([]apd.Decimal, n)
	case types.TimestampFamily:
		col = make([]time.Time, n)
	case types.UnknownFamily:
		// Unknown columns only ever hold NULLs.
		nulls.SetNulls()
		col = n
	default:
		panic(fmt.Sprintf("unhandled type %s", t))
	}
	return &memColumn{t: t, canonicalTypeFamily: family, col: col, nulls: nulls}
}

func (m *memColumn) Type() *types.T {
	return m.t
}

func (m *memColumn) CanonicalTypeFamily() types.Family {
	return m.canonicalTypeFamily
}

func (m *memColumn) Bool() []bool {
	return m.col.([]bool)
}

func (m *memColumn) Int64() []int64 {
	return m.col.([]int64)
}

func (m *memColumn) Float64() []float64 {
	return m.col.([]float64)
}

func (m *memColumn) Bytes() [][]byte {
	return m.col.([][]byte)
}

func (m *memColumn) Decimal() []apd.Decimal {
	return m.col.([]apd.Decimal)
}

func (m *memColumn) Timestamp() []time.Time {
	return m.col.([]time.Time)
}

func (m *memColumn) Col() interface{} {
	return m.col
}

func (m *memColumn) Nulls() *Nulls {
	return &m.nulls
}

func (m *memColumn) Capacity() int {
	switch c := m.col.(type) {
	case []bool:
		return len(c)
	case []int64:
		return len(c)
	case []float64:
		return len(c)
	case [][]byte:
		return len(c)
	case []apd.Decimal:
		return len(c)
	case []time.Time:
		return len(c)
	case int:
		return c
	default:
		panic(fmt.Sprintf("unhandled column %T", c))
	}
}

// reset clears the first n values so that stale data does not leak into the
// next use of the column.
func (m *memColumn) reset(n int) {
	if m.canonicalTypeFamily == types.UnknownFamily {
		return
	}
	m.nulls.UnsetNulls()
	switch c := m.col.(type) {
	case [][]byte:
		for i := 0; i < n && i < len(c); i++ {
			c[i] = nil
		}
	case []apd.Decimal:
		for i := 0; i < n && i < len(c); i++ {
			c[i] = apd.Decimal{}
		}
	}
}
