// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package coldata

// onesMask is a max uint64, where every bit is set to 1.
const onesMask = ^uint64(0)

// Nulls represents a list of potentially nullable values using a bitmap. A
// set bit means the value at that position is NULL.
type Nulls struct {
	nulls []uint64
	// maybeHasNulls is false only if the bitmap is known to contain no set
	// bits.
	maybeHasNulls bool
}

// NewNulls returns a new nulls vector able to hold n values, all non-null.
func NewNulls(n int) Nulls {
	return Nulls{nulls: make([]uint64, nullsWords(n))}
}

func nullsWords(n int) int {
	if n <= 0 {
		return 0
	}
	return (n-1)>>6 + 1
}

// MaybeHasNulls returns true if the vector possibly contains NULLs.
func (n *Nulls) MaybeHasNulls() bool {
	return n.maybeHasNulls
}

// NullAt returns true if the ith value is null.
func (n *Nulls) NullAt(i int) bool {
	return (n.nulls[i>>6]>>(uint(i)%64))&1 == 1
}

// SetNull sets the ith value to null.
func (n *Nulls) SetNull(i int) {
	n.maybeHasNulls = true
	n.nulls[i>>6] |= 1 << (uint(i) % 64)
}

// UnsetNull unsets the ith value.
func (n *Nulls) UnsetNull(i int) {
	n.nulls[i>>6] &^= 1 << (uint(i) % 64)
}

// SetNullRange sets all values in [start, end) to null.
func (n *Nulls) SetNullRange(start, end int) {
	if start >= end {
		return
	}
	n.maybeHasNulls = true
	sIdx := start >> 6
	eIdx := (end - 1) >> 6

	// Case where the mask only spans one word.
	if sIdx == eIdx {
		mask := onesMask << (uint(start) % 64)
		mask &= onesMask >> (63 - uint(end-1)%64)
		n.nulls[sIdx] |= mask
		return
	}
	n.nulls[sIdx] |= onesMask << (uint(start) % 64)
	for i := sIdx + 1; i < eIdx; i++ {
		n.nulls[i] = onesMask
	}
	n.nulls[eIdx] |= onesMask >> (63 - uint(end-1)%64)
}

// UnsetNulls resets the vector to have no nulls.
func (n *Nulls) UnsetNulls() {
	n.maybeHasNulls = false
	for i := range n.nulls {
		n.nulls[i] = 0
	}
}

// SetNulls marks every value as null.
func (n *Nulls) SetNulls() {
	n.maybeHasNulls = true
	for i := range n.nulls {
		n.nulls[i] = onesMask
	}
}

// NullCount returns the number of nulls among the first length values.
func (n *Nulls) NullCount(length int) int {
	if !n.maybeHasNulls {
		return 0
	}
	count := 0
	for i := 0; i < length; i++ {
		if n.NullAt(i) {
			count++
		}
	}
	return count
}
