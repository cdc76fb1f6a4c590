// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package coldata

import (
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func TestMemBatch(t *testing.T) {
	typs := []*types.T{types.Int, types.String, types.Decimal, types.Timestamp, types.Bool, types.Float}
	b := NewMemBatchWithCapacity(typs, 4)
	require.Equal(t, 4, b.Capacity())
	require.Equal(t, len(typs), b.Width())
	require.Equal(t, 0, b.Length())

	for i, v := range b.ColVecs() {
		require.Equal(t, 4, v.Capacity())
		require.Same(t, typs[i], v.Type())
	}
	require.Equal(t, types.BytesFamily, b.ColVec(1).CanonicalTypeFamily())

	b.ColVec(0).Int64()[0] = 7
	b.ColVec(1).Bytes()[0] = []byte("seven")
	b.ColVec(2).Decimal()[0] = *apd.New(750, -2)
	b.ColVec(3).Timestamp()[0] = time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	b.ColVec(4).Bool()[0] = true
	b.ColVec(5).Nulls().SetNull(0)
	b.SetLength(1)
	require.Equal(t, "[7, seven, 7.50, 2020-01-02 03:04:05, true, NULL]", b.String())

	b.Reset()
	require.Equal(t, 0, b.Length())
	require.False(t, b.ColVec(5).Nulls().MaybeHasNulls())
	require.Nil(t, b.ColVec(1).Bytes()[0])
	require.Equal(t, "[zero-length batch]", b.String())

	require.Panics(t, func() { b.SetLength(5) })
	require.Panics(t, func() { NewMemBatchWithCapacity(typs, MaxBatchSize+1) })
}

func TestUnknownColumnIsAlwaysNull(t *testing.T) {
	b := NewMemBatchWithCapacity([]*types.T{types.Unknown}, 3)
	b.SetLength(3)
	for i := 0; i < 3; i++ {
		require.True(t, b.ColVec(0).Nulls().NullAt(i))
	}
	b.Reset()
	require.True(t, b.ColVec(0).Nulls().NullAt(2))
}

func TestZeroBatch(t *testing.T) {
	require.Equal(t, 0, ZeroBatch.Length())
	require.Equal(t, 0, ZeroBatch.Width())
	require.Panics(t, func() { ZeroBatch.SetLength(1) })
}
