// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"testing"
	"time"

	"github.com/cockroachdb/pipexec/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func TestDatumString(t *testing.T) {
	dec, err := ParseDDecimal(" 12.50 ")
	require.NoError(t, err)
	ts, err := ParseDTimestamp("2021-03-04 05:06:07")
	require.NoError(t, err)

	row := Datums{NewDInt(3), NewDString("abc"), DNull, dec, ts, DBoolTrue, NewDFloat(1.5), nil}
	require.Equal(t, "(3, abc, NULL, 12.50, 2021-03-04 05:06:07, true, 1.5, NULL)", row.String())

	require.Same(t, types.Int, NewDInt(1).ResolvedType())
	require.Same(t, types.Unknown, DNull.ResolvedType())
	require.Same(t, types.Bytes, NewDBytes("x").ResolvedType())

	_, err = ParseDDecimal("twelve")
	require.Error(t, err)
	_, err = ParseDTimestamp("yesterday")
	require.Error(t, err)
}

func TestMakeDTimestampRounds(t *testing.T) {
	ts := MakeDTimestamp(time.Date(2020, 1, 1, 0, 0, 0, 1500, time.UTC))
	require.Equal(t, 2000, ts.Nanosecond())
}
