// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestFromString(t *testing.T) {
	testCases := []struct {
		in       string
		expected *T
	}{
		{"int", Int},
		{"BIGINT", Int},
		{"integer", Int4},
		{" varchar(64) ", String},
		{"decimal(10, 2)", Decimal},
		{"datetime", Timestamp},
		{"blob", Bytes},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			typ, err := FromString(tc.in)
			require.NoError(t, err)
			require.Same(t, tc.expected, typ)
		})
	}

	_, err := FromString("geometry")
	require.Error(t, err)
}

func TestTypeRefYAML(t *testing.T) {
	var v struct {
		Type TypeRef `yaml:"type"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("type: varchar(10)\n"), &v))
	require.Same(t, String, v.Type.T)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	require.Equal(t, "type: STRING\n", string(out))

	require.Error(t, yaml.Unmarshal([]byte("type: point\n"), &v))
}

func TestEquivalent(t *testing.T) {
	require.True(t, Int.Equivalent(Int4))
	require.False(t, Int.Identical(Int4))
	require.False(t, String.Equivalent(Bytes))
	require.Equal(t, "int", IntFamily.String())
}
