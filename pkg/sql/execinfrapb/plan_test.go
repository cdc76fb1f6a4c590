// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfrapb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/pipexec/pkg/sql/catalog/descpb"
	"github.com/stretchr/testify/require"
)

const testFragment = `
fragment_id: 7
descriptors:
  tuples:
  - id: 0
    slots:
    - {id: 1, column: TABLE_NAME, type: STRING, materialized: true, slot_idx: 0}
node:
  node_id: 2
  node_type: SCHEMA_SCAN_NODE
  limit: 10
  schema_scan_node:
    table_name: tables
    tuple_id: 0
    db: shop
    wild: "ord%"
    thread_id: 44
`

func TestLoadFragment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fragment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testFragment), 0644))

	f, err := LoadFragment(path)
	require.NoError(t, err)
	require.Equal(t, int32(7), f.FragmentID)
	require.Equal(t, int32(2), f.Node.NodeID)
	require.Equal(t, SchemaScanNodeType, f.Node.NodeType)
	require.Equal(t, int64(10), f.Node.Limit)
	require.NotNil(t, f.Node.SchemaScanNode)
	require.Equal(t, "tables", f.Node.SchemaScanNode.TableName)
	require.Equal(t, "ord%", f.Node.SchemaScanNode.Wild)
	require.Equal(t, int64(44), f.Node.SchemaScanNode.ThreadID)
	require.NotNil(t, f.Descriptors.GetTupleDescriptor(descpb.TupleID(0)))

	_, err = LoadFragment(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseFragmentRejectsUnknownFields(t *testing.T) {
	_, err := ParseFragment([]byte("node: {node_id: 1, bogus: true}\n"))
	require.Error(t, err)
}

func TestComponentStats(t *testing.T) {
	s := ComponentStats{RowsRead: 12345, ExecTime: 1500 * time.Microsecond}
	s.Output.NumTuples = 12344
	s.Output.NumBatches = 13
	other := s
	s.Add(&other)
	s.MakeDeterministic()
	require.Equal(t, []string{
		"rows read: 24,690",
		"execution time: 1s",
		"batches output: 26",
		"tuples output: 24,688",
	}, s.StatsForQueryPlan())
	require.Equal(t, "24,690", s.Stats()["rows.read"])
}
