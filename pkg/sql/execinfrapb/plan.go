// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfrapb

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/sql/catalog/descpb"
	"gopkg.in/yaml.v2"
)

// PlanNodeType is the kind of a compiled plan node.
type PlanNodeType string

// SchemaScanNodeType is the only source node kind this package describes.
const SchemaScanNodeType PlanNodeType = "SCHEMA_SCAN_NODE"

// SchemaScanNode carries the parameters of a catalog scan. Every field but
// TableName and TupleID is optional and scopes the scan.
type SchemaScanNode struct {
	// TableName is the catalog table to enumerate, e.g. "tables".
	TableName string `yaml:"table_name"`
	// TupleID references the output tuple in the descriptor table.
	TupleID descpb.TupleID `yaml:"tuple_id"`

	DB       string `yaml:"db,omitempty"`
	Wild     string `yaml:"wild,omitempty"`
	User     string `yaml:"user,omitempty"`
	UserIP   string `yaml:"user_ip,omitempty"`
	IP       string `yaml:"ip,omitempty"`
	Port     int32  `yaml:"port,omitempty"`
	ThreadID int64  `yaml:"thread_id,omitempty"`
	Table    string `yaml:"table,omitempty"`
	Catalog  string `yaml:"catalog,omitempty"`
}

// PlanNode is one node of a compiled fragment.
type PlanNode struct {
	NodeID   int32        `yaml:"node_id"`
	NodeType PlanNodeType `yaml:"node_type"`
	// Limit caps the number of rows each instance emits; 0 means no limit.
	Limit          int64           `yaml:"limit,omitempty"`
	SchemaScanNode *SchemaScanNode `yaml:"schema_scan_node,omitempty"`
}

// Fragment is the unit of a compiled plan: a descriptor table plus the source
// node that reads from it.
type Fragment struct {
	FragmentID  int32                  `yaml:"fragment_id"`
	Descriptors descpb.DescriptorTable `yaml:"descriptors"`
	Node        PlanNode               `yaml:"node"`
}

// ParseFragment decodes a YAML fragment.
func ParseFragment(data []byte) (*Fragment, error) {
	f := &Fragment{}
	if err := yaml.UnmarshalStrict(data, f); err != nil {
		return nil, errors.Wrap(err, "parsing fragment")
	}
	return f, nil
}

// LoadFragment reads and decodes the YAML fragment stored at path.
func LoadFragment(path string) (*Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading fragment %s", path)
	}
	return ParseFragment(data)
}
