// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package schemascanner contains the row sources that enumerate catalog
// metadata (schemas, tables, columns and variables). A SchemaScanner is
// driven by exactly one operator instance and is never used concurrently.
package schemascanner

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// DefaultCatalogName is reported in the catalog columns when the plan does
// not name a catalog.
const DefaultCatalogName = "def"

// ColumnDesc describes one column of a scanner's static schema.
type ColumnDesc struct {
	Name     string
	Type     *types.T
	Nullable bool
}

// SchemaScanner is a pull-based source of catalog rows.
type SchemaScanner interface {
	// Open prepares the scanner. It may block while the catalog is contacted.
	Open(ctx context.Context, param *Param) error
	// GetNextRow returns the next row, laid out as Columns(). It returns a
	// nil row and a nil error once the scanner is exhausted.
	GetNextRow(ctx context.Context) (tree.Datums, error)
	// Close releases the scanner. It is safe to call at any point, including
	// before Open and while a row is being produced.
	Close(ctx context.Context) error
	// Columns returns the static schema of the rows.
	Columns() []ColumnDesc
}

// CommonParam holds the scan parameters fixed by the plan. It is shared
// read-only by every instance of an operator.
type CommonParam struct {
	DB       string
	Wild     string
	User     string
	UserIP   string
	IP       string
	Port     int32
	ThreadID int64
	Table    string

	// CatalogName is reported in the catalog columns of the rows.
	CatalogName string

	wild *tree.LikeMatcher
}

// NewCommonParam validates the scan parameters of a plan node.
func NewCommonParam(spec *execinfrapb.SchemaScanNode) (*CommonParam, error) {
	p := &CommonParam{
		DB:          spec.DB,
		Wild:        spec.Wild,
		User:        spec.User,
		UserIP:      spec.UserIP,
		IP:          spec.IP,
		Port:        spec.Port,
		ThreadID:    spec.ThreadID,
		Table:       spec.Table,
		CatalogName: spec.Catalog,
	}
	if p.Port < 0 || p.Port > 65535 {
		return nil, errors.Newf("invalid port %d", p.Port)
	}
	if p.ThreadID < 0 {
		return nil, errors.Newf("invalid thread id %d", p.ThreadID)
	}
	if p.Wild != "" {
		m, err := tree.CompileLike(p.Wild, true /* caseInsensitive */)
		if err != nil {
			return nil, err
		}
		p.wild = m
	}
	if p.CatalogName == "" {
		p.CatalogName = DefaultCatalogName
	}
	return p, nil
}

// MatchWild returns whether name matches the LIKE pattern of the scan. An
// empty pattern matches everything.
func (p *CommonParam) MatchWild(name string) bool {
	return p.wild == nil || p.wild.Match(name)
}

// Param is the parameter block of one scanner instance: the shared plan
// parameters plus the runtime context of the instance.
type Param struct {
	*CommonParam

	// Database is the database the scan is scoped to: the plan's database,
	// or the session's current database when the plan did not pin one. Empty
	// means every database.
	Database string
	// SessionVariables are the variables of the session running the scan.
	SessionVariables map[string]string
	// Catalog is the catalog the scanner enumerates.
	Catalog Catalog
	// Timeout bounds the lifetime of the scanner. Zero means no bound.
	Timeout time.Duration
	// TaskIndex is the index of the task running the scanner among the
	// NumTasks tasks scanning the same table.
	TaskIndex int
	NumTasks  int
}
