// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package schemascanner

import (
	"context"
	"time"
)

// DatabaseInfo describes one database (schema) of a catalog.
type DatabaseInfo struct {
	Name         string `yaml:"name"`
	CharacterSet string `yaml:"character_set,omitempty"`
	Collation    string `yaml:"collation,omitempty"`
}

// TableInfo describes one table or view of a catalog.
type TableInfo struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type,omitempty"`
	Engine  string `yaml:"engine,omitempty"`
	Comment string `yaml:"comment,omitempty"`
	// Rows is the estimated row count, if known.
	Rows *int64 `yaml:"rows,omitempty"`
	// CreateTime is the zero time if unknown.
	CreateTime time.Time    `yaml:"create_time,omitempty"`
	Columns    []ColumnInfo `yaml:"columns,omitempty"`
}

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name string `yaml:"name"`
	// Type is the SQL type as spelled by the catalog, e.g. "varchar(64)".
	Type     string  `yaml:"type"`
	Nullable bool    `yaml:"nullable"`
	Default  *string `yaml:"default,omitempty"`
	Comment  string  `yaml:"comment,omitempty"`
}

// Variable is a named configuration setting.
type Variable struct {
	Name  string
	Value string
}

// Catalog is the metadata store enumerated by the scanners. Implementations
// must be safe for concurrent use, since every instance of an operator reads
// the same catalog. Results are returned in a stable order.
type Catalog interface {
	// Ping checks that the catalog is reachable.
	Ping(ctx context.Context) error
	// Databases returns the databases ordered by name.
	Databases(ctx context.Context) ([]DatabaseInfo, error)
	// Tables returns the tables of db ordered by name, without columns.
	Tables(ctx context.Context, db string) ([]TableInfo, error)
	// Columns returns the columns of a table in ordinal order.
	Columns(ctx context.Context, db, table string) ([]ColumnInfo, error)
	// GlobalVariables returns the global settings ordered by name.
	GlobalVariables(ctx context.Context) ([]Variable, error)
}
