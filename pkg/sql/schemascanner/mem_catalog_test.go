// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package schemascanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCatalog = `
databases:
- name: shop
  character_set: utf8mb4
  collation: utf8mb4_general_ci
  tables:
  - name: orders
    engine: InnoDB
    rows: 120
    create_time: 2024-02-03T04:05:06Z
    comment: customer orders
    columns:
    - {name: id, type: BIGINT, nullable: false}
    - {name: customer, type: VARCHAR(64), nullable: true, default: anonymous}
    - {name: total, type: "DECIMAL(10,2)", nullable: false}
  - name: customers
    columns:
    - {name: id, type: BIGINT, nullable: false}
  - name: order_totals
    type: VIEW
    columns:
    - {name: total, type: "DECIMAL(10,2)", nullable: true}
- name: audit
  character_set: latin1
  collation: latin1_swedish_ci
  tables:
  - name: events
    columns:
    - {name: at, type: TIMESTAMP, nullable: false}
variables:
  max_connections: "151"
  version: "8.0.36"
  autocommit: "ON"
`

func TestMemCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0644))
	c, err := LoadMemCatalog(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	dbs, err := c.Databases(ctx)
	require.NoError(t, err)
	require.Equal(t, []DatabaseInfo{
		{Name: "audit", CharacterSet: "latin1", Collation: "latin1_swedish_ci"},
		{Name: "shop", CharacterSet: "utf8mb4", Collation: "utf8mb4_general_ci"},
	}, dbs)

	tables, err := c.Tables(ctx, "shop")
	require.NoError(t, err)
	var names []string
	for _, tbl := range tables {
		names = append(names, tbl.Name)
		require.Nil(t, tbl.Columns)
	}
	require.Equal(t, []string{"customers", "order_totals", "orders"}, names)
	require.Equal(t, int64(120), *tables[2].Rows)
	require.Equal(t, 2024, tables[2].CreateTime.Year())

	tables, err = c.Tables(ctx, "missing")
	require.NoError(t, err)
	require.Empty(t, tables)

	cols, err := c.Columns(ctx, "shop", "orders")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	require.Equal(t, "anonymous", *cols[1].Default)
	cols, err = c.Columns(ctx, "shop", "")
	require.NoError(t, err)
	require.Nil(t, cols)

	vars, err := c.GlobalVariables(ctx)
	require.NoError(t, err)
	require.Equal(t, []Variable{
		{Name: "autocommit", Value: "ON"},
		{Name: "max_connections", Value: "151"},
		{Name: "version", Value: "8.0.36"},
	}, vars)
}

func TestMemCatalogErrors(t *testing.T) {
	c := NewMemCatalog()
	require.Error(t, c.AddDatabase(DatabaseInfo{}))
	require.Error(t, c.AddTable("nope", TableInfo{Name: "t"}))
	require.NoError(t, c.AddDatabase(DatabaseInfo{Name: "db"}))
	require.Error(t, c.AddTable("db", TableInfo{}))

	_, err := ParseMemCatalog([]byte("databases: [{name: a, bogus: 1}]"))
	require.Error(t, err)
	_, err = LoadMemCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
