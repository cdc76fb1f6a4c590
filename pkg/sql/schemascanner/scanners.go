// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package schemascanner

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

var builtinKinds = []Kind{
	{
		Name: "schemata",
		Columns: []ColumnDesc{
			{Name: "CATALOG_NAME", Type: types.String},
			{Name: "SCHEMA_NAME", Type: types.String},
			{Name: "DEFAULT_CHARACTER_SET_NAME", Type: types.String},
			{Name: "DEFAULT_COLLATION_NAME", Type: types.String},
			{Name: "SQL_PATH", Type: types.String, Nullable: true},
		},
		NeedsCatalog: true,
		Populate:     populateSchemata,
	},
	{
		Name: "tables",
		Columns: []ColumnDesc{
			{Name: "TABLE_CATALOG", Type: types.String},
			{Name: "TABLE_SCHEMA", Type: types.String},
			{Name: "TABLE_NAME", Type: types.String},
			{Name: "TABLE_TYPE", Type: types.String},
			{Name: "ENGINE", Type: types.String, Nullable: true},
			{Name: "TABLE_ROWS", Type: types.Int, Nullable: true},
			{Name: "CREATE_TIME", Type: types.Timestamp, Nullable: true},
			{Name: "TABLE_COMMENT", Type: types.String},
		},
		NeedsCatalog: true,
		Populate:     populateTables,
	},
	{
		Name: "columns",
		Columns: []ColumnDesc{
			{Name: "TABLE_CATALOG", Type: types.String},
			{Name: "TABLE_SCHEMA", Type: types.String},
			{Name: "TABLE_NAME", Type: types.String},
			{Name: "COLUMN_NAME", Type: types.String},
			{Name: "ORDINAL_POSITION", Type: types.Int},
			{Name: "COLUMN_DEFAULT", Type: types.String, Nullable: true},
			{Name: "IS_NULLABLE", Type: types.String},
			{Name: "DATA_TYPE", Type: types.String},
			{Name: "COLUMN_TYPE", Type: types.String},
			{Name: "COLUMN_COMMENT", Type: types.String},
		},
		NeedsCatalog: true,
		Populate:     populateColumns,
	},
	{
		Name:     "session_variables",
		Columns:  variableColumns,
		Populate: populateSessionVariables,
	},
	{
		Name:         "global_variables",
		Columns:      variableColumns,
		NeedsCatalog: true,
		Populate:     populateGlobalVariables,
	},
}

var variableColumns = []ColumnDesc{
	{Name: "VARIABLE_NAME", Type: types.String},
	{Name: "VARIABLE_VALUE", Type: types.String},
}

func dStringOrNull(s string) tree.Datum {
	if s == "" {
		return tree.DNull
	}
	return tree.NewDString(s)
}

func populateSchemata(ctx context.Context, p *Param, pusher RowPusher) error {
	dbs, err := p.Catalog.Databases(ctx)
	if err != nil {
		return err
	}
	for _, db := range dbs {
		if !p.MatchWild(db.Name) {
			continue
		}
		if err := pusher.PushRow(
			tree.NewDString(p.CatalogName),
			tree.NewDString(db.Name),
			tree.NewDString(db.CharacterSet),
			tree.NewDString(db.Collation),
			tree.DNull,
		); err != nil {
			return err
		}
	}
	return nil
}

// forEachDatabase calls fn for the database the scan is scoped to, or for
// every database of the catalog when the scan is unscoped.
func forEachDatabase(ctx context.Context, p *Param, fn func(db string) error) error {
	if p.Database != "" {
		return fn(p.Database)
	}
	dbs, err := p.Catalog.Databases(ctx)
	if err != nil {
		return err
	}
	for _, db := range dbs {
		if err := fn(db.Name); err != nil {
			return err
		}
	}
	return nil
}

func populateTables(ctx context.Context, p *Param, pusher RowPusher) error {
	return forEachDatabase(ctx, p, func(db string) error {
		tables, err := p.Catalog.Tables(ctx, db)
		if err != nil {
			return err
		}
		for _, t := range tables {
			if !p.MatchWild(t.Name) {
				continue
			}
			tableType := t.Type
			if tableType == "" {
				tableType = "BASE TABLE"
			}
			var rows, created tree.Datum = tree.DNull, tree.DNull
			if t.Rows != nil {
				rows = tree.NewDInt(tree.DInt(*t.Rows))
			}
			if !t.CreateTime.IsZero() {
				created = tree.MakeDTimestamp(t.CreateTime)
			}
			if err := pusher.PushRow(
				tree.NewDString(p.CatalogName),
				tree.NewDString(db),
				tree.NewDString(t.Name),
				tree.NewDString(tableType),
				dStringOrNull(t.Engine),
				rows,
				created,
				tree.NewDString(t.Comment),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// dataType returns the base type of a column type, e.g. "varchar" for
// "VARCHAR(64)".
func dataType(columnType string) string {
	if i := strings.IndexByte(columnType, '('); i >= 0 {
		columnType = columnType[:i]
	}
	return strings.ToLower(strings.TrimSpace(columnType))
}

func populateColumns(ctx context.Context, p *Param, pusher RowPusher) error {
	return forEachDatabase(ctx, p, func(db string) error {
		tables, err := p.Catalog.Tables(ctx, db)
		if err != nil {
			return err
		}
		for _, t := range tables {
			if p.Table != "" && !strings.EqualFold(p.Table, t.Name) {
				continue
			}
			if !p.MatchWild(t.Name) {
				continue
			}
			cols, err := p.Catalog.Columns(ctx, db, t.Name)
			if err != nil {
				return err
			}
			for i, c := range cols {
				nullable := "NO"
				if c.Nullable {
					nullable = "YES"
				}
				var def tree.Datum = tree.DNull
				if c.Default != nil {
					def = tree.NewDString(*c.Default)
				}
				if err := pusher.PushRow(
					tree.NewDString(p.CatalogName),
					tree.NewDString(db),
					tree.NewDString(t.Name),
					tree.NewDString(c.Name),
					tree.NewDInt(tree.DInt(i+1)),
					def,
					tree.NewDString(nullable),
					tree.NewDString(dataType(c.Type)),
					tree.NewDString(strings.ToLower(c.Type)),
					tree.NewDString(c.Comment),
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func pushVariables(p *Param, vars []Variable, pusher RowPusher) error {
	for _, v := range vars {
		if !p.MatchWild(v.Name) {
			continue
		}
		if err := pusher.PushRow(tree.NewDString(v.Name), tree.NewDString(v.Value)); err != nil {
			return err
		}
	}
	return nil
}

func populateSessionVariables(_ context.Context, p *Param, pusher RowPusher) error {
	vars := make([]Variable, 0, len(p.SessionVariables))
	for k, v := range p.SessionVariables {
		vars = append(vars, Variable{Name: k, Value: v})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return pushVariables(p, vars, pusher)
}

func populateGlobalVariables(ctx context.Context, p *Param, pusher RowPusher) error {
	vars, err := p.Catalog.GlobalVariables(ctx)
	if err != nil {
		return err
	}
	return pushVariables(p, vars, pusher)
}
