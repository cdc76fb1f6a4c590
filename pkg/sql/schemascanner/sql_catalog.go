// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package schemascanner

import (
	"context"
	gosql "database/sql"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
	// Register the drivers that SQLCatalog can be opened with.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Dialect selects the queries a SQLCatalog issues.
type Dialect int

const (
	// DialectMySQL reads a MySQL-compatible information_schema.
	DialectMySQL Dialect = iota
	// DialectPostgres reads a PostgreSQL-compatible information_schema.
	DialectPostgres
)

// DialectForDriver returns the dialect of a database/sql driver name.
func DialectForDriver(driverName string) (Dialect, error) {
	switch driverName {
	case "mysql":
		return DialectMySQL, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return 0, errors.Newf("unsupported SQL driver %q", driverName)
	}
}

type dialectQueries struct {
	databases string
	tables    string
	columns   string
	variables string
}

var queries = map[Dialect]dialectQueries{
	DialectMySQL: {
		databases: `SELECT SCHEMA_NAME, DEFAULT_CHARACTER_SET_NAME, DEFAULT_COLLATION_NAME
FROM information_schema.SCHEMATA ORDER BY SCHEMA_NAME`,
		tables: `SELECT TABLE_NAME, TABLE_TYPE, ENGINE, TABLE_ROWS, CREATE_TIME, TABLE_COMMENT
FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME`,
		columns: `SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, COLUMN_COMMENT
FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`,
		variables: `SHOW GLOBAL VARIABLES`,
	},
	DialectPostgres: {
		databases: `SELECT schema_name, default_character_set_name, NULL
FROM information_schema.schemata ORDER BY schema_name`,
		tables: `SELECT table_name, table_type, NULL, NULL, NULL, ''
FROM information_schema.tables WHERE table_schema = $1 ORDER BY table_name`,
		columns: `SELECT column_name, data_type, is_nullable, column_default, ''
FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`,
		variables: `SELECT name, setting FROM pg_settings ORDER BY name`,
	},
}

// SQLCatalog is a Catalog backed by the information_schema of a live
// database.
type SQLCatalog struct {
	db      *gosql.DB
	dialect Dialect
	q       dialectQueries
}

var _ Catalog = &SQLCatalog{}

// NewSQLCatalog returns a catalog reading through db. The caller keeps
// ownership of db.
func NewSQLCatalog(db *gosql.DB, dialect Dialect) *SQLCatalog {
	return &SQLCatalog{db: db, dialect: dialect, q: queries[dialect]}
}

// OpenSQLCatalog opens a connection pool with the given driver and returns a
// catalog owning it. The pool is released by Close.
func OpenSQLCatalog(driverName, dsn string) (*SQLCatalog, error) {
	dialect, err := DialectForDriver(driverName)
	if err != nil {
		return nil, err
	}
	if driverName == "postgresql" {
		driverName = "postgres"
	}
	db, err := gosql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s catalog", driverName)
	}
	return NewSQLCatalog(db, dialect), nil
}

// Close releases the connection pool.
func (c *SQLCatalog) Close() error {
	return c.db.Close()
}

// Ping implements the Catalog interface.
func (c *SQLCatalog) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Databases implements the Catalog interface.
func (c *SQLCatalog) Databases(ctx context.Context) ([]DatabaseInfo, error) {
	rows, err := c.db.QueryContext(ctx, c.q.databases)
	if err != nil {
		return nil, errors.Wrap(err, "listing databases")
	}
	defer rows.Close()
	var res []DatabaseInfo
	for rows.Next() {
		var name string
		var charset, collation gosql.NullString
		if err := rows.Scan(&name, &charset, &collation); err != nil {
			return nil, errors.Wrap(err, "listing databases")
		}
		res = append(res, DatabaseInfo{Name: name, CharacterSet: charset.String, Collation: collation.String})
	}
	return res, errors.Wrap(rows.Err(), "listing databases")
}

// Tables implements the Catalog interface.
func (c *SQLCatalog) Tables(ctx context.Context, db string) ([]TableInfo, error) {
	rows, err := c.db.QueryContext(ctx, c.q.tables, db)
	if err != nil {
		return nil, errors.Wrapf(err, "listing tables of %s", db)
	}
	defer rows.Close()
	var res []TableInfo
	for rows.Next() {
		var t TableInfo
		var engine, created, comment gosql.NullString
		var tableRows gosql.NullInt64
		if err := rows.Scan(&t.Name, &t.Type, &engine, &tableRows, &created, &comment); err != nil {
			return nil, errors.Wrapf(err, "listing tables of %s", db)
		}
		t.Engine, t.Comment = engine.String, comment.String
		if tableRows.Valid {
			n := tableRows.Int64
			t.Rows = &n
		}
		if created.Valid {
			ts, err := tree.ParseDTimestamp(created.String)
			if err != nil {
				return nil, errors.Wrapf(err, "create time of %s.%s", db, t.Name)
			}
			t.CreateTime = ts.Time
		}
		res = append(res, t)
	}
	return res, errors.Wrapf(rows.Err(), "listing tables of %s", db)
}

// Columns implements the Catalog interface.
func (c *SQLCatalog) Columns(ctx context.Context, db, table string) ([]ColumnInfo, error) {
	rows, err := c.db.QueryContext(ctx, c.q.columns, db, table)
	if err != nil {
		return nil, errors.Wrapf(err, "listing columns of %s.%s", db, table)
	}
	defer rows.Close()
	var res []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var nullable string
		var def, comment gosql.NullString
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &def, &comment); err != nil {
			return nil, errors.Wrapf(err, "listing columns of %s.%s", db, table)
		}
		col.Nullable = nullable == "YES"
		if def.Valid {
			s := def.String
			col.Default = &s
		}
		col.Comment = comment.String
		res = append(res, col)
	}
	return res, errors.Wrapf(rows.Err(), "listing columns of %s.%s", db, table)
}

// GlobalVariables implements the Catalog interface.
func (c *SQLCatalog) GlobalVariables(ctx context.Context) ([]Variable, error) {
	rows, err := c.db.QueryContext(ctx, c.q.variables)
	if err != nil {
		return nil, errors.Wrap(err, "listing global variables")
	}
	defer rows.Close()
	var res []Variable
	for rows.Next() {
		var v Variable
		if err := rows.Scan(&v.Name, &v.Value); err != nil {
			return nil, errors.Wrap(err, "listing global variables")
		}
		res = append(res, v)
	}
	return res, errors.Wrap(rows.Err(), "listing global variables")
}
