// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package schemascanner

import (
	"context"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/util/syncutil"
	"github.com/google/btree"
	"gopkg.in/yaml.v2"
)

// catalogItem is an entry of the in-memory catalog. Databases are stored
// under an empty table name so that they sort before their tables.
type catalogItem struct {
	db    string
	table string

	dbInfo  DatabaseInfo
	tblInfo TableInfo
}

var _ btree.Item = &catalogItem{}

// Less implements the btree.Item interface.
func (i *catalogItem) Less(than btree.Item) bool {
	o := than.(*catalogItem)
	if i.db != o.db {
		return i.db < o.db
	}
	return i.table < o.table
}

// MemCatalog is a Catalog held in memory and ordered by (database, table).
type MemCatalog struct {
	mu struct {
		syncutil.RWMutex
		tree      *btree.BTree
		variables map[string]string
	}
}

var _ Catalog = &MemCatalog{}

// NewMemCatalog returns an empty in-memory catalog.
func NewMemCatalog() *MemCatalog {
	c := &MemCatalog{}
	c.mu.tree = btree.New(8 /* degree */)
	c.mu.variables = make(map[string]string)
	return c
}

// memCatalogFile is the YAML layout of a catalog fixture.
type memCatalogFile struct {
	Databases []struct {
		DatabaseInfo `yaml:",inline"`
		Tables       []TableInfo `yaml:"tables"`
	} `yaml:"databases"`
	Variables map[string]string `yaml:"variables"`
}

// ParseMemCatalog builds an in-memory catalog from its YAML description.
func ParseMemCatalog(data []byte) (*MemCatalog, error) {
	var f memCatalogFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrap(err, "parsing catalog")
	}
	c := NewMemCatalog()
	for _, db := range f.Databases {
		if err := c.AddDatabase(db.DatabaseInfo); err != nil {
			return nil, err
		}
		for _, tbl := range db.Tables {
			if err := c.AddTable(db.Name, tbl); err != nil {
				return nil, err
			}
		}
	}
	for k, v := range f.Variables {
		c.SetVariable(k, v)
	}
	return c, nil
}

// LoadMemCatalog reads the YAML catalog description stored at path.
func LoadMemCatalog(path string) (*MemCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading catalog %s", path)
	}
	return ParseMemCatalog(data)
}

// AddDatabase adds a database, replacing any database of the same name.
func (c *MemCatalog) AddDatabase(info DatabaseInfo) error {
	if info.Name == "" {
		return errors.New("database name must not be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.tree.ReplaceOrInsert(&catalogItem{db: info.Name, dbInfo: info})
	return nil
}

// AddTable adds a table to an existing database.
func (c *MemCatalog) AddTable(db string, info TableInfo) error {
	if info.Name == "" {
		return errors.Newf("table name in database %q must not be empty", db)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mu.tree.Get(&catalogItem{db: db}) == nil {
		return errors.Newf("database %q does not exist", db)
	}
	c.mu.tree.ReplaceOrInsert(&catalogItem{db: db, table: info.Name, tblInfo: info})
	return nil
}

// SetVariable sets a global variable.
func (c *MemCatalog) SetVariable(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.variables[name] = value
}

// Ping implements the Catalog interface.
func (c *MemCatalog) Ping(context.Context) error {
	return nil
}

// Databases implements the Catalog interface.
func (c *MemCatalog) Databases(context.Context) ([]DatabaseInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var res []DatabaseInfo
	c.mu.tree.Ascend(func(i btree.Item) bool {
		if item := i.(*catalogItem); item.table == "" {
			res = append(res, item.dbInfo)
		}
		return true
	})
	return res, nil
}

// Tables implements the Catalog interface.
func (c *MemCatalog) Tables(_ context.Context, db string) ([]TableInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var res []TableInfo
	c.mu.tree.AscendGreaterOrEqual(&catalogItem{db: db}, func(i btree.Item) bool {
		item := i.(*catalogItem)
		if item.db != db {
			return false
		}
		if item.table != "" {
			tbl := item.tblInfo
			tbl.Columns = nil
			res = append(res, tbl)
		}
		return true
	})
	return res, nil
}

// Columns implements the Catalog interface.
func (c *MemCatalog) Columns(_ context.Context, db, table string) ([]ColumnInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.mu.tree.Get(&catalogItem{db: db, table: table})
	if i == nil || table == "" {
		return nil, nil
	}
	return append([]ColumnInfo(nil), i.(*catalogItem).tblInfo.Columns...), nil
}

// GlobalVariables implements the Catalog interface.
func (c *MemCatalog) GlobalVariables(context.Context) ([]Variable, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := make([]Variable, 0, len(c.mu.variables))
	for k, v := range c.mu.variables {
		res = append(res, Variable{Name: k, Value: v})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}
