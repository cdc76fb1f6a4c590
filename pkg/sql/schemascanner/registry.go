// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package schemascanner

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
)

// Kind describes one catalog table that can be scanned.
type Kind struct {
	// Name is the table name used by plans, matched case-insensitively.
	Name    string
	Columns []ColumnDesc
	// NeedsCatalog is set for kinds whose rows come from the Catalog. Opening
	// such a scanner pings the catalog.
	NeedsCatalog bool
	// Populate generates the rows of the table eagerly.
	Populate func(ctx context.Context, p *Param, pusher RowPusher) error
}

// Registry maps table names to scanner kinds. A Registry is populated before
// plans are compiled and only read afterwards.
type Registry struct {
	kinds map[string]*Kind
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// Register adds a kind to the registry.
func (r *Registry) Register(k Kind) error {
	if k.Name == "" || k.Populate == nil || len(k.Columns) == 0 {
		return errors.AssertionFailedf("incomplete scanner kind %q", k.Name)
	}
	key := strings.ToLower(k.Name)
	if _, ok := r.kinds[key]; ok {
		return errors.AssertionFailedf("scanner kind %q registered twice", k.Name)
	}
	r.kinds[key] = &k
	return nil
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (*Kind, bool) {
	k, ok := r.kinds[strings.ToLower(name)]
	return k, ok
}

// Kinds returns the registered kinds ordered by name.
func (r *Registry) Kinds() []*Kind {
	res := make([]*Kind, 0, len(r.kinds))
	for _, k := range r.kinds {
		res = append(res, k)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// NewScanner constructs an unopened scanner for the named table.
func (r *Registry) NewScanner(name string) (SchemaScanner, error) {
	k, ok := r.Lookup(name)
	if !ok {
		return nil, errors.Newf("unknown schema table %q", name)
	}
	return &generatorScanner{kind: k}, nil
}

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	for _, k := range builtinKinds {
		if err := r.Register(k); err != nil {
			panic(err)
		}
	}
	return r
}()

// DefaultRegistry returns the registry of the built-in catalog tables.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// generatorScanner runs the Populate function of a kind as a worker and
// serves its rows lazily.
type generatorScanner struct {
	kind *Kind

	next    generator
	cleanup func()
	done    bool
	closed  bool
}

var _ SchemaScanner = &generatorScanner{}

// Columns implements the SchemaScanner interface.
func (s *generatorScanner) Columns() []ColumnDesc {
	return s.kind.Columns
}

// Open implements the SchemaScanner interface.
func (s *generatorScanner) Open(ctx context.Context, p *Param) error {
	if s.closed {
		return errors.AssertionFailedf("scanner %s opened after close", s.kind.Name)
	}
	if s.next != nil {
		return errors.AssertionFailedf("scanner %s opened twice", s.kind.Name)
	}
	if p == nil || p.CommonParam == nil {
		return errors.AssertionFailedf("scanner %s opened without parameters", s.kind.Name)
	}
	if s.kind.NeedsCatalog {
		if p.Catalog == nil {
			return errors.Newf("no catalog configured for %s", s.kind.Name)
		}
		if err := p.Catalog.Ping(ctx); err != nil {
			return errors.Wrap(err, "contacting catalog")
		}
	}
	// The rows outlive the Open call, so the generator only inherits the
	// values of ctx. It is stopped by Close or by the timeout.
	genCtx := context.WithoutCancel(ctx)
	var cancelTimeout context.CancelFunc = func() {}
	if p.Timeout > 0 {
		genCtx, cancelTimeout = context.WithTimeout(genCtx, p.Timeout)
	}
	next, cleanup := setupGenerator(genCtx, func(ctx context.Context, pusher RowPusher) error {
		return s.kind.Populate(ctx, p, pusher)
	})
	s.next = next
	s.cleanup = func() {
		cleanup()
		cancelTimeout()
	}
	return nil
}

// GetNextRow implements the SchemaScanner interface.
func (s *generatorScanner) GetNextRow(ctx context.Context) (tree.Datums, error) {
	if s.next == nil || s.closed {
		return nil, errors.AssertionFailedf("scanner %s is not open", s.kind.Name)
	}
	if s.done {
		return nil, nil
	}
	row, err := s.next(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		s.done = true
		return nil, nil
	}
	if len(row) != len(s.kind.Columns) {
		return nil, errors.AssertionFailedf("scanner %s produced %d values, expected %d",
			s.kind.Name, len(row), len(s.kind.Columns))
	}
	return row, nil
}

// Close implements the SchemaScanner interface.
func (s *generatorScanner) Close(context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cleanup != nil {
		s.cleanup()
	}
	return nil
}
