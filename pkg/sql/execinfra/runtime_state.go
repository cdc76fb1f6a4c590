// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfra

import (
	"context"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/catalog/descpb"
	"github.com/cockroachdb/pipexec/pkg/sql/schemascanner"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// SessionData is the session state of the query a fragment belongs to.
type SessionData struct {
	// CurrentDatabase scopes catalog scans that do not name a database.
	CurrentDatabase string
	User            string
	UserIP          string
	ThreadID        int64
	// Variables are the session variables.
	Variables map[string]string
}

// ServerConfig encompasses the configuration required to create an
// execution runtime. It is shared by all fragments.
type ServerConfig struct {
	// Catalog is the catalog scanned by schema scans.
	Catalog schemascanner.Catalog
	// Scanners is the registry of scannable tables. If nil, the default
	// registry is used.
	Scanners *schemascanner.Registry
	// Metrics is where operators record their activity. If nil, nothing is
	// recorded.
	Metrics *Metrics
	// Tracer creates the spans of operator instances. If nil, the global
	// tracer provider is used.
	Tracer trace.Tracer
}

// ScannerRegistry returns the registry of scannable tables.
func (cfg *ServerConfig) ScannerRegistry() *schemascanner.Registry {
	if cfg == nil || cfg.Scanners == nil {
		return schemascanner.DefaultRegistry()
	}
	return cfg.Scanners
}

// RuntimeState is the runtime context of one fragment. It is shared by every
// task of the fragment and is read-only once execution starts.
type RuntimeState struct {
	QueryID    uuid.UUID
	FragmentID int32

	Session     *SessionData
	Descriptors *descpb.DescriptorTable
	Cfg         *ServerConfig

	// BatchSize is the maximum number of rows per block. Zero means the
	// default batch size.
	BatchSize int
	// ScannerTimeout bounds the lifetime of every row source. Zero means no
	// bound.
	ScannerTimeout time.Duration
}

// NewRuntimeState returns the runtime context of a fragment with a fresh
// query id.
func NewRuntimeState(
	fragmentID int32, session *SessionData, descs *descpb.DescriptorTable, cfg *ServerConfig,
) *RuntimeState {
	if session == nil {
		session = &SessionData{}
	}
	if cfg == nil {
		cfg = &ServerConfig{}
	}
	return &RuntimeState{
		QueryID:     uuid.New(),
		FragmentID:  fragmentID,
		Session:     session,
		Descriptors: descs,
		Cfg:         cfg,
	}
}

// GetBatchSize returns the number of rows per block, bounded by
// coldata.MaxBatchSize.
func (s *RuntimeState) GetBatchSize() int {
	switch {
	case s.BatchSize <= 0:
		return coldata.DefaultBatchSize()
	case s.BatchSize > coldata.MaxBatchSize:
		return coldata.MaxBatchSize
	default:
		return s.BatchSize
	}
}

// AnnotateCtx adds the query and fragment identifiers to ctx as log tags.
func (s *RuntimeState) AnnotateCtx(ctx context.Context) context.Context {
	ctx = logtags.AddTag(ctx, "q", shortID(s.QueryID))
	return logtags.AddTag(ctx, "f", s.FragmentID)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
