// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package schemascan

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecerror"
	"github.com/cockroachdb/pipexec/pkg/sql/colexecop"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfra"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"github.com/cockroachdb/pipexec/pkg/sql/schemascanner"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
	"github.com/cockroachdb/pipexec/pkg/util/log"
	"go.opentelemetry.io/otel/trace"
)

// SchemaScanLocalState is one running instance of a SchemaScanOperatorX. It
// exclusively owns its scanner.
type SchemaScanLocalState struct {
	parent *SchemaScanOperatorX
	st     colexecop.State
	info   colexecop.LocalStateInfo

	param   schemascanner.Param
	scanner schemascanner.SchemaScanner
	// lookahead is a row pulled past the end of the previous block.
	lookahead tree.Datums
	// emitted is the number of rows delivered in blocks.
	emitted int64

	metrics *execinfra.Metrics
	span    trace.Span
	stats   execinfrapb.ComponentStats
}

var _ colexecop.LocalState = &SchemaScanLocalState{}

// Parent implements the colexecop.LocalState interface.
func (s *SchemaScanLocalState) Parent() colexecop.OperatorX {
	return s.parent
}

// State implements the colexecop.LocalState interface.
func (s *SchemaScanLocalState) State() colexecop.State {
	return s.st
}

// Stats returns the statistics collected by the instance so far.
func (s *SchemaScanLocalState) Stats() execinfrapb.ComponentStats {
	return s.stats
}

// Init implements the colexecop.LocalState interface. The descriptor must be
// prepared.
func (s *SchemaScanLocalState) Init(
	ctx context.Context, state *execinfra.RuntimeState, info colexecop.LocalStateInfo,
) error {
	if err := s.st.Check("Init", colexecop.StateCreated); err != nil {
		return err
	}
	p := s.parent
	if p.state != colexecop.StatePrepared && p.state != colexecop.StateOpened {
		return colexecerror.NewInvalidOperatorStatef(
			"schema scan %d: descriptor not prepared (state %s)", p.id, p.state)
	}
	scanner, err := state.Cfg.ScannerRegistry().NewScanner(p.tableName)
	if err != nil {
		return colexecerror.WrapInvalidPlanf(err, "schema scan %d", p.id)
	}
	s.info = info
	s.param = schemascanner.Param{
		CommonParam: p.common,
		Database:    p.common.DB,
		Timeout:     state.ScannerTimeout,
		TaskIndex:   info.TaskIndex,
		NumTasks:    info.NumTasks,
	}
	if sd := state.Session; sd != nil {
		if s.param.Database == "" {
			s.param.Database = sd.CurrentDatabase
		}
		s.param.SessionVariables = sd.Variables
	}
	if state.Cfg != nil {
		s.param.Catalog = state.Cfg.Catalog
		s.metrics = state.Cfg.Metrics
	}
	s.scanner = scanner
	s.stats.ComponentID = p.id
	s.stats.TaskIndex = info.TaskIndex
	_, s.span = execinfra.ProcessorSpan(ctx, state, "schema scan", p.id, info.TaskIndex)
	if s.metrics != nil {
		s.metrics.ActiveInstances.Inc()
	}
	s.st = colexecop.StateInitialized
	log.VEventf(s.annotateCtx(ctx), 2, "initialized scanner for %s", p.tableName)
	return nil
}

// Open implements the colexecop.LocalState interface. It opens the scanner,
// which may contact the catalog.
func (s *SchemaScanLocalState) Open(ctx context.Context, state *execinfra.RuntimeState) error {
	if err := s.st.Check("Open", colexecop.StateInitialized); err != nil {
		return err
	}
	start := time.Now()
	err := s.scanner.Open(ctx, &s.param)
	s.stats.OpenTime += time.Since(start)
	if err != nil {
		if s.metrics != nil {
			s.metrics.OpenFailures.Inc()
		}
		return colexecerror.NewSourceUnavailable(err,
			"schema scan %d: opening scanner for %s", s.parent.id, s.parent.tableName)
	}
	s.st = colexecop.StateOpened
	return nil
}

// Close implements the colexecop.LocalState interface. The scanner is
// released even when closing it fails.
func (s *SchemaScanLocalState) Close(ctx context.Context, state *execinfra.RuntimeState) error {
	if s.st == colexecop.StateClosed {
		return nil
	}
	prev := s.st
	s.st = colexecop.StateClosed
	s.lookahead = nil
	if prev == colexecop.StateCreated {
		return nil
	}
	var err error
	if s.scanner != nil {
		err = s.scanner.Close(ctx)
		s.scanner = nil
	}
	if s.metrics != nil {
		s.metrics.ActiveInstances.Dec()
	}
	execinfra.FinishProcessorSpan(s.span, &s.stats)
	if log.V(2) {
		log.Infof(s.annotateCtx(ctx), "closed in state %s: %s", prev, s.stats.StatsForQueryPlan())
	}
	if err != nil {
		return errors.Wrapf(err, "schema scan %d: closing scanner", s.parent.id)
	}
	return nil
}

func (s *SchemaScanLocalState) annotateCtx(ctx context.Context) context.Context {
	ctx = logtags.AddTag(ctx, "op", s.parent.id)
	return logtags.AddTag(ctx, "task", s.info.TaskIndex)
}

// nextRow returns the next row of the scanner, or nil once it is exhausted.
func (s *SchemaScanLocalState) nextRow(ctx context.Context) (tree.Datums, error) {
	if row := s.lookahead; row != nil {
		s.lookahead = nil
		return row, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, err := s.scanner.GetNextRow(ctx)
	if err != nil {
		return nil, colexecerror.NewSourceUnavailable(err,
			"schema scan %d: reading %s", s.parent.id, s.parent.tableName)
	}
	if row != nil {
		s.stats.RowsRead++
	}
	return row, nil
}

// finish completes a block of n rows.
func (s *SchemaScanLocalState) finish(
	b coldata.Batch, n int, start time.Time, ss colexecop.SourceState,
) colexecop.SourceState {
	b.SetLength(n)
	elapsed := time.Since(start)
	s.emitted += int64(n)
	s.stats.ExecTime += elapsed
	s.stats.Output.NumTuples += uint64(n)
	if n > 0 {
		s.stats.Output.NumBatches++
	}
	if s.metrics != nil {
		s.metrics.RowsEmitted.Add(float64(n))
		if n > 0 {
			s.metrics.BlocksEmitted.Inc()
		}
		s.metrics.PollLatency.Observe(elapsed.Seconds())
	}
	if ss == colexecop.SourceStateFinished {
		s.st = colexecop.StateExhausted
	} else {
		s.st = colexecop.StatePolling
	}
	return ss
}

// fail ends the production of the instance. The rows already written to b
// are not delivered.
func (s *SchemaScanLocalState) fail(b coldata.Batch, err error) (colexecop.SourceState, error) {
	b.SetLength(0)
	s.st = colexecop.StateExhausted
	if s.metrics != nil && colexecerror.KindOf(err) == colexecerror.KindSourceUnavailable {
		s.metrics.SourceErrors.Inc()
	}
	return colexecop.SourceStateFinished, err
}
