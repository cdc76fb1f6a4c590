// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfra

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"github.com/cockroachdb/pipexec/pkg/sql/schemascanner"
	"github.com/cockroachdb/pipexec/pkg/util/leaktest"
	"github.com/cockroachdb/pipexec/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestGetBatchSize(t *testing.T) {
	defer leaktest.AfterTest(t)()

	s := NewRuntimeState(1, nil, nil, nil)
	require.Equal(t, coldata.DefaultBatchSize(), s.GetBatchSize())
	s.BatchSize = 3
	require.Equal(t, 3, s.GetBatchSize())
	s.BatchSize = coldata.MaxBatchSize + 1
	require.Equal(t, coldata.MaxBatchSize, s.GetBatchSize())
	require.NotNil(t, s.Session)
	require.Same(t, schemascanner.DefaultRegistry(), s.Cfg.ScannerRegistry())
}

func TestAnnotateCtx(t *testing.T) {
	defer leaktest.AfterTest(t)()

	s := NewRuntimeState(7, nil, nil, nil)
	ctx := s.AnnotateCtx(context.Background())
	tags := logtags.FromContext(ctx).Get()
	require.Len(t, tags, 2)
	require.Equal(t, "q", tags[0].Key())
	require.Equal(t, s.QueryID.String()[:8], tags[0].ValueStr())
	require.Equal(t, "f", tags[1].Key())
	require.Equal(t, "7", tags[1].ValueStr())
	require.Equal(t, "[q="+s.QueryID.String()[:8]+",f=7] scan",
		log.FormatWithContextTags(ctx, "scan"))
}

func TestMetrics(t *testing.T) {
	defer leaktest.AfterTest(t)()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RowsEmitted.Add(5)
	m.ActiveInstances.Inc()
	m.PollLatency.Observe(0.01)
	require.Equal(t, float64(5), testutil.ToFloat64(m.RowsEmitted))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ActiveInstances))
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	// Registering a second set on the same registry collides.
	require.Panics(t, func() { NewMetrics(reg) })
	// Unregistered metrics are allowed.
	require.NotNil(t, NewMetrics(nil))
}

func TestProcessorSpan(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { require.NoError(t, tp.Shutdown(context.Background())) }()

	s := NewRuntimeState(2, nil, nil, &ServerConfig{Tracer: tp.Tracer("test")})
	_, span := ProcessorSpan(context.Background(), s, "schema scan", 4, 1)
	stats := &execinfrapb.ComponentStats{ComponentID: 4, RowsRead: 10, ExecTime: time.Second}
	FinishProcessorSpan(span, stats)

	ended := sr.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "schema scan", ended[0].Name())
	attrs := make(map[string]string)
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	require.Equal(t, "4", attrs["op.id"])
	require.Equal(t, "1", attrs["task"])
	require.Equal(t, "10", attrs["stats.rows.read"])
	require.Equal(t, "1s", attrs["stats.execution.time"])
}
