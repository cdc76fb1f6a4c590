// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfra

import (
	"context"
	"sort"

	"github.com/cockroachdb/pipexec/pkg/sql/execinfrapb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/cockroachdb/pipexec/pkg/sql/execinfra"

// ProcessorSpan starts the span of one operator instance. The caller must
// end it with FinishProcessorSpan.
func ProcessorSpan(
	ctx context.Context, state *RuntimeState, name string, opID int32, taskIdx int,
) (context.Context, trace.Span) {
	var tracer trace.Tracer
	if state.Cfg != nil && state.Cfg.Tracer != nil {
		tracer = state.Cfg.Tracer
	} else {
		tracer = otel.Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("query.id", state.QueryID.String()),
		attribute.Int64("fragment.id", int64(state.FragmentID)),
		attribute.Int64("op.id", int64(opID)),
		attribute.Int("task", taskIdx),
	))
}

// FinishProcessorSpan records the statistics of an operator instance on its
// span and ends it.
func FinishProcessorSpan(span trace.Span, stats *execinfrapb.ComponentStats) {
	if stats != nil && span.IsRecording() {
		tags := stats.Stats()
		keys := make([]string, 0, len(tags))
		for k := range tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs := make([]attribute.KeyValue, 0, len(keys))
		for _, k := range keys {
			attrs = append(attrs, attribute.String("stats."+k, tags[k]))
		}
		span.SetAttributes(attrs...)
	}
	span.End()
}
