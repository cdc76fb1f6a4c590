// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters of the source operators of a server.
type Metrics struct {
	// RowsEmitted counts rows delivered in blocks.
	RowsEmitted prometheus.Counter
	// BlocksEmitted counts non-empty blocks delivered.
	BlocksEmitted prometheus.Counter
	// OpenFailures counts row sources that could not be opened.
	OpenFailures prometheus.Counter
	// SourceErrors counts row sources that failed mid-stream.
	SourceErrors prometheus.Counter
	// ActiveInstances is the number of operator instances between Init and
	// Close.
	ActiveInstances prometheus.Gauge
	// PollLatency is the time spent producing one block.
	PollLatency prometheus.Histogram
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RowsEmitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pipexec",
			Subsystem: "source",
			Name:      "rows_emitted_total",
			Help:      "Number of rows emitted by source operators.",
		}),
		BlocksEmitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pipexec",
			Subsystem: "source",
			Name:      "blocks_emitted_total",
			Help:      "Number of non-empty blocks emitted by source operators.",
		}),
		OpenFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pipexec",
			Subsystem: "source",
			Name:      "open_failures_total",
			Help:      "Number of row sources that could not be opened.",
		}),
		SourceErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pipexec",
			Subsystem: "source",
			Name:      "errors_total",
			Help:      "Number of row sources that failed while producing rows.",
		}),
		ActiveInstances: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "pipexec",
			Subsystem: "source",
			Name:      "active_instances",
			Help:      "Number of source operator instances currently initialized.",
		}),
		PollLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pipexec",
			Subsystem: "source",
			Name:      "poll_duration_seconds",
			Help:      "Time spent producing one block.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}
