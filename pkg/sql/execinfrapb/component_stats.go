// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfrapb

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ComponentStats are the statistics collected by one running instance of an
// operator.
type ComponentStats struct {
	ComponentID int32
	TaskIndex   int

	// RowsRead is the number of rows pulled from the row source, including a
	// lookahead row that may not have been emitted yet.
	RowsRead uint64
	// OpenTime is the time spent opening the row source.
	OpenTime time.Duration
	// ExecTime is the time spent producing blocks.
	ExecTime time.Duration

	Output struct {
		NumBatches uint64
		NumTuples  uint64
	}
}

// Stats returns the statistics as tags suitable for a tracing span.
func (s *ComponentStats) Stats() map[string]string {
	result := make(map[string]string, 5)
	s.formatStats(func(key string, value interface{}) {
		// The key becomes a tracing span tag. Replace spaces with dots and use
		// only lowercase characters.
		key = strings.ToLower(strings.ReplaceAll(key, " ", "."))
		result[key] = fmt.Sprint(value)
	})
	return result
}

// StatsForQueryPlan returns the statistics as "key: value" lines.
func (s *ComponentStats) StatsForQueryPlan() []string {
	result := make([]string, 0, 5)
	s.formatStats(func(key string, value interface{}) {
		result = append(result, fmt.Sprintf("%s: %v", key, value))
	})
	return result
}

// formatStats calls fn for each statistic that is set.
func (s *ComponentStats) formatStats(fn func(suffix string, value interface{})) {
	if s.RowsRead != 0 {
		fn("rows read", humanize.Comma(int64(s.RowsRead)))
	}
	if s.OpenTime != 0 {
		fn("open time", s.OpenTime.Round(time.Microsecond))
	}
	if s.ExecTime != 0 {
		fn("execution time", s.ExecTime.Round(time.Microsecond))
	}
	if s.Output.NumBatches != 0 {
		fn("batches output", humanize.Comma(int64(s.Output.NumBatches)))
	}
	if s.Output.NumTuples != 0 {
		fn("tuples output", humanize.Comma(int64(s.Output.NumTuples)))
	}
}

// MakeDeterministic is used only for testing; it replaces the elapsed times
// with fixed values without changing which fields are set.
func (s *ComponentStats) MakeDeterministic() {
	if s.OpenTime != 0 {
		s.OpenTime = time.Millisecond
	}
	if s.ExecTime != 0 {
		s.ExecTime = time.Second
	}
}

// Add accumulates other into s.
func (s *ComponentStats) Add(other *ComponentStats) {
	s.RowsRead += other.RowsRead
	s.OpenTime += other.OpenTime
	s.ExecTime += other.ExecTime
	s.Output.NumBatches += other.Output.NumBatches
	s.Output.NumTuples += other.Output.NumTuples
}
