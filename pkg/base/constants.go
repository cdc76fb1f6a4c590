// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package base

import "time"

const (
	// DefaultParallelism is the number of instances a source runs with when
	// the configuration does not say otherwise.
	DefaultParallelism = 4

	// MaxParallelism caps the number of instances of one source.
	MaxParallelism = 256

	// DefaultScannerTimeout is how long a catalog scanner may take to produce
	// all of its rows.
	DefaultScannerTimeout = 30 * time.Second
)
