// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package leaktest provides tools to detect leaked goroutines in tests.
package leaktest

import (
	"testing"

	"go.uber.org/goleak"
)

// AfterTest snapshots the currently-running goroutines and returns a
// function to be run at the end of tests to see whether any goroutines
// leaked. Use as follows:
//
//	defer leaktest.AfterTest(t)()
func AfterTest(t testing.TB) func() {
	opts := []goleak.Option{
		goleak.IgnoreCurrent(),
		// database/sql keeps a connection opener per pool until Close; tests
		// close their pools but the goroutine may still be unwinding.
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	}
	return func() {
		t.Helper()
		// If the test already failed, we don't pile on any more errors.
		if t.Failed() {
			return
		}
		goleak.VerifyNone(t, opts...)
	}
}
