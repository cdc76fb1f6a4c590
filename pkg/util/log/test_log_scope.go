// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestLogScope represents the lifetime of a logging output redirection for
// a test. Its Close method restores the previous logger.
type TestLogScope struct {
	prev          *zap.Logger
	prevVerbosity int32
}

// Scope redirects all log output to the test's log for the duration of the
// test. Use as follows:
//
//	defer log.Scope(t).Close(t)
func Scope(t testing.TB) *TestLogScope {
	s := &TestLogScope{prev: logger.Load(), prevVerbosity: verbosity.Load()}
	logger.Store(zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel)).WithOptions(zap.AddCallerSkip(2)))
	return s
}

// Close restores the logger that was in place before Scope.
func (s *TestLogScope) Close(t testing.TB) {
	logger.Store(s.prev)
	SetVerbosity(s.prevVerbosity)
}
