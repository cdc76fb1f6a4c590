// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package exit defines the exit codes of the command line.
package exit

import "os"

// Code represents an exit code.
type Code struct {
	code int
}

// String implements the fmt.Stringer interface.
func (c Code) String() string { return codeNames[c.code] }

var codeNames = map[int]string{
	0:   "success",
	1:   "error",
	3:   "interrupted",
	4:   "command line flag error",
	124: "source failed",
	125: "plan rejected",
}

// WithCode terminates the process and sets its exit status code to the
// provided code.
func WithCode(code Code) {
	os.Exit(code.code)
}
