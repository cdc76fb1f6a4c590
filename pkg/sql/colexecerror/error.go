// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colexecerror

import (
	"context"

	"github.com/cockroachdb/errors"
)

// The sentinels below exist so that errors built by this package can be
// marked with them, allowing the kind of an error to be detected with
// errors.Is even after it has been wrapped.
var (
	// ErrInvalidPlan marks malformed or missing plan parameters.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrSchemaResolution marks unknown tuple or slot references.
	ErrSchemaResolution = errors.New("schema resolution error")
	// ErrSourceUnavailable marks a row source that could not be opened or
	// failed mid-stream.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrInvalidOperatorState marks a lifecycle method invoked outside of its
	// valid position. It always indicates a bug in the caller.
	ErrInvalidOperatorState = errors.New("invalid operator state")
)

// Kind classifies the errors returned by operators.
type Kind int

const (
	// KindOther is any error not built by this package, including context
	// cancellation.
	KindOther Kind = iota
	// KindInvalidPlan is the kind of ErrInvalidPlan.
	KindInvalidPlan
	// KindSchemaResolution is the kind of ErrSchemaResolution.
	KindSchemaResolution
	// KindSourceUnavailable is the kind of ErrSourceUnavailable.
	KindSourceUnavailable
	// KindInvalidOperatorState is the kind of ErrInvalidOperatorState.
	KindInvalidOperatorState
)

func (k Kind) String() string {
	switch k {
	case KindInvalidPlan:
		return "InvalidPlan"
	case KindSchemaResolution:
		return "SchemaResolutionError"
	case KindSourceUnavailable:
		return "SourceUnavailable"
	case KindInvalidOperatorState:
		return "InvalidOperatorState"
	default:
		return "Other"
	}
}

// KindOf returns the kind of err. A nil error is KindOther.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOther
	case errors.Is(err, ErrInvalidOperatorState):
		return KindInvalidOperatorState
	case errors.Is(err, ErrInvalidPlan):
		return KindInvalidPlan
	case errors.Is(err, ErrSchemaResolution):
		return KindSchemaResolution
	case errors.Is(err, ErrSourceUnavailable):
		return KindSourceUnavailable
	default:
		return KindOther
	}
}

// NewInvalidPlanf returns an InvalidPlan error.
func NewInvalidPlanf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidPlan)
}

// WrapInvalidPlanf marks cause as an InvalidPlan error.
func WrapInvalidPlanf(cause error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(cause, format, args...), ErrInvalidPlan)
}

// NewSchemaResolutionErrorf returns a SchemaResolutionError.
func NewSchemaResolutionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrSchemaResolution)
}

// WrapSchemaResolutionf marks cause as a SchemaResolutionError.
func WrapSchemaResolutionf(cause error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(cause, format, args...), ErrSchemaResolution)
}

// NewSourceUnavailable wraps an error returned by a row source. Context
// cancellation is returned unchanged so that callers can tell an abandoned
// query from a failing source.
func NewSourceUnavailable(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return errors.Mark(errors.Newf(format, args...), ErrSourceUnavailable)
	}
	if errors.Is(cause, context.Canceled) {
		return cause
	}
	return errors.Mark(errors.Wrapf(cause, format, args...), ErrSourceUnavailable)
}

// NewInvalidOperatorStatef returns an InvalidOperatorState error. It is an
// assertion failure: it carries a stack trace and is reported as a bug.
func NewInvalidOperatorStatef(format string, args ...interface{}) error {
	return errors.Mark(errors.AssertionFailedf(format, args...), ErrInvalidOperatorState)
}
