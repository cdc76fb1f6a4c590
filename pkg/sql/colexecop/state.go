// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colexecop

import (
	"fmt"

	"github.com/cockroachdb/pipexec/pkg/sql/colexecerror"
)

// State is the lifecycle position of an operator descriptor or of one of its
// running instances.
//
// Descriptors move through StateCreated, StateInitialized, StatePrepared and
// StateOpened. Instances move through StateCreated, StateInitialized,
// StateOpened, StatePolling and StateExhausted. Both can reach StateClosed
// from any state.
type State int32

const (
	// StateCreated is the state of a freshly constructed object.
	StateCreated State = iota
	// StateInitialized is reached by Init.
	StateInitialized
	// StatePrepared is reached by a descriptor's Prepare.
	StatePrepared
	// StateOpened is reached by Open.
	StateOpened
	// StatePolling is the state of an instance that has produced at least one
	// block and has more to produce.
	StatePolling
	// StateExhausted is the state of an instance that reported
	// SourceStateFinished.
	StateExhausted
	// StateClosed is reached by Close.
	StateClosed
)

var stateNames = [...]string{
	StateCreated:     "CREATED",
	StateInitialized: "INITIALIZED",
	StatePrepared:    "PREPARED",
	StateOpened:      "OPENED",
	StatePolling:     "POLLING",
	StateExhausted:   "EXHAUSTED",
	StateClosed:      "CLOSED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int32(s))
	}
	return stateNames[s]
}

// Check returns an InvalidOperatorState error unless s is one of allowed.
// method names the lifecycle method being entered.
func (s State) Check(method string, allowed ...State) error {
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return colexecerror.NewInvalidOperatorStatef("%s called in state %s", method, s)
}

// SourceState is the completion signal attached to every block produced by a
// source.
type SourceState int32

const (
	// SourceStateMoreData indicates that more blocks will follow.
	SourceStateMoreData SourceState = iota
	// SourceStateFinished indicates that the block is the last one. It may be
	// partially filled or empty.
	SourceStateFinished
)

func (s SourceState) String() string {
	switch s {
	case SourceStateMoreData:
		return "MORE_AVAILABLE"
	case SourceStateFinished:
		return "FINISHED"
	default:
		return fmt.Sprintf("SourceState(%d)", int32(s))
	}
}
