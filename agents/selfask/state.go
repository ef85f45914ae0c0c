/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package selfask

import "fmt"

// State is a state of the reasoning loop.
type State int

const (
	StateInit State = iota
	StateGenerating
	StateAwaitingTool
	StateDone
	StateFailed
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateGenerating:
		return "GENERATING"
	case StateAwaitingTool:
		return "AWAITING_TOOL"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
