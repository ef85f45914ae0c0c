/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"

	"chainguard.dev/selfask/agents/transcript"
)

// InputKey is the template variable the question is bound to.
const InputKey = "question"

// Chain answers one question per Run. Implementations keep no state between
// runs beyond what their injected collaborators retain, and are safe to call
// concurrently.
type Chain interface {
	Run(ctx context.Context, question string) (Answer, error)
}

// Answer is the successful result of a run.
type Answer struct {
	Text string `json:"text"`
	// Transcript is the full reasoning history, for debugging.
	Transcript []transcript.Segment `json:"transcript,omitempty"`
	// Iterations is the number of tool cycles the run took.
	Iterations int `json:"iterations"`
	// RunID identifies the run in logs and traces.
	RunID string `json:"run_id,omitempty"`
}

// Func adapts a function to the Chain interface.
type Func func(ctx context.Context, question string) (Answer, error)

// Run implements Chain.
func (f Func) Run(ctx context.Context, question string) (Answer, error) {
	return f(ctx, question)
}
