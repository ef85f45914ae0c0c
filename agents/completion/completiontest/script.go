/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package completiontest provides a scripted completion.Client for tests.
package completiontest

import (
	"context"
	"errors"
	"slices"
	"sync"

	"chainguard.dev/selfask/agents/completion"
)

// ErrExhausted is the cause reported when a Script runs out of responses.
var ErrExhausted = errors.New("completion script exhausted")

// Response is one scripted reply.
type Response struct {
	Output string
	Err    error
}

// Output returns a Response that succeeds with text.
func Output(text string) Response {
	return Response{Output: text}
}

// Error returns a Response that fails with err.
func Error(err error) Response {
	return Response{Err: err}
}

// Call records the arguments of one Complete call.
type Call struct {
	Prompt string
	Stop   []string
}

// Script replays responses in order, one per Complete call, and records every
// call it receives. Outputs are truncated at the stop sequences like a real
// backend would.
type Script struct {
	mu        sync.Mutex
	responses []Response
	calls     []Call
}

var _ completion.Client = (*Script)(nil)

// New returns a Script that replays responses.
func New(responses ...Response) *Script {
	return &Script{responses: responses}
}

// Outputs returns a Script that succeeds with each of outputs in turn.
func Outputs(outputs ...string) *Script {
	s := &Script{}
	for _, o := range outputs {
		s.responses = append(s.responses, Output(o))
	}
	return s
}

// Complete implements completion.Client.
func (s *Script) Complete(_ context.Context, prompt string, stop []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Prompt: prompt, Stop: slices.Clone(stop)})
	n := len(s.calls)
	if n > len(s.responses) {
		return "", &completion.BackendError{Backend: "script", Cause: ErrExhausted}
	}
	r := s.responses[n-1]
	if r.Err != nil {
		return "", &completion.BackendError{Backend: "script", Cause: r.Err}
	}
	return completion.Truncate(r.Output, stop), nil
}

// Calls returns the calls received so far.
func (s *Script) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// Prompts returns the prompt of each call received so far.
func (s *Script) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Prompt)
	}
	return out
}
