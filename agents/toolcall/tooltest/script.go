/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package tooltest provides a scripted toolcall.Invoker for tests.
package tooltest

import (
	"context"
	"errors"
	"slices"
	"sync"

	"chainguard.dev/selfask/agents/toolcall"
)

// ErrExhausted is the cause reported when a Script runs out of responses.
var ErrExhausted = errors.New("tool script exhausted")

// Response is one scripted reply.
type Response struct {
	Answer string
	Err    error
}

// Answer returns a Response that succeeds with text.
func Answer(text string) Response {
	return Response{Answer: text}
}

// Error returns a Response that fails with err.
func Error(err error) Response {
	return Response{Err: err}
}

// Script replays responses in order, one per Invoke call, and records the
// queries it receives.
type Script struct {
	// Name is reported in ToolError.Tool. Defaults to "script".
	Name string
	// OnInvoke, if set, is called with each query before the response is
	// returned. Tests use it to cancel the run mid-flight.
	OnInvoke func(ctx context.Context, query string)

	mu        sync.Mutex
	responses []Response
	queries   []string
}

var _ toolcall.Invoker = (*Script)(nil)

// New returns a Script that replays responses.
func New(responses ...Response) *Script {
	return &Script{responses: responses}
}

// Answers returns a Script that succeeds with each of answers in turn.
func Answers(answers ...string) *Script {
	s := &Script{}
	for _, a := range answers {
		s.responses = append(s.responses, Answer(a))
	}
	return s
}

// Invoke implements toolcall.Invoker.
func (s *Script) Invoke(ctx context.Context, query string) (string, error) {
	if s.OnInvoke != nil {
		s.OnInvoke(ctx, query)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.Name
	if name == "" {
		name = "script"
	}
	s.queries = append(s.queries, query)
	n := len(s.queries)
	if n > len(s.responses) {
		return "", &toolcall.ToolError{Tool: name, Cause: ErrExhausted}
	}
	r := s.responses[n-1]
	if r.Err != nil {
		return "", &toolcall.ToolError{Tool: name, Cause: r.Err}
	}
	return r.Answer, nil
}

// Queries returns the queries received so far.
func (s *Script) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queries)
}
