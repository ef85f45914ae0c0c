/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace_test

import (
	"context"
	"sync/atomic"
	"testing"

	"chainguard.dev/selfask/agents/agenttrace"
)

func TestByCode(t *testing.T) {
	var got *agenttrace.Trace
	tracer := agenttrace.ByCode(func(trace *agenttrace.Trace) {
		got = trace
	})

	trace := tracer.NewTrace(context.Background(), "q")
	trace.Complete("a", nil)

	if got != trace {
		t.Errorf("callback trace: got = %v, wanted = %v", got, trace)
	}
}

func TestByCodeWithNilCallback(t *testing.T) {
	tracer := agenttrace.ByCode(nil)
	// Must not panic.
	tracer.NewTrace(context.Background(), "q").Complete("a", nil)
}

func TestByCodeWithMultipleCallbacks(t *testing.T) {
	var calls atomic.Int32
	cb := func(*agenttrace.Trace) { calls.Add(1) }
	tracer := agenttrace.ByCode(cb, cb, cb)

	tracer.NewTrace(context.Background(), "q").Complete("a", nil)

	if got := calls.Load(); got != 3 {
		t.Errorf("callback count: got = %d, wanted = 3", got)
	}
}

func TestEnrichAttributes(t *testing.T) {
	ec := agenttrace.ExecutionContext{ChainName: "llm-math", RunID: "unbounded", Model: "gpt-4o"}
	attrs := ec.EnrichAttributes(nil)
	if len(attrs) != 2 {
		t.Fatalf("EnrichAttributes(): got = %d attrs, wanted = 2", len(attrs))
	}
	for _, a := range attrs {
		if a.Key == "run_id" {
			t.Errorf("EnrichAttributes() included unbounded key %q", a.Key)
		}
	}
}
