/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace records what happened during a chain run.

# Overview

  - ExecutionContext: chain name, run ID and model for trace and metric enrichment
  - Trace: one run from question to answer
  - Completion: one call to a completion backend within a trace
  - ToolCall: one tool invocation within a trace
  - Tracer: creates traces and receives them once complete

Each Trace opens an OpenTelemetry span named "selfask.run". Completions and
tool calls open child spans named "selfask.completion" and "selfask.tool_call".

# Token usage

The context returned by Trace.StartCompletion carries the Completion, so a
backend deep in the call stack can attach usage without knowing about traces:

	agenttrace.RecordTokenUsage(ctx, "claude-sonnet-4", 812, 64)

# Usage

	tracer := agenttrace.ByCode(func(trace *agenttrace.Trace) {
		log.Printf("run %s answered %q", trace.ID, trace.Answer)
	})
	ctx = agenttrace.WithTracer(ctx, tracer)

	trace := agenttrace.StartTrace(ctx, "Who was president when the Eiffel Tower opened?")
	cctx, c := trace.StartCompletion(ctx, prompt, stop)
	out, err := client.Complete(cctx, prompt, stop)
	c.Complete(out, err)
	trace.Complete(answer, nil)
*/
package agenttrace
