/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// NewDefaultTracer creates a new default tracer that logs to clog
func NewDefaultTracer(ctx context.Context) Tracer {
	logger := clog.FromContext(ctx)

	return ByCode(func(trace *Trace) {
		in, out := trace.TokenUsage()
		logger.With(
			"trace_id", trace.ID,
			"chain", trace.Chain,
			"duration_ms", trace.Duration().Milliseconds(),
			"completions", len(trace.Completions),
			"tool_calls", len(trace.ToolCalls),
			"input_tokens", in,
			"output_tokens", out,
		).Debug("Chain trace completed", "trace", trace.String())
	})
}
