/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
)

type tracerKey struct{}

// Tracer is the interface for creating and managing traces
type Tracer interface {
	// NewTrace creates a new trace for the given question
	NewTrace(ctx context.Context, question string) *Trace
	// RecordTrace records a completed trace
	RecordTrace(trace *Trace)
}

// WithTracer returns a new context with the given tracer
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// TracerFromContext returns the tracer from the context, or creates a default tracer
func TracerFromContext(ctx context.Context) Tracer {
	if tracer, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return tracer
	}
	return NewDefaultTracer(ctx)
}

// StartTrace starts a new trace using the tracer from the context
func StartTrace(ctx context.Context, question string) *Trace {
	return TracerFromContext(ctx).NewTrace(ctx, question)
}
