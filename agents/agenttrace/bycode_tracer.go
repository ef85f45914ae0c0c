/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// TraceCallback is a function that receives completed traces
type TraceCallback func(*Trace)

type byCodeTracer struct {
	callbacks []TraceCallback
}

// ByCode creates a Tracer that invokes the given callbacks when traces are recorded
func ByCode(callbacks ...TraceCallback) Tracer {
	return &byCodeTracer{callbacks: callbacks}
}

// NewTrace creates a new trace with the given question
func (t *byCodeTracer) NewTrace(ctx context.Context, question string) *Trace {
	return newTraceWithTracer(ctx, t, question)
}

// RecordTrace invokes all callbacks with the completed trace in parallel
func (t *byCodeTracer) RecordTrace(trace *Trace) {
	g := new(errgroup.Group)
	for _, callback := range t.callbacks {
		if callback != nil {
			g.Go(func() error {
				callback(trace)
				return nil
			})
		}
	}
	// Callbacks never return errors.
	_ = g.Wait()
}
