/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package testevals provides a testing.T adapter for the evals framework.
//
// # Overview
//
// The testevals package adapts *testing.T to the evals.Observer interface so
// evaluation callbacks report failures and log messages through Go's standard
// testing framework.
//
// Two constructors are available:
//   - New(t): Creates a basic adapter
//   - NewPrefix(t, prefix): Creates an adapter that prefixes all messages
//
// # Usage
//
//	func TestSelfAsk(t *testing.T) {
//	    obs := evals.NewNamespacedObserver(func(name string) evals.Observer {
//	        return testevals.NewPrefix(t, name)
//	    })
//
//	    tracer := evals.BuildTracer(obs, map[string]evals.ObservableTraceCallback{
//	        "tool-calls": evals.RangeToolCalls(1, 3),
//	        "answer":     evals.AnswerEquals("Muhammad Ali"),
//	    })
//	    ctx := agenttrace.WithTracer(context.Background(), tracer)
//	    if _, err := loop.Run(ctx, "Who lived longer, Muhammad Ali or Alan Turing?"); err != nil {
//	        t.Fatalf("Run: %v", err)
//	    }
//	}
//
// The observer adapter is safe for concurrent use because it delegates to
// *testing.T.
package testevals
