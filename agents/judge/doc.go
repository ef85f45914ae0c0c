/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package judge grades chain answers with a model, using a rubric and a
// single criterion per judgment.
//
// # Overview
//
// The judge package provides:
//   - A common Interface for LLM judges
//   - New, which judges with any completion.Client
//   - Golden mode, which compares an answer to a reference answer
//   - Standalone mode, which scores an answer against a criterion alone
//   - Integration with the evals package through NewGoldenEval and NewStandaloneEval
//
// The judge replies in plain lines, which the package parses:
//
//	Score: 0.75
//	Reasoning: The answer names the right person but not the year.
//	Suggestion: Include the year of death.
//
// # Usage
//
//	client, err := dispatch.New(ctx, dispatch.Config{Model: "gemini-2.5-flash"})
//	if err != nil {
//		return err
//	}
//	j, err := judge.New(client)
//	if err != nil {
//		return err
//	}
//	tracer := evals.BuildTracer(obs, map[string]evals.ObservableTraceCallback{
//		"accuracy": judge.NewGoldenEval(j, "factual accuracy", "Muhammad Ali"),
//	})
//
// Judges hold no per-call state and are safe for concurrent use.
package judge
