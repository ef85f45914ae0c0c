/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"fmt"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/evals"
)

// NewGoldenEval creates an evaluation that grades a run's answer against
// goldenAnswer for criterion. callbacks observe the judge's own traces.
func NewGoldenEval(j Interface, criterion, goldenAnswer string, callbacks ...agenttrace.TraceCallback) evals.ObservableTraceCallback {
	return judgeEval(j, GoldenMode, criterion, goldenAnswer, callbacks)
}

// NewStandaloneEval creates an evaluation that grades a run's answer for
// criterion alone.
func NewStandaloneEval(j Interface, criterion string, callbacks ...agenttrace.TraceCallback) evals.ObservableTraceCallback {
	return judgeEval(j, StandaloneMode, criterion, "", callbacks)
}

func judgeEval(j Interface, mode JudgmentMode, criterion, reference string, callbacks []agenttrace.TraceCallback) evals.ObservableTraceCallback {
	return func(o evals.Observer, trace *agenttrace.Trace) {
		if trace.Error != nil {
			o.Fail(fmt.Sprintf("Failed to extract answer: run failed: %v", trace.Error))
			return
		}
		if trace.Answer == "" {
			o.Fail("Failed to extract answer: trace has no answer")
			return
		}

		// The judge's own trace goes to callbacks rather than the tracer of the
		// run being judged; the execution context keeps metrics labeled.
		ctx := agenttrace.WithTracer(context.Background(), agenttrace.ByCode(callbacks...))
		ctx = agenttrace.WithExecutionContext(ctx, trace.ExecContext)
		resp, err := j.Judge(ctx, &Request{
			Mode:            mode,
			Question:        trace.Question,
			ReferenceAnswer: reference,
			ActualAnswer:    trace.Answer,
			Criterion:       criterion,
		})
		if err != nil {
			o.Fail(fmt.Sprintf("Judge failed: %v", err))
			return
		}

		o.Grade(resp.Score, resp.Reasoning)
		for _, suggestion := range resp.Suggestions {
			o.Log(fmt.Sprintf("  Suggestion: %s", suggestion))
		}
	}
}

// CaseEvals returns the judge evaluations for a suite case, one per
// criterion, for use with evals.WithCaseEvals. Cases with an expected answer
// are judged in golden mode.
func CaseEvals(j Interface) func(evals.Case) map[string]evals.ObservableTraceCallback {
	return func(c evals.Case) map[string]evals.ObservableTraceCallback {
		m := make(map[string]evals.ObservableTraceCallback, len(c.Criteria))
		for _, criterion := range c.Criteria {
			name := "judge: " + criterion
			if c.Answer != "" {
				m[name] = NewGoldenEval(j, criterion, c.Answer)
			} else {
				m[name] = NewStandaloneEval(j, criterion)
			}
		}
		return m
	}
}
