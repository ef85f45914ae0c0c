/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package evals grades chain runs from their agenttrace.Trace records.

# Overview

Every chain run produces a Trace holding the question, each completion call,
each tool call and the outcome. An evaluation is an ObservableTraceCallback: a
function that inspects a completed Trace and reports to an Observer by calling
Fail, Log or Grade. Evaluations are attached to runs through the tracer in
the run's context, so chains need no knowledge of how they are graded.

# Core Components

  - Observer: receives failures, log lines and grades for one evaluation
  - ObservableTraceCallback: a single evaluation of a completed trace
  - Inject: binds an Observer to an evaluation, yielding an agenttrace.TraceCallback
  - NamespacedObserver: a tree of observers, one per "/case/eval" path
  - ResultCollector: an Observer that keeps failures and grades for reporting
  - MetricsObserver: an Observer that exports counts and grades to Prometheus
  - LogObserver: an Observer that writes through the clog logger
  - Suite and Case: YAML-defined questions with their expectations

# Evaluation Helpers

Tool usage:

	evals.ExactToolCalls(2)
	evals.RangeToolCalls(1, 3)
	evals.RequiredToolCalls("search")
	evals.OnlyToolCalls("search", "calculator")

Outcome:

	evals.NoErrors()
	evals.FailsWith(chain.ReasonIterationLimitExceeded)
	evals.MaximumCompletions(4)

Answers, graded as well as checked:

	evals.AnswerEquals("Muhammad Ali")
	evals.AnswerContains("George", "Washington")

# Running a Suite

	suite, err := evals.LoadSuite("testdata/compositional.yaml")
	if err != nil {
		return err
	}
	obs := evals.NewNamespacedObserver(func(name string) *evals.ResultCollector {
		return evals.NewResultCollector(evals.NewLogObserver(ctx, name))
	})
	results, err := evals.Run(ctx, loop, suite, obs, 4)

Each case's run is evaluated under obs.Child(case.Name), with one child per
expectation. The report package renders the resulting tree. Case criteria
are graded only when Run is given WithCaseEvals, typically with
judge.CaseEvals.

A suite file looks like:

	name: compositional
	cases:
	  - name: longevity
	    question: Who lived longer, Muhammad Ali or Alan Turing?
	    answer: Muhammad Ali
	    min_tool_calls: 1
	    tools: [search]
	    criteria: [factual accuracy]
	  - name: runaway
	    question: Keep asking?
	    failure: iteration_limit_exceeded

# Testing Integration

The testevals package adapts *testing.T to Observer so the same evaluations
fail Go tests directly.
*/
package evals
