/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"time"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/chain"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Case is one question and the expectations its run is checked against.
// Every expectation that is set becomes a named evaluation under the case.
type Case struct {
	Name     string `yaml:"name"`
	Question string `yaml:"question"`
	// Answer must match the final answer, ignoring case and trailing punctuation.
	Answer string `yaml:"answer,omitempty"`
	// Contains lists substrings the final answer must include.
	Contains []string `yaml:"contains,omitempty"`
	// MinToolCalls and MaxToolCalls bound the number of tool invocations.
	MinToolCalls *int `yaml:"min_tool_calls,omitempty"`
	MaxToolCalls *int `yaml:"max_tool_calls,omitempty"`
	// Tools lists the only tools the run may call.
	Tools []string `yaml:"tools,omitempty"`
	// Failure, when set, is the chain.Reason the run is expected to fail with.
	Failure chain.Reason `yaml:"failure,omitempty"`
	// Criteria are free-form qualities a model judge grades the answer on.
	// They only take effect when Run is given WithCaseEvals.
	Criteria []string `yaml:"criteria,omitempty"`
}

// Evals returns the named evaluations this case's expectations imply.
func (c Case) Evals() map[string]ObservableTraceCallback {
	evals := make(map[string]ObservableTraceCallback)
	if c.Failure != "" {
		evals["failure"] = FailsWith(c.Failure)
	} else {
		evals["no-errors"] = NoErrors()
	}
	if c.Answer != "" {
		evals["answer"] = AnswerEquals(c.Answer)
	}
	if len(c.Contains) > 0 {
		evals["contains"] = AnswerContains(c.Contains...)
	}
	switch {
	case c.MinToolCalls != nil && c.MaxToolCalls != nil:
		evals["tool-calls"] = RangeToolCalls(*c.MinToolCalls, *c.MaxToolCalls)
	case c.MinToolCalls != nil:
		evals["tool-calls"] = MinimumNToolCalls(*c.MinToolCalls)
	case c.MaxToolCalls != nil:
		evals["tool-calls"] = MaximumNToolCalls(*c.MaxToolCalls)
	}
	if len(c.Tools) > 0 {
		evals["tools"] = OnlyToolCalls(c.Tools...)
	}
	return evals
}

// Suite is a named set of cases, usually loaded from YAML.
type Suite struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// ParseSuite decodes and validates a YAML suite. Unknown fields are errors.
func ParseSuite(data []byte) (*Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Suite
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding suite: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSuite reads a YAML suite from path.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks that every case is named uniquely and asks a question.
func (s *Suite) Validate() error {
	if len(s.Cases) == 0 {
		return errors.New("suite has no cases")
	}
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("case %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate case name %q", c.Name)
		}
		seen[c.Name] = true
		if c.Question == "" {
			return fmt.Errorf("case %q has no question", c.Name)
		}
		if c.MinToolCalls != nil && c.MaxToolCalls != nil && *c.MinToolCalls > *c.MaxToolCalls {
			return fmt.Errorf("case %q: min_tool_calls exceeds max_tool_calls", c.Name)
		}
	}
	return nil
}

// Result is the outcome of running one case.
type Result struct {
	Case     string        `json:"case"`
	Answer   chain.Answer  `json:"answer"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// RunOption configures Run.
type RunOption func(*runOptions)

type runOptions struct {
	extra []func(Case) map[string]ObservableTraceCallback
}

// WithCaseEvals adds the evaluations fn returns for each case to the ones
// Case.Evals implies. Names fn returns replace built-in ones.
func WithCaseEvals(fn func(Case) map[string]ObservableTraceCallback) RunOption {
	return func(o *runOptions) {
		o.extra = append(o.extra, fn)
	}
}

func (o *runOptions) evals(tc Case) map[string]ObservableTraceCallback {
	evals := tc.Evals()
	for _, fn := range o.extra {
		maps.Copy(evals, fn(tc))
	}
	return evals
}

// Run asks every case's question of c, at most concurrency at a time, and
// evaluates each run under observer.Child(case name). Failed runs are
// recorded in the results rather than aborting the suite; Run only returns an
// error when ctx ends first.
func Run[O Observer](ctx context.Context, c chain.Chain, suite *Suite, observer *NamespacedObserver[O], concurrency int, opts ...RunOption) ([]Result, error) {
	var ro runOptions
	for _, opt := range opts {
		opt(&ro)
	}
	results := make([]Result, len(suite.Cases))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, tc := range suite.Cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cctx := agenttrace.WithTracer(gctx, BuildTracer(observer.Child(tc.Name), ro.evals(tc)))
			execCtx := agenttrace.GetExecutionContext(cctx)
			execCtx.EvalCase = tc.Name
			cctx = agenttrace.WithExecutionContext(cctx, execCtx)

			start := time.Now()
			answer, err := c.Run(cctx, tc.Question)
			results[i] = Result{Case: tc.Name, Answer: answer, Err: err, Duration: time.Since(start)}

			log := clog.FromContext(ctx).With("case", tc.Name).With("duration", results[i].Duration)
			if err != nil {
				log.With("error", err).Info("Case finished with error")
			} else {
				log.With("answer", answer.Text).Info("Case finished")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
