/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/chain"
)

// ExactToolCalls returns an ObservableTraceCallback that validates the trace has exactly n tool calls.
func ExactToolCalls(n int) ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		if got := len(trace.ToolCalls); got != n {
			o.Fail(fmt.Sprintf("tool call count: got = %d, wanted = %d", got, n))
		}
	}
}

// MinimumNToolCalls returns an ObservableTraceCallback that validates the trace has at least n tool calls.
func MinimumNToolCalls(n int) ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		if got := len(trace.ToolCalls); got < n {
			o.Fail(fmt.Sprintf("tool call count: got = %d, wanted >= %d", got, n))
		}
	}
}

// MaximumNToolCalls returns an ObservableTraceCallback that validates the trace has at most n tool calls.
func MaximumNToolCalls(n int) ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		if got := len(trace.ToolCalls); got > n {
			o.Fail(fmt.Sprintf("tool call count: got = %d, wanted <= %d", got, n))
		}
	}
}

// RangeToolCalls returns an ObservableTraceCallback that validates the trace has between lo and hi tool calls (inclusive).
func RangeToolCalls(lo, hi int) ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		if got := len(trace.ToolCalls); got < lo || got > hi {
			o.Fail(fmt.Sprintf("tool call count: got = %d, wanted = %d..%d", got, lo, hi))
		}
	}
}

// NoToolCalls returns an ObservableTraceCallback that validates the trace has no tool calls.
func NoToolCalls() ObservableTraceCallback {
	return ExactToolCalls(0)
}

// OnlyToolCalls returns an ObservableTraceCallback that validates the trace only uses the specified tools.
func OnlyToolCalls(toolNames ...string) ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		for _, tc := range trace.ToolCalls {
			if !slices.Contains(toolNames, tc.Tool) {
				o.Fail(fmt.Sprintf("unexpected tool call %q, only allowed: %v", tc.Tool, toolNames))
				return
			}
		}
	}
}

// RequiredToolCalls returns an ObservableTraceCallback that validates the trace uses all of the specified tools at least once.
func RequiredToolCalls(toolNames ...string) ObservableTraceCallback {
	baseRequired := make(map[string]struct{}, len(toolNames))
	for _, name := range toolNames {
		baseRequired[name] = struct{}{}
	}

	return func(o Observer, trace *agenttrace.Trace) {
		required := maps.Clone(baseRequired)
		for _, tc := range trace.ToolCalls {
			delete(required, tc.Tool)
		}
		if len(required) > 0 {
			missing := slices.Sorted(maps.Keys(required))
			o.Fail(fmt.Sprintf("missing required tool calls: %v", missing))
		}
	}
}

// ToolCallValidator creates an ObservableTraceCallback that validates individual tool calls using a custom validator function.
func ToolCallValidator(validator func(o Observer, tc *agenttrace.ToolCall) error) ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		for i, tc := range trace.ToolCalls {
			if err := validator(o, tc); err != nil {
				o.Fail(fmt.Sprintf("tool call %d (%s) validation failed: %v", i, tc.Tool, err))
				return
			}
		}
	}
}

// NoErrors returns an ObservableTraceCallback that validates neither the run
// nor any tool call failed.
func NoErrors() ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		if trace.Error != nil {
			o.Fail(fmt.Sprintf("trace error: got = %v, wanted = nil", trace.Error))
			return
		}
		for _, tc := range trace.ToolCalls {
			if tc.Error != nil {
				o.Fail(fmt.Sprintf("tool call %s error: got = %v, wanted = nil", tc.Tool, tc.Error))
				return
			}
		}
	}
}

// FailsWith returns an ObservableTraceCallback that validates the run failed
// for the given reason.
func FailsWith(reason chain.Reason) ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		if got := chain.ReasonOf(trace.Error); got != reason {
			o.Fail(fmt.Sprintf("failure reason: got = %q (%v), wanted = %q", got, trace.Error, reason))
		}
	}
}

// MaximumCompletions returns an ObservableTraceCallback that validates the run
// made at most n completion calls.
func MaximumCompletions(n int) ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		if got := len(trace.Completions); got > n {
			o.Fail(fmt.Sprintf("completion count: got = %d, wanted <= %d", got, n))
		}
	}
}

// normalizeAnswer folds case and surrounding whitespace and punctuation so that
// "Tokyo." matches "tokyo".
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(s), ".!\"'"))
}

// AnswerEquals returns an ObservableTraceCallback that grades the answer 1.0
// when it matches want, ignoring case and trailing punctuation, and fails it
// otherwise.
func AnswerEquals(want string) ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		if trace.Error != nil {
			o.Fail(fmt.Sprintf("answer: got error %v, wanted = %q", trace.Error, want))
			return
		}
		if normalizeAnswer(trace.Answer) != normalizeAnswer(want) {
			o.Grade(0, fmt.Sprintf("answer %q does not match %q", trace.Answer, want))
			o.Fail(fmt.Sprintf("answer: got = %q, wanted = %q", trace.Answer, want))
			return
		}
		o.Grade(1, "exact match")
	}
}

// AnswerContains returns an ObservableTraceCallback that grades the answer by
// the fraction of substrings it contains, case-insensitively, and fails it
// unless all are present.
func AnswerContains(substrings ...string) ObservableTraceCallback {
	return func(o Observer, trace *agenttrace.Trace) {
		if trace.Error != nil {
			o.Fail(fmt.Sprintf("answer: got error %v, wanted text containing %q", trace.Error, substrings))
			return
		}
		if len(substrings) == 0 {
			return
		}
		answer := strings.ToLower(trace.Answer)
		var missing []string
		for _, s := range substrings {
			if !strings.Contains(answer, strings.ToLower(s)) {
				missing = append(missing, s)
			}
		}
		score := float64(len(substrings)-len(missing)) / float64(len(substrings))
		if len(missing) > 0 {
			o.Grade(score, fmt.Sprintf("missing %q", missing))
			o.Fail(fmt.Sprintf("answer %q: missing %q", trace.Answer, missing))
			return
		}
		o.Grade(score, "contains all expected text")
	}
}

// BuildCallbacks creates a list of TraceCallbacks from a namespaced observer and evaluation map.
// This helper injects each evaluation function with a child observer to create
// TraceCallbacks that can be used with ByCode or other tracers.
func BuildCallbacks[O Observer](observer *NamespacedObserver[O], evalMap map[string]ObservableTraceCallback) []agenttrace.TraceCallback {
	callbacks := make([]agenttrace.TraceCallback, 0, len(evalMap))
	for name, evalFunc := range evalMap {
		callbacks = append(callbacks, Inject(observer.Child(name), evalFunc))
	}
	return callbacks
}

// BuildTracer creates a ByCode tracer from a namespaced observer and evaluation map.
func BuildTracer[O Observer](observer *NamespacedObserver[O], evalMap map[string]ObservableTraceCallback) agenttrace.Tracer {
	return agenttrace.ByCode(BuildCallbacks(observer, evalMap)...)
}
