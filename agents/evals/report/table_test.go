/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report_test

import (
	"strings"
	"testing"

	"chainguard.dev/selfask/agents/evals"
	"chainguard.dev/selfask/agents/evals/report"
)

func TestTable(t *testing.T) {
	obs := newObserver()
	observe(obs.Child("capital").Child("answer"), 1, nil, evals.Grade{Score: 1, Reasoning: "exact match"})
	observe(obs.Child("longevity").Child("answer"), 1, []string{"wrong"}, evals.Grade{Score: 0, Reasoning: "mismatch"})

	got, hasFailure := report.Table(obs, 0.8)
	t.Logf("Generated table:\n%s", got)

	if !hasFailure {
		t.Error("hasFailure: got = false, wanted = true")
	}
	for _, want := range []string{"Evaluation", "capital/answer", "❌ longevity/answer", "100.0% (1/1)", "0.0% (0/1)", "1.00", "0.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("Table: got = %q, wanted it to contain %q", got, want)
		}
	}
	if strings.Contains(got, "❌ capital") {
		t.Errorf("Table: got = %q, wanted capital/answer unmarked", got)
	}
}

func TestByEval(t *testing.T) {
	obs := newObserver()
	observe(obs.Child("capital").Child("no-errors"), 1, nil)
	observe(obs.Child("longevity").Child("no-errors"), 1, nil)
	observe(obs.Child("capital").Child("answer"), 1, nil, evals.Grade{Score: 1, Reasoning: "exact"})
	observe(obs.Child("longevity").Child("answer"), 1, []string{"wrong"}, evals.Grade{Score: 0, Reasoning: "mismatch"})

	got, hasFailure := report.ByEval(obs, 0.8)
	t.Logf("Generated table:\n%s", got)

	if !hasFailure {
		t.Error("hasFailure: got = false, wanted = true")
	}
	for _, want := range []string{"❌ answer", "50.0% (1/2)", "0.50", "no-errors", "100.0% (2/2)"} {
		if !strings.Contains(got, want) {
			t.Errorf("ByEval: got = %q, wanted it to contain %q", got, want)
		}
	}
	if strings.Contains(got, "❌ no-errors") {
		t.Errorf("ByEval: got = %q, wanted no-errors unmarked", got)
	}
}

func TestTablesEmpty(t *testing.T) {
	for name, gen := range map[string]report.Generator{"Table": report.Table, "ByEval": report.ByEval} {
		if got, hasFailure := gen(newObserver(), 0.8); got != "" || hasFailure {
			t.Errorf("%s(empty): got = (%q, %v), wanted = (\"\", false)", name, got, hasFailure)
		}
	}
}
