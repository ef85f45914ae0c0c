/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"path"
	"strings"

	"chainguard.dev/selfask/agents/evals"
)

// summary is the pass rate and grade average of one namespace.
type summary struct {
	total    int64
	passed   int64
	passRate float64
	grades   []evals.Grade
	avgGrade float64
	failures []string
}

func summarize(c *evals.ResultCollector) summary {
	s := summary{
		total:    c.Total(),
		failures: c.Failures(),
		grades:   c.Grades(),
		passRate: c.PassRate(),
	}
	s.passed = max(s.total-int64(len(s.failures)), 0)
	s.avgGrade, _ = c.AverageGrade()
	return s
}

func (s summary) below(threshold float64) bool {
	return s.passRate < threshold || (len(s.grades) > 0 && s.avgGrade < threshold)
}

// value formats the headline numbers for a namespace.
func (s summary) value() string {
	switch {
	case len(s.failures) > 0 && len(s.grades) > 0:
		return fmt.Sprintf("%.1f%% pass, %.2f avg (%d/%d)", s.passRate*100, s.avgGrade, s.passed, s.total)
	case len(s.grades) > 0:
		word := "results"
		if len(s.grades) == 1 {
			word = "result"
		}
		return fmt.Sprintf("%.2f avg (%d %s)", s.avgGrade, len(s.grades), word)
	default:
		return fmt.Sprintf("%.1f%% (%d/%d)", s.passRate*100, s.passed, s.total)
	}
}

// Simple walks a NamespacedObserver tree and generates an indented report
// showing pass rates, average grades, failures, and below-threshold grades.
// Namespaces without observations appear as headings for their children.
// Returns the report string and a boolean indicating if any evaluations fell below the threshold.
func Simple(obs *evals.NamespacedObserver[*evals.ResultCollector], threshold float64) (string, bool) {
	var sb strings.Builder
	hasFailure := false

	obs.Walk(func(name string, collector *evals.ResultCollector) {
		if name == "/" {
			return
		}
		depth := strings.Count(name, "/") - 1
		indent := strings.Repeat("  ", depth)
		label := path.Base(name)

		s := summarize(collector)
		if s.total == 0 {
			fmt.Fprintf(&sb, "%s%s\n", indent, label)
			return
		}

		value := s.value()
		if s.below(threshold) {
			hasFailure = true
			value = "❌ " + value
		}
		fmt.Fprintf(&sb, "%s%s: %s\n", indent, label, value)

		for _, failure := range s.failures {
			fmt.Fprintf(&sb, "%s  [FAIL] %s\n", indent, failure)
		}
		for _, g := range s.grades {
			if g.Score < threshold {
				fmt.Fprintf(&sb, "%s  [%.2f] %s\n", indent, g.Score, g.Reasoning)
			}
		}
	})

	return sb.String(), hasFailure
}
