/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"slices"
	"sync"
)

// Grade is one score an evaluation assigned, with its reasoning.
type Grade struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// ResultCollector keeps the failures and grades reported to it so reports can
// be built after a suite finishes. Failures reach the wrapped Observer as log
// lines only, so a collector over testevals does not fail the test twice.
type ResultCollector struct {
	inner Observer

	mu       sync.Mutex
	failures []string
	grades   []Grade
}

var _ Observer = (*ResultCollector)(nil)

// NewResultCollector wraps inner.
func NewResultCollector(inner Observer) *ResultCollector {
	return &ResultCollector{inner: inner}
}

// Fail implements Observer.
func (r *ResultCollector) Fail(msg string) {
	r.inner.Log(msg)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, msg)
}

// Log implements Observer.
func (r *ResultCollector) Log(msg string) {
	r.inner.Log(msg)
}

// Grade implements Observer.
func (r *ResultCollector) Grade(score float64, reasoning string) {
	r.inner.Grade(score, reasoning)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.grades = append(r.grades, Grade{Score: score, Reasoning: reasoning})
}

// Increment implements Observer.
func (r *ResultCollector) Increment() {
	r.inner.Increment()
}

// Total implements Observer.
func (r *ResultCollector) Total() int64 {
	return r.inner.Total()
}

// Failures returns the failure messages in the order they were reported.
func (r *ResultCollector) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.failures)
}

// Grades returns the grades in the order they were reported.
func (r *ResultCollector) Grades() []Grade {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.grades)
}

// PassRate returns the fraction of observed traces that did not fail, or 1
// when nothing was observed.
func (r *ResultCollector) PassRate() float64 {
	total := r.Total()
	if total == 0 {
		return 1
	}
	r.mu.Lock()
	failed := int64(len(r.failures))
	r.mu.Unlock()
	return float64(max(total-failed, 0)) / float64(total)
}

// AverageGrade returns the mean of the collected grades and whether any exist.
func (r *ResultCollector) AverageGrade() (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.grades) == 0 {
		return 0, false
	}
	var sum float64
	for _, g := range r.grades {
		sum += g.Score
	}
	return sum / float64(len(r.grades)), true
}
