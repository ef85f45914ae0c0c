/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Global metrics with consistent dimensions
	evaluationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfask_evaluations_total",
			Help: "Total number of chain evaluations performed",
		},
		[]string{"chain", "namespace"},
	)

	failureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfask_evaluation_failures_total",
			Help: "Total number of failed evaluations",
		},
		[]string{"chain", "namespace"},
	)

	gradeGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "selfask_evaluation_grade",
			Help: "Most recent evaluation grade (0.0-1.0)",
		},
		[]string{"chain", "namespace"},
	)
)

// MetricsObserver implements Observer interface with Prometheus metrics
type MetricsObserver struct {
	chain     string
	namespace string

	// Prometheus metrics with labels
	evalCounter prometheus.Counter
	failCounter prometheus.Counter
	gradeGauge  prometheus.Gauge
}

// NewMetricsObserver creates a metrics observer for the named chain and eval namespace
func NewMetricsObserver(chain, namespace string) *MetricsObserver {
	return &MetricsObserver{
		chain:     chain,
		namespace: namespace,
		evalCounter: evaluationCounter.With(prometheus.Labels{
			"chain":     chain,
			"namespace": namespace,
		}),
		failCounter: failureCounter.With(prometheus.Labels{
			"chain":     chain,
			"namespace": namespace,
		}),
		gradeGauge: gradeGauge.With(prometheus.Labels{
			"chain":     chain,
			"namespace": namespace,
		}),
	}
}

// Increment implements Observer.Increment
func (m *MetricsObserver) Increment() {
	m.evalCounter.Inc()
}

// Fail implements Observer.Fail
func (m *MetricsObserver) Fail(msg string) {
	m.failCounter.Inc()
}

// Grade implements Observer.Grade
func (m *MetricsObserver) Grade(score float64, reasoning string) {
	m.gradeGauge.Set(score)
}

// Log implements Observer.Log (no-op for metrics observer)
func (m *MetricsObserver) Log(msg string) {
	// No-op: metrics observer doesn't log
}

// Total implements Observer.Total. Counts live in Prometheus, so it always
// reports 0.
func (m *MetricsObserver) Total() int64 {
	return 0
}

// RecordMetrics exports every observed namespace of a collected result tree
// through MetricsObserver, so a finished eval run can be scraped or written
// out as a text file.
func RecordMetrics(chain string, obs *NamespacedObserver[*ResultCollector]) {
	obs.Walk(func(name string, c *ResultCollector) {
		total := c.Total()
		if total == 0 {
			return
		}
		m := NewMetricsObserver(chain, name)
		for range total {
			m.Increment()
		}
		for _, f := range c.Failures() {
			m.Fail(f)
		}
		if avg, ok := c.AverageGrade(); ok {
			m.Grade(avg, "average")
		}
	})
}
