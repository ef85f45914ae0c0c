/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Chains provides OpenTelemetry metrics for chain runs.
type Chains struct {
	runs          metric.Int64Counter
	iterations    metric.Int64Histogram
	parseFailures metric.Int64Counter
	regenerations metric.Int64Counter
}

// NewChains creates chain run metrics with the specified meter name.
func NewChains(meterName string) *Chains {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	runs, err := meter.Int64Counter("selfask.runs",
		metric.WithDescription("The number of chain runs, by outcome"),
		metric.WithUnit("{runs}"))
	if err != nil {
		slog.Warn("Failed to create runs counter, metrics will be disabled", "error", err, "meter", meterName)
		runs = noop.Int64Counter{}
	}

	iterations, err := meter.Int64Histogram("selfask.iterations",
		metric.WithDescription("Tool cycles per chain run"),
		metric.WithUnit("{iterations}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 4, 6, 8, 12, 16))
	if err != nil {
		slog.Warn("Failed to create iterations histogram, metrics will be disabled", "error", err, "meter", meterName)
		iterations = noop.Int64Histogram{}
	}

	parseFailures, err := meter.Int64Counter("selfask.parse_failures",
		metric.WithDescription("Model outputs that matched no recognized marker"),
		metric.WithUnit("{outputs}"))
	if err != nil {
		slog.Warn("Failed to create parse failure counter, metrics will be disabled", "error", err, "meter", meterName)
		parseFailures = noop.Int64Counter{}
	}

	regenerations, err := meter.Int64Counter("selfask.regenerations",
		metric.WithDescription("Completions re-issued with a format reminder"),
		metric.WithUnit("{requests}"))
	if err != nil {
		slog.Warn("Failed to create regeneration counter, metrics will be disabled", "error", err, "meter", meterName)
		regenerations = noop.Int64Counter{}
	}

	return &Chains{
		runs:          runs,
		iterations:    iterations,
		parseFailures: parseFailures,
		regenerations: regenerations,
	}
}

// RecordRun records the end of a run. outcome is "success" or a failure reason.
func (m *Chains) RecordRun(ctx context.Context, chain, outcome string, iterations int) {
	opt := metric.WithAttributes(
		attribute.String("chain", chain),
		attribute.String("outcome", outcome),
	)
	m.runs.Add(ctx, 1, opt)
	m.iterations.Record(ctx, int64(iterations), opt)
}

// RecordParseFailure records a model output that could not be parsed.
func (m *Chains) RecordParseFailure(ctx context.Context, chain string) {
	m.parseFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("chain", chain)))
}

// RecordRegeneration records a completion re-issued after a parse failure.
func (m *Chains) RecordRegeneration(ctx context.Context, chain string) {
	m.regenerations.Add(ctx, 1, metric.WithAttributes(attribute.String("chain", chain)))
}
