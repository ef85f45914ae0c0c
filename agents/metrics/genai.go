/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// GenAI provides OpenTelemetry metrics for completion backends and tools.
// Instruments that fail to initialize degrade to no-ops.
type GenAI struct {
	meter              metric.Meter
	promptTokens       metric.Int64Counter
	completionTokens   metric.Int64Counter
	completionCounter  metric.Int64Counter
	completionDuration metric.Float64Histogram
	toolCallCounter    metric.Int64Counter
	attrEnricher       AttributeEnricher
}

// NewGenAI creates a new GenAI metrics instance with the specified meter name.
//
// The meterName should be shared by all backends (e.g. "chainguard.dev/selfask")
// with the model name as a dimension on the recorded metrics.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	promptTokens, err := meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		promptTokens = noop.Int64Counter{}
	}

	completionTokens, err := meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		completionTokens = noop.Int64Counter{}
	}

	completionCounter, err := meter.Int64Counter("genai.completions",
		metric.WithDescription("The number of completion requests, by outcome"),
		metric.WithUnit("{requests}"))
	if err != nil {
		slog.Warn("Failed to create completion counter, metrics will be disabled", "error", err, "meter", meterName)
		completionCounter = noop.Int64Counter{}
	}

	completionDuration, err := meter.Float64Histogram("genai.completion.duration",
		metric.WithDescription("Latency of completion requests including retries"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("Failed to create completion duration histogram, metrics will be disabled", "error", err, "meter", meterName)
		completionDuration = noop.Float64Histogram{}
	}

	toolCallCounter, err := meter.Int64Counter("genai.tool.calls",
		metric.WithDescription("The number of tool calls made during execution"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create tool call counter, metrics will be disabled", "error", err, "meter", meterName)
		toolCallCounter = noop.Int64Counter{}
	}

	return &GenAI{
		meter:              meter,
		promptTokens:       promptTokens,
		completionTokens:   completionTokens,
		completionCounter:  completionCounter,
		completionDuration: completionDuration,
		toolCallCounter:    toolCallCounter,
	}
}

// SetAttributeEnricher sets the attribute enricher for this metrics instance.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

func (m *GenAI) attributes(ctx context.Context, base []attribute.KeyValue, extra []attribute.KeyValue) metric.MeasurementOption {
	if m.attrEnricher != nil {
		base = m.attrEnricher(ctx, base)
	}
	return metric.WithAttributes(append(base, extra...)...)
}

// RecordTokens records prompt and completion token usage.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	opt := m.attributes(ctx, []attribute.KeyValue{attribute.String("model", model)}, attrs)
	m.promptTokens.Add(ctx, promptTokens, opt)
	m.completionTokens.Add(ctx, completionTokens, opt)
}

// RecordCompletion records one completion request and its latency. err is
// reduced to an outcome of "success" or "error".
func (m *GenAI) RecordCompletion(ctx context.Context, backend, model string, elapsed time.Duration, err error, attrs ...attribute.KeyValue) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	opt := m.attributes(ctx, []attribute.KeyValue{
		attribute.String("backend", backend),
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	}, attrs)
	m.completionCounter.Add(ctx, 1, opt)
	m.completionDuration.Record(ctx, elapsed.Seconds(), opt)
}

// RecordToolCall records a tool invocation.
func (m *GenAI) RecordToolCall(ctx context.Context, model, toolName string, attrs ...attribute.KeyValue) {
	opt := m.attributes(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("tool", toolName),
	}, attrs)
	m.toolCallCounter.Add(ctx, 1, opt)
}
