/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func withReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	t.Cleanup(func() { otel.SetMeterProvider(prev) })
	return reader
}

// sums collects every int64 sum data point, keyed by metric name.
func sums(t *testing.T, reader *sdkmetric.ManualReader) map[string][]metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	out := make(map[string][]metricdata.DataPoint[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if s, ok := m.Data.(metricdata.Sum[int64]); ok {
				out[m.Name] = append(out[m.Name], s.DataPoints...)
			}
		}
	}
	return out
}

func total(points []metricdata.DataPoint[int64]) int64 {
	var n int64
	for _, p := range points {
		n += p.Value
	}
	return n
}

func TestGenAI(t *testing.T) {
	reader := withReader(t)
	m := metrics.NewGenAI("test")
	m.SetAttributeEnricher(metrics.ExecutionContextEnricher)

	ctx := agenttrace.WithExecutionContext(context.Background(), agenttrace.ExecutionContext{ChainName: "self-ask-with-search"})
	m.RecordTokens(ctx, "claude-sonnet-4", 100, 10)
	m.RecordTokens(ctx, "claude-sonnet-4", 50, 5)
	m.RecordCompletion(ctx, "claude", "claude-sonnet-4", time.Second, nil)
	m.RecordCompletion(ctx, "claude", "claude-sonnet-4", time.Second, errors.New("boom"))
	m.RecordToolCall(ctx, "claude-sonnet-4", "search")

	got := sums(t, reader)
	for name, want := range map[string]int64{
		"genai.token.prompt":     150,
		"genai.token.completion": 15,
		"genai.completions":      2,
		"genai.tool.calls":       1,
	} {
		if n := total(got[name]); n != want {
			t.Errorf("%s: got = %d, wanted = %d", name, n, want)
		}
	}

	if n := len(got["genai.completions"]); n != 2 {
		t.Errorf("genai.completions series: got = %d, wanted = 2 (one per outcome)", n)
	}
	for _, p := range got["genai.token.prompt"] {
		if v, ok := p.Attributes.Value(attribute.Key("chain")); !ok || v.AsString() != "self-ask-with-search" {
			t.Errorf("chain attribute: got = %v, wanted = %q", v, "self-ask-with-search")
		}
	}
}

func TestChains(t *testing.T) {
	reader := withReader(t)
	m := metrics.NewChains("test")

	ctx := context.Background()
	m.RecordRun(ctx, "self-ask-with-search", "success", 2)
	m.RecordRun(ctx, "self-ask-with-search", "iteration_limit_exceeded", 6)
	m.RecordParseFailure(ctx, "self-ask-with-search")
	m.RecordRegeneration(ctx, "self-ask-with-search")

	got := sums(t, reader)
	for name, want := range map[string]int64{
		"selfask.runs":           2,
		"selfask.parse_failures": 1,
		"selfask.regenerations":  1,
	} {
		if n := total(got[name]); n != want {
			t.Errorf("%s: got = %d, wanted = %d", name, n, want)
		}
	}
}
