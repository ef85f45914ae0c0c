/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// ExecutionContext identifies the run a trace or metric belongs to.
type ExecutionContext struct {
	ChainName string `json:"chain_name,omitempty"` // Configured chain name, e.g. "self-ask-with-search"
	RunID     string `json:"run_id,omitempty"`     // Unique per Run call
	Model     string `json:"model,omitempty"`      // Completion model, when known
	EvalCase  string `json:"eval_case,omitempty"`  // Eval case name when running under the eval harness
}

// EnrichAttributes adds execution context attributes to the provided base attributes.
// Only BOUNDED labels are added.
//
// Note: run_id and eval_case are NOT included because every run creates a new
// time series. They remain on traces where cardinality is not a concern.
func (e ExecutionContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+2)
	copy(attrs, baseAttrs)

	if e.ChainName != "" {
		attrs = append(attrs, attribute.String("chain", e.ChainName))
	}
	if e.Model != "" {
		attrs = append(attrs, attribute.String("model", e.Model))
	}
	return attrs
}

// contextKey is used for storing execution context in context.Context
type contextKey string

const executionContextKey contextKey = "execution_context"

// WithExecutionContext adds execution context to the Go context
func WithExecutionContext(ctx context.Context, execCtx ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey, execCtx)
}

// GetExecutionContext retrieves execution context from the Go context
func GetExecutionContext(ctx context.Context) ExecutionContext {
	if val := ctx.Value(executionContextKey); val != nil {
		if execCtx, ok := val.(ExecutionContext); ok {
			return execCtx
		}
	}
	return ExecutionContext{}
}
