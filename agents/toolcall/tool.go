/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"errors"
	"fmt"
)

// Invoker answers a single query, typically a sub-question posed by the
// model. Invokers make no idempotency promise: the same query may produce
// different answers across calls. Failures are reported as *ToolError.
type Invoker interface {
	Invoke(ctx context.Context, query string) (string, error)
}

// Func adapts a function to the Invoker interface.
type Func func(ctx context.Context, query string) (string, error)

// Invoke implements Invoker.
func (f Func) Invoke(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// ToolError reports a failed tool invocation.
type ToolError struct {
	Tool  string
	Cause error
}

// Error implements error.
func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ToolError) Unwrap() error {
	return e.Cause
}

// Wrap returns err as a *ToolError for the named tool. Errors that already
// are a *ToolError are returned unchanged, and nil stays nil.
func Wrap(tool string, err error) error {
	if err == nil {
		return nil
	}
	var te *ToolError
	if errors.As(err, &te) {
		return err
	}
	return &ToolError{Tool: tool, Cause: err}
}

// Definition describes a tool to humans and to chain definitions.
type Definition struct {
	Name        string
	Description string
}

// Tool pairs a Definition with the Invoker that implements it.
type Tool struct {
	Definition
	Invoker
}

// New returns a Tool whose invocation errors are wrapped as *ToolError.
func New(name, description string, inv Invoker) (Tool, error) {
	if name == "" {
		return Tool{}, errors.New("tool name cannot be empty")
	}
	if inv == nil {
		return Tool{}, fmt.Errorf("tool %q: invoker cannot be nil", name)
	}
	return Tool{
		Definition: Definition{Name: name, Description: description},
		Invoker: Func(func(ctx context.Context, query string) (string, error) {
			out, err := inv.Invoke(ctx, query)
			return out, Wrap(name, err)
		}),
	}, nil
}
