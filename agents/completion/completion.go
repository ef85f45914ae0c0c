/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package completion

import (
	"context"
	"fmt"
	"strings"
)

// Client generates a continuation of prompt.
//
// Implementations must honor stop: the returned text never contains the first
// occurrence of any stop sequence or anything after it. Failures are reported
// as *BackendError.
type Client interface {
	Complete(ctx context.Context, prompt string, stop []string) (string, error)
}

// Func adapts a function to the Client interface.
type Func func(ctx context.Context, prompt string, stop []string) (string, error)

// Complete implements Client.
func (f Func) Complete(ctx context.Context, prompt string, stop []string) (string, error) {
	return f(ctx, prompt, stop)
}

// BackendError reports a transport, authentication, or rate-limit failure
// from a completion backend.
type BackendError struct {
	// Backend names the provider, e.g. "claude" or "gemini".
	Backend string
	// Model is the model that was called, when known.
	Model string
	Cause error
}

// Error implements error.
func (e *BackendError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s completion (%s): %v", e.Backend, e.Model, e.Cause)
	}
	return fmt.Sprintf("%s completion: %v", e.Backend, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// Truncate cuts text at the earliest occurrence of any stop sequence.
// Backends apply it to every response since not all providers guarantee
// stop handling, and providers that do may still echo a partial sequence.
func Truncate(text string, stop []string) string {
	cut := len(text)
	for _, s := range stop {
		if s == "" {
			continue
		}
		if i := strings.Index(text[:cut], s); i >= 0 {
			cut = i
		}
	}
	return text[:cut]
}
