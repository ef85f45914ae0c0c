/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package completion_test

import (
	"context"
	"errors"
	"testing"

	"chainguard.dev/selfask/agents/completion"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		text string
		stop []string
		want string
	}{{
		name: "no stop",
		text: "Follow up: Who?",
		want: "Follow up: Who?",
	}, {
		name: "single",
		text: "Follow up: Who?\nIntermediate answer: Jane",
		stop: []string{"\nIntermediate answer:"},
		want: "Follow up: Who?",
	}, {
		name: "earliest of several",
		text: "a STOP2 b STOP1 c",
		stop: []string{"STOP1", "STOP2"},
		want: "a ",
	}, {
		name: "stop at start",
		text: "\nIntermediate answer: x",
		stop: []string{"\nIntermediate answer:"},
		want: "",
	}, {
		name: "empty stop ignored",
		text: "abc",
		stop: []string{""},
		want: "abc",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completion.Truncate(tt.text, tt.stop); got != tt.want {
				t.Errorf("Truncate(): got = %q, wanted = %q", got, tt.want)
			}
		})
	}
}

func TestBackendError(t *testing.T) {
	cause := errors.New("429 too many requests")
	var client completion.Client = completion.Func(func(context.Context, string, []string) (string, error) {
		return "", &completion.BackendError{Backend: "claude", Model: "claude-sonnet-4", Cause: cause}
	})

	_, err := client.Complete(context.Background(), "p", nil)
	var be *completion.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("errors.As(*BackendError): got = false for %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(cause): got = false, wanted = true")
	}
	if got, want := err.Error(), "claude completion (claude-sonnet-4): 429 too many requests"; got != want {
		t.Errorf("Error(): got = %q, wanted = %q", got, want)
	}
}
