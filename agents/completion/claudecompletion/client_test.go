/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudecompletion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/retry"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/go-cmp/cmp"
)

type fakeMessages struct {
	params  []anthropic.MessageNewParams
	replies []func() (*anthropic.Message, error)
}

func (f *fakeMessages) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.params = append(f.params, params)
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply()
}

func textMessage(text string) func() (*anthropic.Message, error) {
	return func() (*anthropic.Message, error) {
		return &anthropic.Message{
			Content: []anthropic.ContentBlockUnion{{Type: "text", Text: text}},
			Usage:   anthropic.Usage{InputTokens: 12, OutputTokens: 4},
		}, nil
	}
}

func statusError(code int) func() (*anthropic.Message, error) {
	return func() (*anthropic.Message, error) {
		return nil, &anthropic.Error{
			StatusCode: code,
			Request:    httptest.NewRequest(http.MethodPost, "/v1/messages", nil),
			Response:   &http.Response{StatusCode: code},
		}
	}
}

var fastRetry = retry.Config{MaxRetries: 2, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond}

func TestComplete(t *testing.T) {
	fake := &fakeMessages{replies: []func() (*anthropic.Message, error){
		textMessage(" Yes.\nFollow up: Who won?\nIntermediate answer: made up"),
	}}
	c, err := newClient(fake, WithModel("claude-haiku-4-5"), WithRetryConfig(fastRetry))
	if err != nil {
		t.Fatalf("newClient() error = %v", err)
	}

	got, err := c.Complete(context.Background(), "Question: q\nAre follow up questions needed here:", []string{"\nIntermediate answer:", "  "})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if want := " Yes.\nFollow up: Who won?"; got != want {
		t.Errorf("Complete(): got = %q, wanted = %q", got, want)
	}

	if len(fake.params) != 1 {
		t.Fatalf("requests: got = %d, wanted = 1", len(fake.params))
	}
	p := fake.params[0]
	if diff := cmp.Diff([]string{"\nIntermediate answer:"}, p.StopSequences); diff != "" {
		t.Errorf("stop sequences (-want +got):\n%s", diff)
	}
	if got := string(p.Model); got != "claude-haiku-4-5" {
		t.Errorf("model: got = %q, wanted = %q", got, "claude-haiku-4-5")
	}
	if got := p.System[0].Text; got != DefaultSystemInstructions {
		t.Errorf("system: got = %q, wanted = %q", got, DefaultSystemInstructions)
	}
}

func TestCompleteRecordsTokenUsage(t *testing.T) {
	fake := &fakeMessages{replies: []func() (*anthropic.Message, error){textMessage("ok")}}
	c, err := newClient(fake, WithRetryConfig(fastRetry))
	if err != nil {
		t.Fatalf("newClient() error = %v", err)
	}

	trace := agenttrace.StartTrace(context.Background(), "q")
	ctx, comp := trace.StartCompletion(context.Background(), "p", nil)
	out, err := c.Complete(ctx, "p", nil)
	comp.Complete(out, err)
	trace.Complete(out, err)

	in, outTokens := trace.TokenUsage()
	if in != 12 || outTokens != 4 {
		t.Errorf("TokenUsage(): got = (%d, %d), wanted = (12, 4)", in, outTokens)
	}
	if comp.Model != c.Model() {
		t.Errorf("Model: got = %q, wanted = %q", comp.Model, c.Model())
	}
}

func TestCompleteRetries(t *testing.T) {
	fake := &fakeMessages{replies: []func() (*anthropic.Message, error){
		statusError(529),
		statusError(429),
		textMessage("done"),
	}}
	c, err := newClient(fake, WithRetryConfig(fastRetry))
	if err != nil {
		t.Fatalf("newClient() error = %v", err)
	}
	got, err := c.Complete(context.Background(), "p", nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "done" || len(fake.params) != 3 {
		t.Errorf("Complete(): got = %q after %d requests, wanted = %q after 3", got, len(fake.params), "done")
	}
}

func TestCompleteFailure(t *testing.T) {
	fake := &fakeMessages{replies: []func() (*anthropic.Message, error){statusError(401)}}
	c, err := newClient(fake, WithRetryConfig(fastRetry))
	if err != nil {
		t.Fatalf("newClient() error = %v", err)
	}
	_, err = c.Complete(context.Background(), "p", nil)

	var be *completion.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("Complete(): got = %v, wanted *completion.BackendError", err)
	}
	if be.Backend != Backend {
		t.Errorf("Backend: got = %q, wanted = %q", be.Backend, Backend)
	}
	if len(fake.params) != 1 {
		t.Errorf("requests: got = %d, wanted = 1 (401 is not retryable)", len(fake.params))
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"non-claude model", WithModel("gpt-4o")},
		{"zero max tokens", WithMaxTokens(0)},
		{"too many tokens", WithMaxTokens(64000)},
		{"temperature", WithTemperature(1.5)},
		{"empty system", WithSystemInstructions(" ")},
		{"negative retries", WithRetryConfig(retry.Config{MaxRetries: -1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newClient(&fakeMessages{}, tt.opt); err == nil {
				t.Error("newClient(): got = nil, wanted error")
			}
		})
	}
}

func TestIsRetryableClaudeError(t *testing.T) {
	for code, want := range map[int]bool{429: true, 503: true, 529: true, 400: false, 401: false} {
		if got := isRetryableClaudeError(&anthropic.Error{StatusCode: code}); got != want {
			t.Errorf("isRetryableClaudeError(%d): got = %v, wanted = %v", code, got, want)
		}
	}
	if isRetryableClaudeError(errors.New("429")) {
		t.Error("isRetryableClaudeError(untyped): got = true, wanted = false")
	}
}
