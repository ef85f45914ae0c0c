/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudecompletion

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/metrics"
	"chainguard.dev/selfask/agents/retry"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"
)

// Backend is the name reported in errors and metrics.
const Backend = "claude"

// DefaultSystemInstructions asks the chat model to behave like a text
// completion model.
const DefaultSystemInstructions = "Continue the user's text exactly where it ends. " +
	"Reply with the continuation only, without repeating the text or adding commentary."

// messages is the subset of anthropic.MessageService the client uses.
type messages interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Client is a completion.Client backed by Claude.
type Client struct {
	messages     messages
	model        string
	maxTokens    int64
	temperature  float64
	system       string
	retryConfig  retry.Config
	genaiMetrics *metrics.GenAI
}

var _ completion.Client = (*Client)(nil)

// New creates a Client from an Anthropic SDK client.
func New(client anthropic.Client, opts ...Option) (*Client, error) {
	return newClient(&client.Messages, opts...)
}

func newClient(m messages, opts ...Option) (*Client, error) {
	genaiMetrics := metrics.NewGenAI("chainguard.dev/selfask")
	genaiMetrics.SetAttributeEnricher(metrics.ExecutionContextEnricher)

	c := &Client{
		messages:     m,
		model:        "claude-sonnet-4@20250514",
		maxTokens:    1024,
		temperature:  0.0,
		system:       DefaultSystemInstructions,
		retryConfig:  retry.DefaultConfig(),
		genaiMetrics: genaiMetrics,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete implements completion.Client.
func (c *Client) Complete(ctx context.Context, prompt string, stop []string) (string, error) {
	// The API rejects stop sequences made only of whitespace.
	stops := slices.DeleteFunc(slices.Clone(stop), func(s string) bool {
		return strings.TrimSpace(s) == ""
	})

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		System:        []anthropic.TextBlockParam{{Text: c.system}},
		Temperature:   anthropic.Float(c.temperature),
		StopSequences: stops,
	}

	start := time.Now()
	message, err := retry.Do(ctx, c.retryConfig, "claude_message", isRetryableClaudeError, func(ctx context.Context) (*anthropic.Message, error) {
		return c.messages.New(ctx, params)
	})
	c.genaiMetrics.RecordCompletion(ctx, Backend, c.model, time.Since(start), err)
	if err != nil {
		return "", &completion.BackendError{Backend: Backend, Model: c.model, Cause: err}
	}

	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		c.genaiMetrics.RecordTokens(ctx, c.model, message.Usage.InputTokens, message.Usage.OutputTokens)
		agenttrace.RecordTokenUsage(ctx, c.model, message.Usage.InputTokens, message.Usage.OutputTokens)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	clog.FromContext(ctx).With("model", c.model).
		With("stop_reason", string(message.StopReason)).
		With("output_length", sb.Len()).
		Debug("Claude completion finished")

	return completion.Truncate(sb.String(), stop), nil
}

// isRetryableClaudeError checks if an error is a retryable Claude API error.
func isRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return retry.IsRetryableStatus(apiErr.StatusCode)
	}
	return false
}
