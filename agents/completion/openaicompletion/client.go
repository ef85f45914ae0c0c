/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaicompletion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/metrics"
	"chainguard.dev/selfask/agents/retry"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Backend is the name reported in errors and metrics.
const Backend = "openai"

// maxStopSequences is the most stop sequences the endpoint accepts.
const maxStopSequences = 4

type completions interface {
	New(ctx context.Context, body openai.CompletionNewParams, opts ...option.RequestOption) (*openai.Completion, error)
}

// Client is a completion.Client backed by an OpenAI completions model.
type Client struct {
	completions  completions
	model        string
	maxTokens    int64
	temperature  float64
	retryConfig  retry.Config
	genaiMetrics *metrics.GenAI
}

var _ completion.Client = (*Client)(nil)

// Option is a functional option for configuring a Client
type Option func(*Client) error

// WithModel sets the completions model.
func WithModel(model string) Option {
	return func(c *Client) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		c.model = model
		return nil
	}
}

// WithMaxTokens sets the maximum tokens for responses
func WithMaxTokens(tokens int64) Option {
	return func(c *Client) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		c.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0.0 and 2.0.
func WithTemperature(temp float64) Option {
	return func(c *Client) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		c.temperature = temp
		return nil
	}
}

// WithRetryConfig sets the retry configuration for transient API errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.retryConfig = cfg
		return nil
	}
}

// New creates a Client from an OpenAI SDK client.
func New(client openai.Client, opts ...Option) (*Client, error) {
	return newClient(&client.Completions, opts...)
}

func newClient(cs completions, opts ...Option) (*Client, error) {
	genaiMetrics := metrics.NewGenAI("chainguard.dev/selfask")
	genaiMetrics.SetAttributeEnricher(metrics.ExecutionContextEnricher)

	c := &Client{
		completions:  cs,
		model:        string(openai.CompletionNewParamsModelGPT3_5TurboInstruct),
		maxTokens:    256,
		temperature:  0.0,
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
	params := openai.CompletionNewParams{
		Model:       openai.CompletionNewParamsModel(c.model),
		Prompt:      openai.CompletionNewParamsPromptUnion{OfString: openai.String(prompt)},
		MaxTokens:   openai.Int(c.maxTokens),
		Temperature: openai.Float(c.temperature),
	}
	var stops []string
	for _, s := range stop {
		if s != "" && len(stops) < maxStopSequences {
			stops = append(stops, s)
		}
	}
	if len(stops) > 0 {
		params.Stop = openai.CompletionNewParamsStopUnion{OfStringArray: stops}
	}

	start := time.Now()
	resp, err := retry.Do(ctx, c.retryConfig, "openai_completion", isRetryableOpenAIError, func(ctx context.Context) (*openai.Completion, error) {
		return c.completions.New(ctx, params)
	})
	c.genaiMetrics.RecordCompletion(ctx, Backend, c.model, time.Since(start), err)
	if err != nil {
		return "", &completion.BackendError{Backend: Backend, Model: c.model, Cause: err}
	}

	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		c.genaiMetrics.RecordTokens(ctx, c.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		agenttrace.RecordTokenUsage(ctx, c.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}
	if len(resp.Choices) == 0 {
		return "", &completion.BackendError{Backend: Backend, Model: c.model, Cause: errors.New("no choices in response")}
	}

	choice := resp.Choices[0]
	clog.FromContext(ctx).With("model", c.model).
		With("finish_reason", string(choice.FinishReason)).
		With("output_length", len(choice.Text)).
		Debug("OpenAI completion finished")
	return completion.Truncate(choice.Text, stop), nil
}

func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return retry.IsRetryableStatus(apiErr.StatusCode)
	}
	return false
}
