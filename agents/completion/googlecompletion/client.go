/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googlecompletion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/metrics"
	"chainguard.dev/selfask/agents/retry"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// Backend is the name reported in errors and metrics.
const Backend = "gemini"

// DefaultSystemInstructions asks the model to behave like a text completion
// model.
const DefaultSystemInstructions = "Continue the user's text exactly where it ends. " +
	"Reply with the continuation only, without repeating the text or adding commentary."

// maxStopSequences is the most stop sequences the API accepts.
const maxStopSequences = 5

type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client is a completion.Client backed by Gemini.
type Client struct {
	models          models
	model           string
	temperature     float32
	maxOutputTokens int32
	system          string
	retryConfig     retry.Config
	genaiMetrics    *metrics.GenAI
}

var _ completion.Client = (*Client)(nil)

// New creates a Client from a genai client.
func New(client *genai.Client, opts ...Option) (*Client, error) {
	if client == nil {
		return nil, errors.New("genai client cannot be nil")
	}
	return newClient(client.Models, opts...)
}

func newClient(m models, opts ...Option) (*Client, error) {
	genaiMetrics := metrics.NewGenAI("chainguard.dev/selfask")
	genaiMetrics.SetAttributeEnricher(metrics.ExecutionContextEnricher)

	c := &Client{
		models:          m,
		model:           "gemini-2.5-flash",
		temperature:     0.0,
		maxOutputTokens: 1024,
		system:          DefaultSystemInstructions,
		retryConfig:     retry.DefaultConfig(),
		genaiMetrics:    genaiMetrics,
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
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(c.temperature),
		MaxOutputTokens:   c.maxOutputTokens,
		SystemInstruction: genai.NewContentFromText(c.system, genai.RoleUser),
	}
	// Sequences beyond the API limit are still enforced by Truncate below.
	for _, s := range stop {
		if s != "" && len(config.StopSequences) < maxStopSequences {
			config.StopSequences = append(config.StopSequences, s)
		}
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	start := time.Now()
	resp, err := retry.Do(ctx, c.retryConfig, "gemini_generate", isRetryableVertexError, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return c.models.GenerateContent(ctx, c.model, contents, config)
	})
	c.genaiMetrics.RecordCompletion(ctx, Backend, c.model, time.Since(start), err)
	if err != nil {
		return "", &completion.BackendError{Backend: Backend, Model: c.model, Cause: err}
	}

	if resp.UsageMetadata != nil {
		in, out := int64(resp.UsageMetadata.PromptTokenCount), int64(resp.UsageMetadata.CandidatesTokenCount)
		c.genaiMetrics.RecordTokens(ctx, c.model, in, out)
		agenttrace.RecordTokenUsage(ctx, c.model, in, out)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		reason := "no candidates"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason = "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
		}
		return "", &completion.BackendError{Backend: Backend, Model: c.model, Cause: errors.New(reason)}
	}

	candidate := resp.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	clog.FromContext(ctx).With("model", c.model).
		With("finish_reason", string(candidate.FinishReason)).
		With("output_length", sb.Len()).
		Debug("Gemini completion finished")

	return completion.Truncate(sb.String(), stop), nil
}

// isRetryableVertexError checks if an error is a retryable Gemini or Vertex AI
// error. The SDK reports HTTP failures as genai.APIError; anything else falls
// back to matching the message.
func isRetryableVertexError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retry.IsRetryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return retry.IsRetryableStatus(apiErrPtr.Code)
	}
	return retry.IsTransientMessage(err)
}
