/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"

	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/completion/dispatch"
	"chainguard.dev/selfask/agents/toolcall/docsearch"
	"chainguard.dev/selfask/agents/toolcall/requests"
	"chainguard.dev/selfask/agents/toolcall/serpsearch"
	"github.com/sethvargo/go-envconfig"
)

// config is the process configuration, read from the environment after any
// .env file has been loaded.
type config struct {
	Model string `env:"SELFASK_MODEL, default=claude-sonnet-4@20250514"`

	ProjectID string `env:"GOOGLE_CLOUD_PROJECT"`
	Region    string `env:"GOOGLE_CLOUD_REGION"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"`
	MaxTokens       int    `env:"SELFASK_MAX_TOKENS"`

	// DocsDir holds .txt and .md files served by the "docs" tool.
	DocsDir string `env:"SELFASK_DOCS_DIR"`
	// DocsURLs are web pages loaded into the "docs" tool.
	DocsURLs []string `env:"SELFASK_DOCS_URLS"`
	// IndexDir persists the docs index between runs when set.
	IndexDir string `env:"SELFASK_INDEX_DIR"`

	Search    serpsearch.Config
	Requests  requests.Config
	Embedding docsearch.EmbeddingConfig
}

func loadConfig(ctx context.Context) (*config, error) {
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	return &cfg, nil
}

// newClient creates a completion client for model with the configured
// credentials.
func (c *config) newClient(ctx context.Context, model string) (completion.Client, error) {
	return dispatch.New(ctx, dispatch.Config{
		Model:           model,
		ProjectID:       c.ProjectID,
		Region:          c.Region,
		AnthropicAPIKey: c.AnthropicAPIKey,
		GeminiAPIKey:    c.GeminiAPIKey,
		OpenAIAPIKey:    c.OpenAIAPIKey,
		OpenAIBaseURL:   c.OpenAIBaseURL,
		MaxTokens:       c.MaxTokens,
	})
}
