/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package dispatch

import (
	"context"
	"strings"
	"testing"

	"chainguard.dev/selfask/agents/completion/claudecompletion"
	"chainguard.dev/selfask/agents/completion/googlecompletion"
	"chainguard.dev/selfask/agents/completion/openaicompletion"
)

func TestProviderFor(t *testing.T) {
	tests := []struct {
		model   string
		want    Provider
		wantErr bool
	}{
		{model: "claude-sonnet-4@20250514", want: ProviderClaude},
		{model: "Claude-Haiku-4-5", want: ProviderClaude},
		{model: "gemini-2.5-flash", want: ProviderGemini},
		{model: "gpt-3.5-turbo-instruct", want: ProviderOpenAI},
		{model: "davinci-002", want: ProviderOpenAI},
		{model: "babbage-002", want: ProviderOpenAI},
		{model: "gpt-3.5-turbo-instruct-0914", want: ProviderOpenAI},
		{model: "ft:davinci-002:acme::abc123", want: ProviderOpenAI},
		{model: "gpt-4o", wantErr: true},
		{model: "gpt-4o-mini", wantErr: true},
		{model: "gpt-3.5-turbo", wantErr: true},
		{model: "o3-mini", wantErr: true},
		{model: "davinci", wantErr: true},
		{model: "unknown-model", wantErr: true},
		{model: "", wantErr: true},
		{model: "gem", wantErr: true},
		{model: "cla", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ProviderFor(tt.model)
		if (err != nil) != tt.wantErr {
			t.Errorf("ProviderFor(%q) error: got = %v, wanted error = %v", tt.model, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ProviderFor(%q): got = %q, wanted = %q", tt.model, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, Config{Model: "claude-haiku-4-5", AnthropicAPIKey: "test-key", MaxTokens: 512})
	if err != nil {
		t.Fatalf("New(claude) error = %v", err)
	}
	if cc, ok := c.(*claudecompletion.Client); !ok || cc.Model() != "claude-haiku-4-5" {
		t.Errorf("New(claude): got = %T, wanted *claudecompletion.Client", c)
	}

	c, err = New(ctx, Config{Model: "gemini-2.5-flash", GeminiAPIKey: "test-key"})
	if err != nil {
		t.Fatalf("New(gemini) error = %v", err)
	}
	if _, ok := c.(*googlecompletion.Client); !ok {
		t.Errorf("New(gemini): got = %T, wanted *googlecompletion.Client", c)
	}

	c, err = New(ctx, Config{Model: "gpt-3.5-turbo-instruct", OpenAIBaseURL: "http://localhost:8000/v1"})
	if err != nil {
		t.Fatalf("New(openai) error = %v", err)
	}
	if _, ok := c.(*openaicompletion.Client); !ok {
		t.Errorf("New(openai): got = %T, wanted *openaicompletion.Client", c)
	}
}

func TestNewErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "unsupported", cfg: Config{Model: "llama-3"}, wantErr: "unsupported model"},
		{name: "openai without credentials", cfg: Config{Model: "gpt-3.5-turbo-instruct"}, wantErr: "API key"},
		{name: "bad max tokens", cfg: Config{Model: "claude-haiku-4-5", AnthropicAPIKey: "k", MaxTokens: 100000}, wantErr: "exceeds maximum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(ctx, tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New(): got = %v, wanted error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDetectProjectFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("GCP_PROJECT", "my-project")
	t.Setenv("GOOGLE_CLOUD_REGION", "europe-west4")

	projectID, region, err := DetectProject(context.Background())
	if err != nil {
		t.Fatalf("DetectProject() error = %v", err)
	}
	if projectID != "my-project" || region != "europe-west4" {
		t.Errorf("DetectProject(): got = (%q, %q), wanted = (%q, %q)", projectID, region, "my-project", "europe-west4")
	}
}

func TestVertexLocationPrefersConfig(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")
	t.Setenv("GOOGLE_CLOUD_REGION", "")
	t.Setenv("CLOUD_ML_REGION", "")

	projectID, region, err := vertexLocation(context.Background(), Config{ProjectID: "cfg-project"})
	if err != nil {
		t.Fatalf("vertexLocation() error = %v", err)
	}
	if projectID != "cfg-project" {
		t.Errorf("project: got = %q, wanted = %q", projectID, "cfg-project")
	}
	if region == "" {
		t.Error("region: got empty, wanted detected or default region")
	}
}
