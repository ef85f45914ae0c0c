/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/completion/claudecompletion"
	"chainguard.dev/selfask/agents/completion/googlecompletion"
	"chainguard.dev/selfask/agents/completion/openaicompletion"
	"chainguard.dev/selfask/agents/retry"
	"cloud.google.com/go/compute/metadata"
	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// DefaultRegion is the Vertex AI region used when none is configured or
// detected.
const DefaultRegion = "us-east5"

// Config selects and configures a completion backend.
type Config struct {
	// Model is the model name; its prefix selects the provider.
	Model string `json:"model" yaml:"model"`

	// ProjectID and Region address Vertex AI. Both are detected when empty.
	ProjectID string `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`

	AnthropicAPIKey string `json:"-" yaml:"-"`
	GeminiAPIKey    string `json:"-" yaml:"-"`
	OpenAIAPIKey    string `json:"-" yaml:"-"`
	// OpenAIBaseURL points the OpenAI backend at a compatible server.
	OpenAIBaseURL string `json:"openai_base_url,omitempty" yaml:"openai_base_url,omitempty"`

	// MaxTokens caps the length of each completion. Zero keeps the backend default.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	// Retry overrides the backend's retry policy when set.
	Retry *retry.Config `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// Provider names the backend family serving a model.
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// ProviderFor returns the provider for model.
func ProviderFor(model string) (Provider, error) {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "claude-"):
		return ProviderClaude, nil
	case strings.HasPrefix(m, "gemini-"):
		return ProviderGemini, nil
	case isCompletionsModel(m):
		return ProviderOpenAI, nil
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return "", fmt.Errorf("unsupported model: %q is chat-only; OpenAI models must serve the completions endpoint (%s)",
			model, strings.Join(completionsModels, ", "))
	default:
		return "", fmt.Errorf("unsupported model: %q (expected claude-*, gemini-* or one of %s)",
			model, strings.Join(completionsModels, ", "))
	}
}

// completionsModels are the OpenAI model families that serve the legacy
// completions endpoint, which continues a raw prompt and honors stop
// sequences natively.
var completionsModels = []string{"gpt-3.5-turbo-instruct", "davinci-002", "babbage-002"}

// isCompletionsModel reports whether m, lowercased, names a completions model
// or a dated snapshot or fine-tune of one.
func isCompletionsModel(m string) bool {
	for _, base := range completionsModels {
		if m == base || strings.HasPrefix(m, base+"-") || strings.HasPrefix(m, "ft:"+base) {
			return true
		}
	}
	return false
}

// New creates a completion.Client for cfg.Model.
func New(ctx context.Context, cfg Config) (completion.Client, error) {
	provider, err := ProviderFor(cfg.Model)
	if err != nil {
		return nil, err
	}
	log := clog.FromContext(ctx).With("model", cfg.Model).With("provider", string(provider))

	switch provider {
	case ProviderClaude:
		opts := []claudecompletion.Option{claudecompletion.WithModel(cfg.Model)}
		if cfg.MaxTokens > 0 {
			opts = append(opts, claudecompletion.WithMaxTokens(int64(cfg.MaxTokens)))
		}
		if cfg.Retry != nil {
			opts = append(opts, claudecompletion.WithRetryConfig(*cfg.Retry))
		}
		if cfg.AnthropicAPIKey != "" {
			log.Info("Using Anthropic API")
			return claudecompletion.New(anthropic.NewClient(anthropicoption.WithAPIKey(cfg.AnthropicAPIKey)), opts...)
		}
		projectID, region, err := vertexLocation(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.With("project_id", projectID).With("region", region).Info("Using Claude on Vertex AI")
		return claudecompletion.New(anthropic.NewClient(vertex.WithGoogleAuth(ctx, region, projectID)), opts...)

	case ProviderGemini:
		opts := []googlecompletion.Option{googlecompletion.WithModel(cfg.Model)}
		if cfg.MaxTokens > 0 {
			opts = append(opts, googlecompletion.WithMaxOutputTokens(int32(cfg.MaxTokens)))
		}
		if cfg.Retry != nil {
			opts = append(opts, googlecompletion.WithRetryConfig(*cfg.Retry))
		}
		cc := &genai.ClientConfig{APIKey: cfg.GeminiAPIKey, Backend: genai.BackendGeminiAPI}
		if cfg.GeminiAPIKey == "" {
			projectID, region, err := vertexLocation(ctx, cfg)
			if err != nil {
				return nil, err
			}
			cc = &genai.ClientConfig{Project: projectID, Location: region, Backend: genai.BackendVertexAI}
		}
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("creating Google AI client: %w", err)
		}
		log.Info("Using Gemini")
		return googlecompletion.New(client, opts...)

	default:
		if cfg.OpenAIAPIKey == "" && cfg.OpenAIBaseURL == "" {
			return nil, errors.New("an OpenAI API key or base URL is required for " + cfg.Model)
		}
		var ropts []openaioption.RequestOption
		if cfg.OpenAIAPIKey != "" {
			ropts = append(ropts, openaioption.WithAPIKey(cfg.OpenAIAPIKey))
		}
		if cfg.OpenAIBaseURL != "" {
			ropts = append(ropts, openaioption.WithBaseURL(cfg.OpenAIBaseURL))
		}
		opts := []openaicompletion.Option{openaicompletion.WithModel(cfg.Model)}
		if cfg.MaxTokens > 0 {
			opts = append(opts, openaicompletion.WithMaxTokens(int64(cfg.MaxTokens)))
		}
		if cfg.Retry != nil {
			opts = append(opts, openaicompletion.WithRetryConfig(*cfg.Retry))
		}
		log.Info("Using OpenAI completions")
		return openaicompletion.New(openai.NewClient(ropts...), opts...)
	}
}

func vertexLocation(ctx context.Context, cfg Config) (string, string, error) {
	projectID, region := cfg.ProjectID, cfg.Region
	if projectID == "" || region == "" {
		p, r, err := DetectProject(ctx)
		if err != nil {
			return "", "", err
		}
		if projectID == "" {
			projectID = p
		}
		if region == "" {
			region = r
		}
	}
	return projectID, region, nil
}

// DetectProject finds the Google Cloud project and region from the
// environment, falling back to the GCE metadata server. The region defaults
// to DefaultRegion when it cannot be determined.
func DetectProject(ctx context.Context) (projectID, region string, err error) {
	projectID = firstEnv("GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT")
	region = firstEnv("GOOGLE_CLOUD_REGION", "CLOUD_ML_REGION")

	if projectID == "" && metadata.OnGCE() {
		if projectID, err = metadata.ProjectIDWithContext(ctx); err != nil {
			return "", "", fmt.Errorf("detecting project ID: %w", err)
		}
	}
	if projectID == "" {
		return "", "", errors.New("no Google Cloud project found (set GOOGLE_CLOUD_PROJECT)")
	}

	if region == "" && metadata.OnGCE() {
		if zone, err := metadata.ZoneWithContext(ctx); err == nil {
			if i := strings.LastIndex(zone, "-"); i > 0 {
				region = zone[:i]
			}
		}
	}
	if region == "" {
		region = DefaultRegion
	}
	return projectID, region, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
