/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudecompletion implements completion.Client on Anthropic's
// Messages API.
//
// Claude is a chat model, so the prompt is sent as a single user turn with a
// system instruction asking the model to continue the text. Stop sequences are
// passed to the API and applied again to the response.
//
// # Usage
//
// Direct to Anthropic:
//
//	client := anthropic.NewClient(option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")))
//	c, err := claudecompletion.New(client,
//		claudecompletion.WithModel("claude-sonnet-4-5"),
//		claudecompletion.WithMaxTokens(1024),
//	)
//
// Through Vertex AI:
//
//	client := anthropic.NewClient(vertex.WithGoogleAuth(ctx, "us-east5", projectID))
//	c, err := claudecompletion.New(client, claudecompletion.WithModel("claude-sonnet-4@20250514"))
//
// # Retries
//
// Responses with status 429, 502, 503, 504 or 529 are retried with
// exponential backoff. Use WithRetryConfig to tune or disable this.
//
// # Observability
//
// Every request records token usage and latency with the metrics package and
// attaches token counts to the agenttrace completion carried by the context.
package claudecompletion
