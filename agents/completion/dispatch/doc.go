/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package dispatch builds a completion.Client for a model name, picking the
// provider from the name's prefix:
//   - Models starting with "claude-" use Anthropic's SDK, directly when an API
//     key is configured and via Vertex AI otherwise
//   - Models starting with "gemini-" use Google's Generative AI SDK, against
//     the Gemini API when an API key is configured and Vertex AI otherwise
//   - "gpt-3.5-turbo-instruct", "davinci-002" and "babbage-002" (and their
//     snapshots and fine-tunes) use OpenAI's completions endpoint. Chat-only
//     OpenAI models such as "gpt-4o" are rejected, since the loop continues a
//     raw prompt
//
// When Vertex AI is used and no project is configured, the project and region
// are detected from the environment or the GCE metadata server.
package dispatch
