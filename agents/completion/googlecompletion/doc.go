/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googlecompletion implements completion.Client on Gemini models
// through Google's Generative AI SDK, against either the Gemini API or Vertex AI.
//
//	client, err := genai.NewClient(ctx, &genai.ClientConfig{
//		Project:  projectID,
//		Location: "us-central1",
//		Backend:  genai.BackendVertexAI,
//	})
//	if err != nil {
//		return err
//	}
//	c, err := googlecompletion.New(client, googlecompletion.WithModel("gemini-2.5-flash"))
//
// Rate limit and transient server errors are retried with exponential backoff.
// Thought parts are dropped from the response; only answer text is returned.
package googlecompletion
