/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaicompletion implements completion.Client on OpenAI's legacy
// completions endpoint, which continues raw text and honors stop sequences
// natively. It works with any server that speaks that API.
//
//	client := openai.NewClient(option.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	c, err := openaicompletion.New(client, openaicompletion.WithModel("gpt-3.5-turbo-instruct"))
package openaicompletion
