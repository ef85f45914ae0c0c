/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package chainconfig builds chains from YAML or JSON definitions.
//
// A definition names the chain type, the model and, where the type needs one,
// the tool:
//
//	type: self-ask-with-search
//	model: claude-sonnet-4@20250514
//	tool: search
//	loop:
//	  max_iterations: 4
//
// The types are llm, llm-math, self-ask-with-search, api and summarize. An
// api definition carries the API documentation and the HTTP settings of its
// requests tool:
//
//	type: api
//	model: gpt-3.5-turbo-instruct
//	api:
//	  docs: |
//	    GET https://api.open-meteo.com/v1/forecast?latitude=..&longitude=..
//	  requests:
//	    allowed_hosts: [api.open-meteo.com]
//
// Tools are resolved by name through a toolcall.Registry and completion
// clients through a ClientFactory, dispatch.New by default.
package chainconfig
