/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall defines the capability chains use to answer sub-questions.
//
// An Invoker takes a plain-text query and returns a plain-text answer. The
// self-ask loop hands each follow-up question to exactly one Invoker and
// feeds the answer back to the model as an intermediate answer.
//
// Concrete tools live in subpackages:
//
//   - serpsearch answers with the best snippet of a web search
//   - calculator evaluates arithmetic expressions
//   - docsearch retrieves passages from an in-memory vector store
//
// Tools are usually constructed through New so that failures surface as
// *ToolError, and can be looked up by name through a Registry when chains
// are loaded from configuration.
package toolcall
