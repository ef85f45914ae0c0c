/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package transcript records the reasoning history of a single self-ask run
// and renders it back into prompt text.
//
// Each segment renders as exactly one line. Labeled segments are written as
// "<label> <text>", continuations verbatim:
//
//	 Yes.
//	Follow up: Who is the reigning champion?
//	Intermediate answer: Jane Doe
//	So the final answer is: Springfield
//
// Segments are never removed or reordered, so the rendered suffix only ever
// grows and the model always sees every sub-question it already asked.
package transcript
