/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"
	"strings"

	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/promptbuilder"
	"chainguard.dev/selfask/agents/transcript"
)

// LLM is the single-step chain: render the template with the question,
// complete once, and return the trimmed output as the answer.
type LLM struct {
	*base
}

var _ Chain = (*LLM)(nil)

// NewLLM builds an LLM chain. tmpl must declare the "question" variable.
func NewLLM(client completion.Client, tmpl *promptbuilder.Template, opts ...Option) (*LLM, error) {
	b, err := newBase(client, tmpl, "llm", opts)
	if err != nil {
		return nil, err
	}
	return &LLM{base: b}, nil
}

// Run implements Chain. Any output, including an empty one, is the answer.
func (c *LLM) Run(ctx context.Context, question string) (answer Answer, err error) {
	ctx, trace, runID := c.begin(ctx, question)
	defer func() { c.end(ctx, trace, answer, err) }()

	segs := transcript.New(transcript.DefaultLabels())
	output, err := c.complete(ctx, trace, question, segs)
	if err != nil {
		return Answer{}, err
	}
	text := strings.TrimSpace(output)
	segs.Append(transcript.Segment{Kind: transcript.FinalAnswer, Text: text})
	return Answer{Text: text, Transcript: segs.Segments(), RunID: runID}, nil
}
