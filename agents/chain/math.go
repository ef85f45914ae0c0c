/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/promptbuilder"
	"chainguard.dev/selfask/agents/result"
	"chainguard.dev/selfask/agents/toolcall"
	"chainguard.dev/selfask/agents/transcript"
)

const (
	// expressionTag marks the fenced block holding the expression to evaluate.
	expressionTag = "text"
	// answerMarker prefixes an answer the model gives without calculating.
	answerMarker = "Answer:"
)

const mathPrompt = "Translate a math problem into an expression that a calculator can evaluate.\n" +
	"Write the expression alone inside a ```text block and stop. If no calculation is needed, " +
	"reply with \"Answer:\" followed by the answer.\n" +
	"\n" +
	"Question: What is 37593 * 67?\n" +
	"```text\n" +
	"37593 * 67\n" +
	"```\n" +
	"\n" +
	"Question: What is 37593^(1/5)?\n" +
	"```text\n" +
	"37593 ** (1 / 5)\n" +
	"```\n" +
	"\n" +
	"Question: What is the number after 9?\n" +
	"Answer: 10\n" +
	"\n" +
	"Question: {{question}}\n"

// DefaultMathTemplate is the prompt used by NewMath unless WithTemplate is given.
var DefaultMathTemplate = promptbuilder.MustNewTemplate(mathPrompt, []string{InputKey})

// Math answers arithmetic questions: the model translates the question into
// an expression, which the calculator evaluates.
type Math struct {
	*base
	calculator toolcall.Invoker
}

var _ Chain = (*Math)(nil)

// NewMath builds a Math chain that evaluates expressions with calculator.
func NewMath(client completion.Client, calculator toolcall.Invoker, opts ...Option) (*Math, error) {
	if calculator == nil {
		return nil, ConfigurationError(errors.New("calculator is required"))
	}
	b, err := newBase(client, DefaultMathTemplate, "llm-math", append([]Option{WithStop("```output")}, opts...))
	if err != nil {
		return nil, err
	}
	return &Math{base: b, calculator: calculator}, nil
}

// Run implements Chain.
func (c *Math) Run(ctx context.Context, question string) (answer Answer, err error) {
	ctx, trace, runID := c.begin(ctx, question)
	defer func() { c.end(ctx, trace, answer, err) }()

	segs := transcript.New(transcript.DefaultLabels())
	output, err := c.complete(ctx, trace, question, segs)
	if err != nil {
		return Answer{}, err
	}

	if expr, ok := result.Block(output, expressionTag); ok && expr != "" {
		segs.Append(transcript.Segment{Kind: transcript.FollowUp, Text: expr})
		if err := CheckCancelled(ctx, segs.Segments(), 0); err != nil {
			return Answer{}, err
		}
		tctx, tc := trace.StartToolCall(ctx, "calculator", expr)
		value, err := c.calculator.Invoke(tctx, expr)
		tc.Complete(value, err)
		if err != nil {
			return Answer{}, CollaboratorError(ctx, toolcall.Wrap("calculator", err), segs.Segments(), 0)
		}
		value = strings.TrimSpace(value)
		segs.Append(transcript.Segment{Kind: transcript.IntermediateAnswer, Text: value})
		segs.Append(transcript.Segment{Kind: transcript.FinalAnswer, Text: value})
		return Answer{Text: value, Transcript: segs.Segments(), Iterations: 1, RunID: runID}, nil
	}

	if text, ok := result.AfterMarker(output, answerMarker); ok && text != "" {
		segs.Append(transcript.Segment{Kind: transcript.FinalAnswer, Text: text})
		return Answer{Text: text, Transcript: segs.Segments(), RunID: runID}, nil
	}

	return Answer{}, &Error{
		Reason: ReasonUnparseableOutput,
		Cause:  fmt.Errorf("output %q has neither a ```%s block nor %q", output, expressionTag, answerMarker),
	}
}
