/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package selfask

import (
	"fmt"
	"strings"

	"chainguard.dev/selfask/agents/chain"
	"chainguard.dev/selfask/agents/promptbuilder"
	"chainguard.dev/selfask/agents/transcript"
)

// questionPrefix ends every example and the final question. The model
// continues right after it.
const questionPrefix = "Are follow up questions needed here:"

type example struct {
	question string
	steps    [][2]string // follow-up, intermediate answer
	answer   string
}

var examples = []example{{
	question: "Who lived longer, Muhammad Ali or Alan Turing?",
	steps: [][2]string{
		{"How old was Muhammad Ali when he died?", "Muhammad Ali was 74 years old when he died."},
		{"How old was Alan Turing when he died?", "Alan Turing was 41 years old when he died."},
	},
	answer: "Muhammad Ali",
}, {
	question: "Which river flows through the capital of the country where the Eiffel Tower stands?",
	steps: [][2]string{
		{"In which country is the Eiffel Tower?", "The Eiffel Tower is in France."},
		{"What is the capital of France?", "The capital of France is Paris."},
		{"Which river flows through Paris?", "The Seine flows through Paris."},
	},
	answer: "The Seine",
}, {
	question: "What is the capital of Japan?",
	answer:   "Tokyo",
}}

// DefaultPrompt returns the few-shot self-ask prompt written with labels. Its
// only placeholder is {{question}}.
func DefaultPrompt(labels transcript.Labels) string {
	var sb strings.Builder
	for _, ex := range examples {
		fmt.Fprintf(&sb, "Question: %s\n", ex.question)
		if len(ex.steps) == 0 {
			fmt.Fprintf(&sb, "%s No.\n", questionPrefix)
		} else {
			fmt.Fprintf(&sb, "%s Yes.\n", questionPrefix)
		}
		for _, st := range ex.steps {
			sb.WriteString(labels.Render(transcript.Segment{Kind: transcript.FollowUp, Text: st[0]}))
			sb.WriteString(labels.Render(transcript.Segment{Kind: transcript.IntermediateAnswer, Text: st[1]}))
		}
		sb.WriteString(labels.Render(transcript.Segment{Kind: transcript.FinalAnswer, Text: ex.answer}))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Question: {{%s}}\n%s", chain.InputKey, questionPrefix)
	return sb.String()
}

// NewDefaultTemplate returns DefaultPrompt as a template declaring the
// question variable.
func NewDefaultTemplate(labels transcript.Labels, mode promptbuilder.Mode) (*promptbuilder.Template, error) {
	if err := labels.Validate(); err != nil {
		return nil, err
	}
	return promptbuilder.ParseTemplate(DefaultPrompt(labels), []string{chain.InputKey}, promptbuilder.WithMode(mode))
}

// FormatReminder is appended to the prompt, for one completion only, after
// the model produced output with no recognized marker.
func FormatReminder(labels transcript.Labels) string {
	return fmt.Sprintf("Reply with exactly one line, either %q followed by the next question, or %q followed by the answer.",
		labels.FollowUp, labels.FinalAnswer)
}
