/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package selfask_test

import (
	"testing"

	"chainguard.dev/selfask/agents/selfask"
	"chainguard.dev/selfask/agents/transcript"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   selfask.Decision
	}{{
		name:   "final answer",
		output: "So the final answer is: Springfield",
		want:   selfask.Decision{Kind: selfask.DecisionFinalAnswer, Text: "Springfield"},
	}, {
		name:   "follow up with preamble",
		output: " Yes.\nFollow up: Who is the reigning champion?",
		want:   selfask.Decision{Kind: selfask.DecisionFollowUp, Text: "Who is the reigning champion?", Preamble: " Yes."},
	}, {
		name:   "final answer wins over earlier follow up",
		output: "Follow up: anything else?\nSo the final answer is: 42",
		want:   selfask.Decision{Kind: selfask.DecisionFinalAnswer, Text: "42", Preamble: "Follow up: anything else?"},
	}, {
		name:   "first occurrence",
		output: "Follow up: one?\nFollow up: two?",
		want:   selfask.Decision{Kind: selfask.DecisionFollowUp, Text: "one?"},
	}, {
		name:   "surrounding whitespace trimmed",
		output: "So the final answer is:    Paris  \n",
		want:   selfask.Decision{Kind: selfask.DecisionFinalAnswer, Text: "Paris"},
	}, {
		name:   "text on following line",
		output: "So the final answer is:\n\n  Paris\nextra",
		want:   selfask.Decision{Kind: selfask.DecisionFinalAnswer, Text: "Paris"},
	}, {
		name:   "text cut at another label",
		output: "Follow up: Who won? Intermediate answer: me",
		want:   selfask.Decision{Kind: selfask.DecisionFollowUp, Text: "Who won?"},
	}, {
		name:   "case sensitive",
		output: "so the final answer is: nope\nfollow up: nope?",
		want:   selfask.Decision{Kind: selfask.DecisionUnparseable},
	}, {
		name:   "final marker without text falls back to follow up",
		output: "Follow up: next?\nSo the final answer is:",
		want:   selfask.Decision{Kind: selfask.DecisionFollowUp, Text: "next?"},
	}, {
		name:   "follow up marker without text",
		output: "Follow up:   ",
		want:   selfask.Decision{Kind: selfask.DecisionUnparseable},
	}, {
		name:   "no marker",
		output: "I am not sure what to do.",
		want:   selfask.Decision{Kind: selfask.DecisionUnparseable},
	}, {
		name:   "empty",
		output: "",
		want:   selfask.Decision{Kind: selfask.DecisionUnparseable},
	}, {
		name:   "crlf",
		output: "Yes.\r\nFollow up: Where?\r\n",
		want:   selfask.Decision{Kind: selfask.DecisionFollowUp, Text: "Where?", Preamble: "Yes."},
	}}

	labels := transcript.DefaultLabels()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selfask.Parse(tt.output, labels)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseNeverPanics(t *testing.T) {
	labels := transcript.DefaultLabels()
	inputs := []string{
		"Follow up:", "So the final answer is:", "\n\n\n", "Follow up:\nSo the final answer is:\n",
		"Intermediate answer: x", "So the final answer is: Follow up: Intermediate answer:",
	}
	for _, in := range inputs {
		d := selfask.Parse(in, labels)
		if d.Kind != selfask.DecisionUnparseable && d.Text == "" {
			t.Errorf("Parse(%q): got %s with empty text", in, d.Kind)
		}
	}
}
