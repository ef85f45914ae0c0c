/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package selfask

import (
	"fmt"
	"strings"

	"chainguard.dev/selfask/agents/transcript"
)

// DecisionKind is the outcome of parsing one model output.
type DecisionKind int

const (
	// DecisionUnparseable means the output contained no usable marker.
	DecisionUnparseable DecisionKind = iota
	// DecisionFinalAnswer means the model answered the original question.
	DecisionFinalAnswer
	// DecisionFollowUp means the model asked a sub-question.
	DecisionFollowUp
)

// String implements fmt.Stringer
func (k DecisionKind) String() string {
	switch k {
	case DecisionUnparseable:
		return "unparseable"
	case DecisionFinalAnswer:
		return "final_answer"
	case DecisionFollowUp:
		return "follow_up"
	default:
		return fmt.Sprintf("DecisionKind(%d)", int(k))
	}
}

// Decision is the parsed form of one model output.
type Decision struct {
	Kind DecisionKind
	// Text is the final answer or the sub-question. Empty when Unparseable.
	Text string
	// Preamble is whatever the model wrote before the marker, with trailing
	// whitespace removed.
	Preamble string
}

// Parse classifies output against labels.
//
// The final-answer marker is checked first, then the follow-up marker.
// Matching is case-sensitive and uses the first occurrence of each marker. A
// marker counts only when non-blank text follows it: Text is the first
// non-blank line after the marker, cut at any other label and trimmed. Output
// with no such marker is DecisionUnparseable.
func Parse(output string, labels transcript.Labels) Decision {
	if pre, text, ok := match(output, labels.FinalAnswer, labels); ok {
		return Decision{Kind: DecisionFinalAnswer, Text: text, Preamble: pre}
	}
	if pre, text, ok := match(output, labels.FollowUp, labels); ok {
		return Decision{Kind: DecisionFollowUp, Text: text, Preamble: pre}
	}
	return Decision{Kind: DecisionUnparseable}
}

func match(output, marker string, labels transcript.Labels) (preamble, text string, ok bool) {
	i := strings.Index(output, marker)
	if i < 0 {
		return "", "", false
	}
	text = firstLine(output[i+len(marker):], labels)
	if text == "" {
		return "", "", false
	}
	return strings.TrimRight(output[:i], " \t\r\n"), text, true
}

// firstLine returns the first non-blank line of s, cut at the earliest label
// occurring on that line.
func firstLine(s string, labels transcript.Labels) string {
	for line := range strings.Lines(s) {
		for _, l := range []string{labels.FollowUp, labels.IntermediateAnswer, labels.FinalAnswer} {
			if j := strings.Index(line, l); j >= 0 {
				line = line[:j]
			}
		}
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
