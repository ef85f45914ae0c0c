/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package transcript

import (
	"fmt"
	"strings"
)

// Kind tags a transcript segment.
type Kind int

const (
	// Continuation is free text the model wrote that is not behind a label.
	Continuation Kind = iota
	// FollowUp is a sub-question the model asked.
	FollowUp
	// IntermediateAnswer is a tool's answer to the preceding sub-question.
	IntermediateAnswer
	// FinalAnswer is the model's answer to the original question.
	FinalAnswer
)

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case Continuation:
		return "continuation"
	case FollowUp:
		return "follow_up"
	case IntermediateAnswer:
		return "intermediate_answer"
	case FinalAnswer:
		return "final_answer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler so traces serialize readably.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Segment is one entry of a transcript.
type Segment struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Labels are the markers the model is prompted to write before each labeled
// segment. They are part of the contract with the model and must match the
// few-shot examples in the prompt byte for byte.
type Labels struct {
	FollowUp           string `json:"follow_up" yaml:"follow_up"`
	IntermediateAnswer string `json:"intermediate_answer" yaml:"intermediate_answer"`
	FinalAnswer        string `json:"final_answer" yaml:"final_answer"`
}

// DefaultLabels returns the self-ask-with-search label scheme.
func DefaultLabels() Labels {
	return Labels{
		FollowUp:           "Follow up:",
		IntermediateAnswer: "Intermediate answer:",
		FinalAnswer:        "So the final answer is:",
	}
}

// Validate checks that every label is set, single line, and distinct.
func (l Labels) Validate() error {
	seen := make(map[string]string, 3)
	for _, f := range []struct{ name, label string }{
		{"follow-up", l.FollowUp},
		{"intermediate answer", l.IntermediateAnswer},
		{"final answer", l.FinalAnswer},
	} {
		if strings.TrimSpace(f.label) == "" {
			return fmt.Errorf("%s label cannot be empty", f.name)
		}
		if strings.ContainsAny(f.label, "\r\n") {
			return fmt.Errorf("%s label %q cannot contain a line break", f.name, f.label)
		}
		if other, dup := seen[f.label]; dup {
			return fmt.Errorf("%s label %q duplicates the %s label", f.name, f.label, other)
		}
		seen[f.label] = f.name
	}
	for a, an := range seen {
		for b, bn := range seen {
			if a != b && strings.Contains(a, b) {
				return fmt.Errorf("%s label %q contains the %s label %q", an, a, bn, b)
			}
		}
	}
	return nil
}

// For returns the label written before segments of kind k. Continuation
// segments have no label.
func (l Labels) For(k Kind) string {
	switch k {
	case FollowUp:
		return l.FollowUp
	case IntermediateAnswer:
		return l.IntermediateAnswer
	case FinalAnswer:
		return l.FinalAnswer
	default:
		return ""
	}
}

// Render writes s as a single line terminated by a newline.
func (l Labels) Render(s Segment) string {
	label := l.For(s.Kind)
	switch {
	case label == "":
		return s.Text + "\n"
	case s.Text == "":
		return label + "\n"
	default:
		return label + " " + s.Text + "\n"
	}
}
