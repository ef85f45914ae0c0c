/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"fmt"
	"strings"
)

// JudgmentMode specifies the type of judgment to perform.
type JudgmentMode string

const (
	// GoldenMode evaluates an answer against a reference answer.
	GoldenMode JudgmentMode = "golden"
	// StandaloneMode evaluates a single answer against a criterion without a reference.
	StandaloneMode JudgmentMode = "standalone"
)

// Request contains the context for judgment
type Request struct {
	// Mode specifies the judgment mode.
	Mode JudgmentMode `json:"mode"`

	// Question is the question the answer responds to.
	Question string `json:"question"`

	// ReferenceAnswer is the golden answer to compare against.
	ReferenceAnswer string `json:"reference_answer,omitempty"`

	// ActualAnswer is the answer to evaluate.
	ActualAnswer string `json:"actual_answer"`

	// Criterion specifies the evaluation criterion.
	Criterion string `json:"criterion"`
}

// Validate checks that the request carries what its mode needs.
func (r *Request) Validate() error {
	switch r.Mode {
	case GoldenMode:
		if r.ReferenceAnswer == "" {
			return fmt.Errorf("reference_answer is required for %s mode", r.Mode)
		}
	case StandaloneMode:
		if r.ReferenceAnswer != "" {
			return fmt.Errorf("reference_answer must not be provided for %s mode", r.Mode)
		}
	default:
		return fmt.Errorf("unsupported mode: %q", r.Mode)
	}
	if r.ActualAnswer == "" {
		return fmt.Errorf("actual_answer is required for %s mode", r.Mode)
	}
	if r.Criterion == "" {
		return fmt.Errorf("criterion is required for %s mode", r.Mode)
	}
	return nil
}

// Judgement contains the judgment result
type Judgement struct {
	// Mode is the judgment mode used.
	Mode JudgmentMode `json:"mode"`

	// Score is the primary judgment metric from 0.0 (awful) to 1.0 (ideal - matches golden answer).
	Score float64 `json:"score"`

	// Reasoning explains the judgment and score.
	Reasoning string `json:"reasoning"`

	// Suggestions provides improvement recommendations. May be empty for perfect scores.
	Suggestions []string `json:"suggestions"`
}

// String returns a formatted representation of the judgment similar to trace output
func (j *Judgement) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Grade: %.2f", j.Score)
	if j.Reasoning != "" {
		fmt.Fprintf(&sb, " - %s", j.Reasoning)
	}
	sb.WriteString("\n")

	for _, suggestion := range j.Suggestions {
		fmt.Fprintf(&sb, "  Suggestion: %s\n", suggestion)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// Interface defines the contract for judge implementations
type Interface interface {
	// Judge evaluates an answer against the request's criterion, and against
	// the reference answer in golden mode.
	Judge(ctx context.Context, request *Request) (*Judgement, error)
}
