/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package selfask

import (
	"errors"
	"fmt"

	"chainguard.dev/selfask/agents/transcript"
)

// Config configures a reasoning loop.
type Config struct {
	// MaxIterations bounds the number of sub-question/answer cycles per run.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
	// StrictVariableBinding rejects template variables that the template does
	// not declare.
	StrictVariableBinding bool `json:"strict_variable_binding" yaml:"strict_variable_binding"`
	// RegenerateOnParseFailure allows one regeneration per run, with a format
	// reminder appended to the prompt, when the model output has no marker.
	RegenerateOnParseFailure bool `json:"regenerate_on_parse_failure" yaml:"regenerate_on_parse_failure"`

	// The markers must match what the prompt instructs the model to write.
	FollowUpMarker           string `json:"follow_up_marker" yaml:"follow_up_marker"`
	IntermediateAnswerMarker string `json:"intermediate_answer_marker" yaml:"intermediate_answer_marker"`
	FinalAnswerMarker        string `json:"final_answer_marker" yaml:"final_answer_marker"`
}

// DefaultConfig returns the default loop configuration.
func DefaultConfig() Config {
	l := transcript.DefaultLabels()
	return Config{
		MaxIterations:            6,
		StrictVariableBinding:    true,
		RegenerateOnParseFailure: true,
		FollowUpMarker:           l.FollowUp,
		IntermediateAnswerMarker: l.IntermediateAnswer,
		FinalAnswerMarker:        l.FinalAnswer,
	}
}

// Labels returns the transcript labels the markers describe.
func (c Config) Labels() transcript.Labels {
	return transcript.Labels{
		FollowUp:           c.FollowUpMarker,
		IntermediateAnswer: c.IntermediateAnswerMarker,
		FinalAnswer:        c.FinalAnswerMarker,
	}
}

// Validate checks that the configuration has valid values.
func (c Config) Validate() error {
	if c.MaxIterations < 1 {
		return errors.New("max iterations must be at least 1")
	}
	if err := c.Labels().Validate(); err != nil {
		return fmt.Errorf("invalid markers: %w", err)
	}
	return nil
}
