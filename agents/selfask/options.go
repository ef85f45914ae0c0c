/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package selfask

import (
	"errors"
	"maps"

	"chainguard.dev/selfask/agents/transcript"
)

// Option configures a Loop.
type Option func(*Loop) error

// WithConfig replaces the whole configuration. Options applied after it
// override individual fields.
func WithConfig(cfg Config) Option {
	return func(l *Loop) error {
		l.cfg = cfg
		return nil
	}
}

// WithMaxIterations sets the cap on sub-question/answer cycles.
func WithMaxIterations(n int) Option {
	return func(l *Loop) error {
		if n < 1 {
			return errors.New("max iterations must be at least 1")
		}
		l.cfg.MaxIterations = n
		return nil
	}
}

// WithRegenerateOnParseFailure enables or disables the single regeneration
// after unparseable output.
func WithRegenerateOnParseFailure(enabled bool) Option {
	return func(l *Loop) error {
		l.cfg.RegenerateOnParseFailure = enabled
		return nil
	}
}

// WithStrictVariableBinding sets whether the template rejects undeclared
// variables.
func WithStrictVariableBinding(strict bool) Option {
	return func(l *Loop) error {
		l.cfg.StrictVariableBinding = strict
		return nil
	}
}

// WithLabels sets the markers the loop parses and writes.
func WithLabels(labels transcript.Labels) Option {
	return func(l *Loop) error {
		if err := labels.Validate(); err != nil {
			return err
		}
		l.cfg.FollowUpMarker = labels.FollowUp
		l.cfg.IntermediateAnswerMarker = labels.IntermediateAnswer
		l.cfg.FinalAnswerMarker = labels.FinalAnswer
		return nil
	}
}

// WithName sets the chain name used in logs, traces and metrics.
func WithName(name string) Option {
	return func(l *Loop) error {
		if name == "" {
			return errors.New("name cannot be empty")
		}
		l.name = name
		return nil
	}
}

// WithModelName records the completion model in traces and metrics.
func WithModelName(model string) Option {
	return func(l *Loop) error {
		l.model = model
		return nil
	}
}

// WithToolName overrides the tool name used in traces and metrics. By default
// it is taken from a toolcall.Tool, or "tool".
func WithToolName(name string) Option {
	return func(l *Loop) error {
		if name == "" {
			return errors.New("tool name cannot be empty")
		}
		l.toolName = name
		return nil
	}
}

// WithVariables supplies values for template variables other than the
// question. They are bound on every run.
func WithVariables(vars map[string]string) Option {
	return func(l *Loop) error {
		if l.static == nil {
			l.static = make(map[string]string, len(vars))
		}
		maps.Copy(l.static, vars)
		return nil
	}
}

// WithTransitionHook registers fn to observe every state change of every run.
// fn must not block.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(l *Loop) error {
		l.hook = fn
		return nil
	}
}
