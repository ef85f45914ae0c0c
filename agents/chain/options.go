/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"errors"
	"maps"

	"chainguard.dev/selfask/agents/promptbuilder"
)

type options struct {
	name       string
	model      string
	stop       []string
	static     map[string]string
	tmpl       *promptbuilder.Template
	answerTmpl *promptbuilder.Template
	refineTmpl *promptbuilder.Template
}

// Option configures the chains built by this package.
type Option func(*options) error

// WithName sets the chain name used in logs, traces and metrics.
func WithName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return errors.New("name cannot be empty")
		}
		o.name = name
		return nil
	}
}

// WithModelName records the completion model in traces.
func WithModelName(model string) Option {
	return func(o *options) error {
		o.model = model
		return nil
	}
}

// WithStop sets the stop sequences passed to the completion client.
func WithStop(stop ...string) Option {
	return func(o *options) error {
		o.stop = append(o.stop, stop...)
		return nil
	}
}

// WithVariables supplies values for template variables other than the
// question. They are bound on every run.
func WithVariables(vars map[string]string) Option {
	return func(o *options) error {
		if o.static == nil {
			o.static = make(map[string]string, len(vars))
		}
		maps.Copy(o.static, vars)
		return nil
	}
}

// WithTemplate replaces the chain's prompt. The template must declare the
// "question" variable.
func WithTemplate(tmpl *promptbuilder.Template) Option {
	return func(o *options) error {
		if tmpl == nil {
			return errors.New("template cannot be nil")
		}
		o.tmpl = tmpl
		return nil
	}
}

// WithAnswerTemplate replaces the prompt that turns an API response into the
// answer. Only API chains use it.
func WithAnswerTemplate(tmpl *promptbuilder.Template) Option {
	return func(o *options) error {
		if tmpl == nil {
			return errors.New("answer template cannot be nil")
		}
		o.answerTmpl = tmpl
		return nil
	}
}

// WithRefineTemplate replaces the prompt that revises a summary with the next
// chunk. Only Summarize chains use it.
func WithRefineTemplate(tmpl *promptbuilder.Template) Option {
	return func(o *options) error {
		if tmpl == nil {
			return errors.New("refine template cannot be nil")
		}
		o.refineTmpl = tmpl
		return nil
	}
}
