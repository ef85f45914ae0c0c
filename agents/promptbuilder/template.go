/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	// ErrTemplateMismatch is returned at construction when the placeholders in
	// a template and its declared variables differ.
	ErrTemplateMismatch = errors.New("template placeholders do not match declared variables")

	// ErrMissingVariable is returned by Render when a declared variable has no value.
	ErrMissingVariable = errors.New("missing variable")

	// ErrUnexpectedVariable is returned by Render in strict mode when a value is
	// supplied for a variable the template does not declare.
	ErrUnexpectedVariable = errors.New("unexpected variable")
)

// Mode selects how Render treats values for undeclared variables.
type Mode int

const (
	// Strict rejects undeclared variables.
	Strict Mode = iota
	// Lenient ignores undeclared variables.
	Lenient
)

// String implements fmt.Stringer
func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Template is an immutable prompt with a declared, ordered set of variables
// that are supplied together at render time.
type Template struct {
	prompt    *Prompt
	variables []string
	declared  map[string]struct{}
	mode      Mode
}

// TemplateOption configures a Template at construction.
type TemplateOption func(*Template) error

// WithMode sets the variable binding mode. The default is Strict.
func WithMode(mode Mode) TemplateOption {
	return func(t *Template) error {
		switch mode {
		case Strict, Lenient:
			t.mode = mode
			return nil
		default:
			return fmt.Errorf("unknown binding mode %d", int(mode))
		}
	}
}

// NewTemplate creates a template from a literal and its declared variables.
func NewTemplate(text stringLiteral, variables []string, opts ...TemplateOption) (*Template, error) {
	return newTemplate(string(text), variables, opts...)
}

// ParseTemplate creates a template from text that was not written as a Go
// literal, typically a prompt loaded from a chain definition file.
func ParseTemplate(text string, variables []string, opts ...TemplateOption) (*Template, error) {
	return newTemplate(text, variables, opts...)
}

// Placeholders returns the distinct placeholder names in text, in order of
// first appearance, for declaring a template whose variables come from the
// text itself.
func Placeholders(text string) ([]string, error) {
	return placeholderNames(text)
}

func newTemplate(text string, variables []string, opts ...TemplateOption) (*Template, error) {
	p, err := parsePrompt(text)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]struct{}, len(variables))
	for _, v := range variables {
		if !isValidIdentifier(v) {
			return nil, fmt.Errorf("invalid variable name %q", v)
		}
		if _, dup := declared[v]; dup {
			return nil, fmt.Errorf("variable %q declared more than once", v)
		}
		declared[v] = struct{}{}
	}

	placeholders := p.GetBindings()
	var undeclared, unused []string
	for name := range placeholders {
		if _, ok := declared[name]; !ok {
			undeclared = append(undeclared, name)
		}
	}
	for _, v := range variables {
		if _, ok := placeholders[v]; !ok {
			unused = append(unused, v)
		}
	}
	if len(undeclared) > 0 || len(unused) > 0 {
		sort.Strings(undeclared)
		return nil, fmt.Errorf("%w: undeclared placeholders %q, unused variables %q",
			ErrTemplateMismatch, undeclared, unused)
	}

	t := &Template{
		prompt:    p,
		variables: slices.Clone(variables),
		declared:  declared,
		mode:      Strict,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return t, nil
}

// Variables returns the declared variable names in declaration order.
func (t *Template) Variables() []string {
	return slices.Clone(t.variables)
}

// Mode returns the binding mode the template was built with.
func (t *Template) Mode() Mode {
	return t.mode
}

// InMode returns a copy of the template that binds variables in mode.
func (t *Template) InMode(mode Mode) (*Template, error) {
	c := *t
	if err := WithMode(mode)(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Prompt returns the unbound prompt underlying the template.
func (t *Template) Prompt() *Prompt {
	return t.prompt
}

// Render substitutes vars into the template. Every declared variable must be
// present. In Strict mode any other key is an error, in Lenient mode it is
// ignored. Substitution is single pass: values are inserted verbatim and are
// never scanned for placeholders.
func (t *Template) Render(vars map[string]string) (string, error) {
	p := t.prompt
	for _, name := range t.variables {
		val, ok := vars[name]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrMissingVariable, name)
		}
		var err error
		if p, err = p.BindString(name, val); err != nil {
			return "", err
		}
	}

	if t.mode == Strict {
		var extra []string
		for name := range vars {
			if _, ok := t.declared[name]; !ok {
				extra = append(extra, name)
			}
		}
		if len(extra) > 0 {
			sort.Strings(extra)
			return "", fmt.Errorf("%w: %q", ErrUnexpectedVariable, extra)
		}
	}

	return p.Build()
}
