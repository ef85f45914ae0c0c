/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
)

// stringLiteral is a private type alias that only accepts literal strings
type stringLiteral string

// Prompt is an immutable template with bindable {{name}} placeholders.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt creates a new prompt from a template literal and parses bindings
func NewPrompt(template stringLiteral) (*Prompt, error) {
	return parsePrompt(string(template))
}

// parsePrompt tokenizes text and registers every placeholder as unbound.
func parsePrompt(text string) (*Prompt, error) {
	names, err := placeholderNames(text)
	if err != nil {
		return nil, err
	}
	bindings := make(map[string]binding, len(names))
	for _, name := range names {
		bindings[name] = &unboundBinding{name: name}
	}
	return &Prompt{
		template: text,
		bindings: bindings,
	}, nil
}

// GetBindings returns the names of all bindings found in the template as a set
func (p *Prompt) GetBindings() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

// with returns a copy of p where name is bound to b.
func (p *Prompt) with(name string, b binding) (*Prompt, error) {
	if err := existsAndUnbound(p.bindings, name); err != nil {
		return nil, err
	}
	next := &Prompt{
		template: p.template,
		bindings: maps.Clone(p.bindings),
	}
	next.bindings[name] = b
	return next, nil
}

// BindStringLiteral binds a developer-provided literal to a placeholder.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.with(name, &literalBinding{val: string(value)})
}

// BindString binds a runtime string to a placeholder verbatim, with no
// encoder. Placeholder syntax inside value is never expanded.
func (p *Prompt) BindString(name, value string) (*Prompt, error) {
	return p.with(name, &literalBinding{val: value})
}

// BindXML binds structured data to a placeholder by marshaling it as XML
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.with(name, xmlBinding(data))
}

// BindJSON binds structured data to a placeholder by marshaling it as JSON
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.with(name, jsonBinding(data))
}

// BindYAML binds structured data to a placeholder by marshaling it as YAML
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.with(name, yamlBinding(data))
}

// Build constructs the final prompt, returning an error if any bindings are unbound
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		val, err := b.value()
		if err != nil {
			return "", err
		}
		values[name] = val
	}

	return walkTemplate(p.template, func(name string) (string, error) {
		if val, exists := values[name]; exists {
			return val, nil
		}
		return "", fmt.Errorf("internal error: binding %q not found in values map", name)
	})
}
