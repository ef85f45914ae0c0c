/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// This file contains helpers that panic on error, for package-level variables
// built from templates that are known to be valid.

// Must wraps a call returning (*Prompt, error) and panics if the error is non-nil:
//
//	var p = promptbuilder.Must(promptbuilder.NewPrompt(`Hello {{name}}`))
func Must(p *Prompt, err error) *Prompt {
	if err != nil {
		panic(err)
	}
	return p
}

// MustNewPrompt is Must(NewPrompt(...)).
func MustNewPrompt(template stringLiteral) *Prompt {
	return Must(NewPrompt(template))
}

// MustNewTemplate is NewTemplate that panics on error.
func MustNewTemplate(text stringLiteral, variables []string, opts ...TemplateOption) *Template {
	t, err := NewTemplate(text, variables, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// MustBindStringLiteral is Must(p.BindStringLiteral(...)).
func (p *Prompt) MustBindStringLiteral(name string, value stringLiteral) *Prompt {
	return Must(p.BindStringLiteral(name, value))
}

// MustBindXML is Must(p.BindXML(...)).
func (p *Prompt) MustBindXML(name string, data any) *Prompt {
	return Must(p.BindXML(name, data))
}

// MustBindJSON is Must(p.BindJSON(...)).
func (p *Prompt) MustBindJSON(name string, data any) *Prompt {
	return Must(p.BindJSON(name, data))
}

// MustBindYAML is Must(p.BindYAML(...)).
func (p *Prompt) MustBindYAML(name string, data any) *Prompt {
	return Must(p.BindYAML(name, data))
}
