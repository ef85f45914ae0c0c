/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder renders prompts from {{name}} templates.

Two layers are provided. Prompt is the low-level immutable builder: each
Bind call returns a new Prompt and Build fails while any placeholder is still
unbound. Template sits on top of Prompt and is what chains use: it declares
its variables up front and renders them all at once from a map.

# Templates

A Template is checked when it is constructed. Every placeholder in the text
must be declared and every declared variable must appear in the text:

	tmpl, err := promptbuilder.NewTemplate(
		"Question: {{question}}\nAre follow up questions needed here:",
		[]string{"question"},
	)
	if errors.Is(err, promptbuilder.ErrTemplateMismatch) {
		// placeholders and declared variables disagree
	}

	prompt, err := tmpl.Render(map[string]string{"question": q})

Render fails with ErrMissingVariable when a declared variable is absent. In
the default Strict mode it fails with ErrUnexpectedVariable when the map has
a key the template does not declare; WithMode(Lenient) ignores such keys.

NewTemplate only accepts string literals. Templates read from configuration
files go through ParseTemplate, which applies the same checks.

# Prompts

	p := promptbuilder.MustNewPrompt(`Analyze: {{data}} using {{rules}}`)
	p = p.MustBindJSON("data", payload)
	p = p.MustBindStringLiteral("rules", "the house style")
	text, err := p.Build()

BindJSON, BindXML and BindYAML encode structured values. BindStringLiteral
only accepts developer literals. BindString inserts a runtime string verbatim.

# Template Syntax

Placeholder names start with a letter and contain letters, digits and
underscores. Surrounding spaces inside the braces are ignored. Empty,
malformed or unclosed placeholders are construction errors.

Substitution is single pass, so a value that itself contains {{name}} is
inserted as-is and never expanded.

# Thread Safety

Prompts and Templates are immutable after construction and may be shared
between goroutines. Render and Build have no side effects.
*/
package promptbuilder
