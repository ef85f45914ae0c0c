/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chainconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"chainguard.dev/selfask/agents/chain"
	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/completion/dispatch"
	"chainguard.dev/selfask/agents/promptbuilder"
	"chainguard.dev/selfask/agents/selfask"
	"chainguard.dev/selfask/agents/toolcall"
	"chainguard.dev/selfask/agents/toolcall/requests"
	"github.com/chainguard-dev/clog"
	"gopkg.in/yaml.v3"
)

// Type names a kind of chain.
type Type string

const (
	TypeSelfAsk   Type = "self-ask-with-search"
	TypeLLM       Type = "llm"
	TypeMath      Type = "llm-math"
	TypeAPI       Type = "api"
	TypeSummarize Type = "summarize"
)

// Definition describes a chain to build.
type Definition struct {
	Type Type `json:"type" yaml:"type"`
	// Name overrides the chain's default name in logs, traces and metrics.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Model selects the completion backend; see dispatch.ProviderFor.
	Model string `json:"model" yaml:"model"`

	// Prompt replaces the chain's default prompt. It must reference
	// {{question}} and may reference the keys of Variables.
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	// Variables are bound on every run alongside the question.
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Tool is the registered tool the chain calls. self-ask-with-search
	// requires one; llm-math defaults to "calculator".
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`
	// Stop sequences for llm and summarize chains.
	Stop []string `json:"stop,omitempty" yaml:"stop,omitempty"`
	// Loop configures self-ask-with-search. Unset fields keep their defaults.
	Loop selfask.Config `json:"loop" yaml:"loop"`
	// API configures api chains.
	API APIConfig `json:"api,omitzero" yaml:"api,omitempty"`
	// Summarize configures summarize chains, whose prompt references
	// {{text}} in place of {{question}}.
	Summarize chain.SummarizeConfig `json:"summarize,omitzero" yaml:"summarize,omitempty"`
	// RefinePrompt replaces the refine prompt of summarize chains. It must
	// reference {{existing_answer}} and {{text}}.
	RefinePrompt string `json:"refine_prompt,omitempty" yaml:"refine_prompt,omitempty"`
}

// APIConfig configures an api chain.
type APIConfig struct {
	// Docs describe the API's endpoints and parameters to the model.
	Docs string `json:"docs" yaml:"docs"`
	// AnswerPrompt replaces the prompt that answers from the API response.
	// It may reference {{question}}, {{api_docs}}, {{api_url}} and
	// {{api_response}}, and must reference the first and last.
	AnswerPrompt string `json:"answer_prompt,omitempty" yaml:"answer_prompt,omitempty"`
	// Requests configures the HTTP getter when Tool is not set. Restrict
	// AllowedHosts to the API's host.
	Requests requests.Config `json:"requests" yaml:"requests"`
}

// Parse decodes a YAML or JSON definition and validates it. Unknown fields
// are errors.
func Parse(data []byte) (*Definition, error) {
	def := &Definition{Loop: selfask.DefaultConfig()}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(def); err != nil {
		return nil, fmt.Errorf("decoding chain definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// Load reads a definition from path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Validate checks the fields every chain type needs.
func (d *Definition) Validate() error {
	switch d.Type {
	case TypeSelfAsk:
		if d.Tool == "" {
			return fmt.Errorf("%s chains require a tool", d.Type)
		}
		if err := d.Loop.Validate(); err != nil {
			return fmt.Errorf("loop: %w", err)
		}
	case TypeAPI:
		if strings.TrimSpace(d.API.Docs) == "" {
			return fmt.Errorf("%s chains require api.docs", d.Type)
		}
		for _, key := range []string{chain.APIDocsKey, chain.APIURLKey, chain.APIResponseKey} {
			if _, ok := d.Variables[key]; ok {
				return fmt.Errorf("variable %q is bound by the chain and cannot be set", key)
			}
		}
	case TypeSummarize:
		if err := d.Summarize.Validate(); err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
		if _, ok := d.Variables[chain.TextKey]; ok {
			return fmt.Errorf("variable %q is bound per run and cannot be set", chain.TextKey)
		}
	case TypeLLM, TypeMath:
	case "":
		return errors.New("chain type is required")
	default:
		return fmt.Errorf("unknown chain type %q (expected %q, %q, %q, %q or %q)", d.Type, TypeSelfAsk, TypeLLM, TypeMath, TypeAPI, TypeSummarize)
	}
	if d.Model == "" {
		return errors.New("model is required")
	}
	if _, err := dispatch.ProviderFor(d.Model); err != nil {
		return err
	}
	if _, ok := d.Variables[chain.InputKey]; ok {
		return fmt.Errorf("variable %q is bound per run and cannot be set", chain.InputKey)
	}
	return nil
}

// template parses the prompt override, if any, declaring the question and
// every configured variable.
func (d *Definition) template() (*promptbuilder.Template, error) {
	if d.Prompt == "" {
		return nil, nil
	}
	input := chain.InputKey
	if d.Type == TypeSummarize {
		input = chain.TextKey
	}
	vars := append([]string{input}, slices.Sorted(maps.Keys(d.Variables))...)
	if d.Type == TypeAPI {
		vars = append(vars, chain.APIDocsKey)
	}
	tmpl, err := promptbuilder.ParseTemplate(d.Prompt, vars)
	if err != nil {
		return nil, chain.ConfigurationError(fmt.Errorf("prompt: %w", err))
	}
	return tmpl, nil
}

// secondaryTemplate parses the override of a chain's second prompt, if any,
// declaring the placeholders it references.
func secondaryTemplate(what, text string) (*promptbuilder.Template, error) {
	if text == "" {
		return nil, nil
	}
	vars, err := promptbuilder.Placeholders(text)
	if err == nil {
		var tmpl *promptbuilder.Template
		if tmpl, err = promptbuilder.ParseTemplate(text, vars); err == nil {
			return tmpl, nil
		}
	}
	return nil, chain.ConfigurationError(fmt.Errorf("%s: %w", what, err))
}

// ClientFactory creates the completion client for a model.
type ClientFactory func(ctx context.Context, model string) (completion.Client, error)

// Builder turns definitions into chains.
type Builder struct {
	// Tools resolves Definition.Tool.
	Tools *toolcall.Registry
	// NewClient creates completion clients. Nil uses dispatch.New with only
	// the model set, so credentials come from the environment.
	NewClient ClientFactory
}

func (b Builder) client(ctx context.Context, model string) (completion.Client, error) {
	if b.NewClient != nil {
		return b.NewClient(ctx, model)
	}
	return dispatch.New(ctx, dispatch.Config{Model: model})
}

func (b Builder) tool(name string) (toolcall.Tool, error) {
	if b.Tools == nil {
		return toolcall.Tool{}, fmt.Errorf("no tool registry to resolve %q", name)
	}
	return b.Tools.Lookup(name)
}

// Build constructs the chain def describes. Failures to assemble the chain,
// including tool and client construction, are chain.ReasonConfiguration
// errors.
func (b Builder) Build(ctx context.Context, def *Definition) (chain.Chain, error) {
	if err := def.Validate(); err != nil {
		return nil, chain.ConfigurationError(err)
	}
	tmpl, err := def.template()
	if err != nil {
		return nil, err
	}
	client, err := b.client(ctx, def.Model)
	if err != nil {
		return nil, chain.ConfigurationError(fmt.Errorf("completion client: %w", err))
	}
	clog.FromContext(ctx).With("type", def.Type).With("model", def.Model).With("tool", def.Tool).Debug("Building chain")

	switch def.Type {
	case TypeSelfAsk:
		tool, err := b.tool(def.Tool)
		if err != nil {
			return nil, chain.ConfigurationError(err)
		}
		opts := []selfask.Option{
			selfask.WithConfig(def.Loop),
			selfask.WithModelName(def.Model),
			selfask.WithVariables(def.Variables),
		}
		if def.Name != "" {
			opts = append(opts, selfask.WithName(def.Name))
		}
		l, err := selfask.New(client, tool, tmpl, opts...)
		if err != nil {
			return nil, err
		}
		return l, nil

	case TypeMath:
		name := def.Tool
		if name == "" {
			name = "calculator"
		}
		tool, err := b.tool(name)
		if err != nil {
			return nil, chain.ConfigurationError(err)
		}
		opts := append(chainOptions(def), chain.WithVariables(def.Variables))
		if tmpl != nil {
			opts = append(opts, chain.WithTemplate(tmpl))
		}
		m, err := chain.NewMath(client, tool, opts...)
		if err != nil {
			return nil, err
		}
		return m, nil

	case TypeAPI:
		var getter toolcall.Invoker
		if def.Tool != "" {
			tool, err := b.tool(def.Tool)
			if err != nil {
				return nil, chain.ConfigurationError(err)
			}
			getter = tool
		} else {
			g, err := requests.New(def.API.Requests, nil)
			if err != nil {
				return nil, chain.ConfigurationError(err)
			}
			getter = g
		}
		opts := append(chainOptions(def), chain.WithVariables(def.Variables))
		if tmpl != nil {
			opts = append(opts, chain.WithTemplate(tmpl))
		}
		answer, err := secondaryTemplate("answer prompt", def.API.AnswerPrompt)
		if err != nil {
			return nil, err
		}
		if answer != nil {
			opts = append(opts, chain.WithAnswerTemplate(answer))
		}
		c, err := chain.NewAPI(client, getter, def.API.Docs, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil

	case TypeSummarize:
		opts := append(chainOptions(def), chain.WithVariables(def.Variables), chain.WithStop(def.Stop...))
		if tmpl != nil {
			opts = append(opts, chain.WithTemplate(tmpl))
		}
		refine, err := secondaryTemplate("refine prompt", def.RefinePrompt)
		if err != nil {
			return nil, err
		}
		if refine != nil {
			opts = append(opts, chain.WithRefineTemplate(refine))
		}
		c, err := chain.NewSummarize(client, def.Summarize, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		if tmpl == nil {
			tmpl = promptbuilder.MustNewTemplate("{{question}}", []string{chain.InputKey})
		}
		opts := append(chainOptions(def), chain.WithVariables(def.Variables), chain.WithStop(def.Stop...))
		c, err := chain.NewLLM(client, tmpl, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func chainOptions(def *Definition) []chain.Option {
	opts := []chain.Option{chain.WithModelName(def.Model)}
	if def.Name != "" {
		opts = append(opts, chain.WithName(def.Name))
	}
	return opts
}
