/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/metrics"
	"chainguard.dev/selfask/agents/promptbuilder"
	"chainguard.dev/selfask/agents/transcript"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
)

const meterName = "chainguard.dev/selfask"

// base holds what single-completion chains share: a client, a template bound
// to the run input, and run bookkeeping.
type base struct {
	options
	// input is the template variable each run's input is bound to.
	input   string
	client  completion.Client
	metrics *metrics.Chains
}

func newBase(client completion.Client, tmpl *promptbuilder.Template, defaultName string, opts []Option) (*base, error) {
	return newBaseFor(client, tmpl, defaultName, InputKey, opts)
}

func newBaseFor(client completion.Client, tmpl *promptbuilder.Template, defaultName, input string, opts []Option) (*base, error) {
	if client == nil {
		return nil, ConfigurationError(errors.New("completion client is required"))
	}
	b := &base{client: client, input: input, options: options{name: defaultName}}
	for _, opt := range opts {
		if err := opt(&b.options); err != nil {
			return nil, ConfigurationError(fmt.Errorf("failed to apply option: %w", err))
		}
	}
	if b.tmpl == nil {
		b.tmpl = tmpl
	}
	if b.tmpl == nil {
		return nil, ConfigurationError(errors.New("template is required"))
	}
	if !slices.Contains(b.tmpl.Variables(), input) {
		return nil, ConfigurationError(fmt.Errorf("template does not declare the %q variable", input))
	}
	if _, ok := b.static[input]; ok {
		return nil, ConfigurationError(fmt.Errorf("variable %q is bound per run and cannot be static", input))
	}
	if _, err := b.tmpl.Render(b.variables("")); err != nil {
		return nil, ConfigurationError(err)
	}
	b.metrics = metrics.NewChains(meterName)
	return b, nil
}

func (b *base) variables(input string) map[string]string {
	vars := make(map[string]string, len(b.static)+1)
	maps.Copy(vars, b.static)
	vars[b.input] = input
	return vars
}

// declared returns the entries of all that tmpl declares, for templates that
// may leave out some of a chain's variables.
func declared(tmpl *promptbuilder.Template, all map[string]string) map[string]string {
	vars := make(map[string]string, len(all))
	for _, name := range tmpl.Variables() {
		if v, ok := all[name]; ok {
			vars[name] = v
		}
	}
	return vars
}

// begin prepares the context and trace for one run.
func (b *base) begin(ctx context.Context, question string) (context.Context, *agenttrace.Trace, string) {
	execCtx := agenttrace.GetExecutionContext(ctx)
	execCtx.ChainName = b.name
	execCtx.RunID = uuid.NewString()
	if b.model != "" {
		execCtx.Model = b.model
	}
	ctx = agenttrace.WithExecutionContext(ctx, execCtx)
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("chain", b.name, "run_id", execCtx.RunID))
	return ctx, agenttrace.StartTrace(ctx, question), execCtx.RunID
}

// end records the outcome of a run.
func (b *base) end(ctx context.Context, trace *agenttrace.Trace, answer Answer, err error) {
	trace.Complete(answer.Text, err)
	outcome := "success"
	if err != nil {
		outcome = string(ReasonOf(err))
		LogFailure(ctx, err)
	}
	b.metrics.RecordRun(ctx, b.name, outcome, answer.Iterations)
}

// complete renders the prompt for question and issues the single completion.
func (b *base) complete(ctx context.Context, trace *agenttrace.Trace, question string, segs *transcript.Builder) (string, error) {
	return b.completeWith(ctx, trace, b.tmpl, b.variables(question), segs)
}

// completeWith renders tmpl with vars and issues one completion, for chains
// that prompt with more than one template.
func (b *base) completeWith(ctx context.Context, trace *agenttrace.Trace, tmpl *promptbuilder.Template, vars map[string]string, segs *transcript.Builder) (string, error) {
	prompt, err := tmpl.Render(vars)
	if err != nil {
		return "", &Error{Reason: ReasonConfiguration, Cause: err}
	}
	if err := CheckCancelled(ctx, nil, 0); err != nil {
		return "", err
	}
	cctx, c := trace.StartCompletion(ctx, prompt, b.stop)
	output, err := b.client.Complete(cctx, prompt, b.stop)
	c.Complete(output, err)
	if err != nil {
		return "", CollaboratorError(ctx, err, segs.Segments(), 0)
	}
	return completion.Truncate(output, b.stop), nil
}
