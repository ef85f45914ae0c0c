/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package selfask

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/chain"
	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/metrics"
	"chainguard.dev/selfask/agents/promptbuilder"
	"chainguard.dev/selfask/agents/toolcall"
	"chainguard.dev/selfask/agents/transcript"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
)

// DefaultName is the chain name used when WithName is not given.
const DefaultName = "self-ask-with-search"

const meterName = "chainguard.dev/selfask"

// Loop answers questions by alternating completions with tool calls until the
// model writes a final answer. A Loop holds no per-run state and is safe for
// concurrent use.
type Loop struct {
	client   completion.Client
	invoker  toolcall.Invoker
	tmpl     *promptbuilder.Template
	cfg      Config
	labels   transcript.Labels
	stop     []string
	name     string
	model    string
	toolName string
	static   map[string]string
	hook     func(from, to State)

	chainMetrics *metrics.Chains
	genaiMetrics *metrics.GenAI
}

var _ chain.Chain = (*Loop)(nil)

// New builds a Loop. A nil tmpl selects NewDefaultTemplate for the configured
// labels. Any inconsistency between the template, its variables and the
// configuration is reported here as a chain.ReasonConfiguration error, never
// from Run.
func New(client completion.Client, invoker toolcall.Invoker, tmpl *promptbuilder.Template, opts ...Option) (*Loop, error) {
	if client == nil {
		return nil, chain.ConfigurationError(errors.New("completion client is required"))
	}
	if invoker == nil {
		return nil, chain.ConfigurationError(errors.New("tool invoker is required"))
	}

	l := &Loop{
		client:   client,
		invoker:  invoker,
		cfg:      DefaultConfig(),
		name:     DefaultName,
		toolName: "tool",
	}
	if t, ok := invoker.(toolcall.Tool); ok && t.Name != "" {
		l.toolName = t.Name
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, chain.ConfigurationError(fmt.Errorf("failed to apply option: %w", err))
		}
	}
	if err := l.cfg.Validate(); err != nil {
		return nil, chain.ConfigurationError(err)
	}
	l.labels = l.cfg.Labels()
	l.stop = []string{"\n" + l.labels.IntermediateAnswer}

	mode := promptbuilder.Lenient
	if l.cfg.StrictVariableBinding {
		mode = promptbuilder.Strict
	}
	var err error
	if tmpl == nil {
		tmpl, err = NewDefaultTemplate(l.labels, mode)
	} else {
		tmpl, err = tmpl.InMode(mode)
	}
	if err != nil {
		return nil, chain.ConfigurationError(err)
	}
	l.tmpl = tmpl

	if !slices.Contains(tmpl.Variables(), chain.InputKey) {
		return nil, chain.ConfigurationError(fmt.Errorf("template does not declare the %q variable", chain.InputKey))
	}
	if _, ok := l.static[chain.InputKey]; ok {
		return nil, chain.ConfigurationError(fmt.Errorf("variable %q is bound per run and cannot be static", chain.InputKey))
	}
	// Render once with an empty question so binding errors surface now.
	if _, err := l.tmpl.Render(l.variables("")); err != nil {
		return nil, chain.ConfigurationError(err)
	}

	l.chainMetrics = metrics.NewChains(meterName)
	l.genaiMetrics = metrics.NewGenAI(meterName)
	l.genaiMetrics.SetAttributeEnricher(metrics.ExecutionContextEnricher)
	return l, nil
}

// Config returns the configuration the loop was built with.
func (l *Loop) Config() Config {
	return l.cfg
}

// Name returns the chain name.
func (l *Loop) Name() string {
	return l.name
}

func (l *Loop) variables(question string) map[string]string {
	vars := make(map[string]string, len(l.static)+1)
	maps.Copy(vars, l.static)
	vars[chain.InputKey] = question
	return vars
}

// Run implements chain.Chain.
func (l *Loop) Run(ctx context.Context, question string) (chain.Answer, error) {
	execCtx := agenttrace.GetExecutionContext(ctx)
	execCtx.ChainName = l.name
	execCtx.RunID = uuid.NewString()
	if l.model != "" {
		execCtx.Model = l.model
	}
	ctx = agenttrace.WithExecutionContext(ctx, execCtx)
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("chain", l.name, "run_id", execCtx.RunID))

	r := &run{
		loop:       l,
		transcript: transcript.New(l.labels),
		trace:      agenttrace.StartTrace(ctx, question),
		state:      StateInit,
	}
	answer, err := r.drive(ctx, question)
	r.trace.Complete(answer.Text, err)

	outcome := "success"
	if err != nil {
		outcome = string(chain.ReasonOf(err))
	}
	l.chainMetrics.RecordRun(ctx, l.name, outcome, r.iterations)
	if err != nil {
		return chain.Answer{}, err
	}
	answer.RunID = execCtx.RunID
	return answer, nil
}

// run is the state of a single Run call.
type run struct {
	loop        *Loop
	transcript  *transcript.Builder
	trace       *agenttrace.Trace
	state       State
	iterations  int
	regenerated bool
}

func (r *run) transition(ctx context.Context, to State) {
	from := r.state
	r.state = to
	clog.DebugContextf(ctx, "selfask: %s -> %s", from, to)
	if r.loop.hook != nil {
		r.loop.hook(from, to)
	}
}

func (r *run) fail(ctx context.Context, reason chain.Reason, cause error) error {
	return r.failWith(ctx, &chain.Error{
		Reason:     reason,
		Cause:      cause,
		Transcript: r.transcript.Segments(),
		Iterations: r.iterations,
	})
}

func (r *run) failWith(ctx context.Context, err error) error {
	r.transition(ctx, StateFailed)
	chain.LogFailure(ctx, err, "iterations", r.iterations)
	return err
}

func (r *run) drive(ctx context.Context, question string) (chain.Answer, error) {
	l := r.loop
	base, err := l.tmpl.Render(l.variables(question))
	if err != nil {
		return chain.Answer{}, r.fail(ctx, chain.ReasonConfiguration, err)
	}
	r.transition(ctx, StateGenerating)

	for {
		prompt := base + r.transcript.PromptSuffix()
		output, err := r.complete(ctx, prompt)
		if err != nil {
			return chain.Answer{}, r.failWith(ctx, err)
		}
		d := Parse(output, l.labels)

		if d.Kind == DecisionUnparseable {
			l.chainMetrics.RecordParseFailure(ctx, l.name)
			clog.FromContext(ctx).With("output", output).Warn("Model output matched no marker")
			if !l.cfg.RegenerateOnParseFailure || r.regenerated {
				return chain.Answer{}, r.fail(ctx, chain.ReasonUnparseableOutput, unparseable(output, l.labels))
			}
			r.regenerated = true
			l.chainMetrics.RecordRegeneration(ctx, l.name)
			output, err = r.complete(ctx, prompt+"\n"+FormatReminder(l.labels)+"\n")
			if err != nil {
				return chain.Answer{}, r.failWith(ctx, err)
			}
			if d = Parse(output, l.labels); d.Kind == DecisionUnparseable {
				l.chainMetrics.RecordParseFailure(ctx, l.name)
				return chain.Answer{}, r.fail(ctx, chain.ReasonUnparseableOutput, unparseable(output, l.labels))
			}
		}

		if d.Kind == DecisionFollowUp && r.iterations >= l.cfg.MaxIterations {
			return chain.Answer{}, r.fail(ctx, chain.ReasonIterationLimitExceeded,
				fmt.Errorf("model asked %q after %d tool calls", d.Text, r.iterations))
		}

		// The rendered suffix must start on its own line, so the first segment is
		// always recorded even when the model wrote nothing before the marker.
		if d.Preamble != "" || r.transcript.Len() == 0 {
			r.transcript.Append(transcript.Segment{Kind: transcript.Continuation, Text: d.Preamble})
		}

		switch d.Kind {
		case DecisionFinalAnswer:
			r.transcript.Append(transcript.Segment{Kind: transcript.FinalAnswer, Text: d.Text})
			r.transition(ctx, StateDone)
			clog.FromContext(ctx).With("iterations", r.iterations).Info("Run completed")
			return chain.Answer{
				Text:       d.Text,
				Transcript: r.transcript.Segments(),
				Iterations: r.iterations,
			}, nil

		case DecisionFollowUp:
			r.transcript.Append(transcript.Segment{Kind: transcript.FollowUp, Text: d.Text})
			r.transition(ctx, StateAwaitingTool)

			result, err := r.invoke(ctx, d.Text)
			if err != nil {
				return chain.Answer{}, r.failWith(ctx, err)
			}
			r.transcript.Append(transcript.Segment{Kind: transcript.IntermediateAnswer, Text: oneLine(result)})
			r.iterations++
			r.transition(ctx, StateGenerating)
		}
	}
}

// complete issues one completion call, checking for cancellation first.
func (r *run) complete(ctx context.Context, prompt string) (string, error) {
	if err := chain.CheckCancelled(ctx, r.transcript.Segments(), r.iterations); err != nil {
		return "", err
	}
	stop := r.loop.stop
	cctx, c := r.trace.StartCompletion(ctx, prompt, stop)
	output, err := r.loop.client.Complete(cctx, prompt, stop)
	c.Complete(output, err)
	if err != nil {
		return "", chain.CollaboratorError(ctx, err, r.transcript.Segments(), r.iterations)
	}
	return completion.Truncate(output, stop), nil
}

// invoke issues one tool call, checking for cancellation first.
func (r *run) invoke(ctx context.Context, query string) (string, error) {
	if err := chain.CheckCancelled(ctx, r.transcript.Segments(), r.iterations); err != nil {
		return "", err
	}
	l := r.loop
	tctx, tc := r.trace.StartToolCall(ctx, l.toolName, query)
	result, err := l.invoker.Invoke(tctx, query)
	tc.Complete(result, err)
	l.genaiMetrics.RecordToolCall(ctx, l.model, l.toolName)
	if err != nil {
		return "", chain.CollaboratorError(ctx, toolcall.Wrap(l.toolName, err), r.transcript.Segments(), r.iterations)
	}
	return result, nil
}

// oneLine folds a tool result onto a single line so it cannot be mistaken for
// a label the model wrote.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func unparseable(output string, labels transcript.Labels) error {
	const limit = 200
	if len(output) > limit {
		output = output[:limit] + "..."
	}
	return fmt.Errorf("output %q contains neither %q nor %q", output, labels.FinalAnswer, labels.FollowUp)
}
