/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "chainguard.dev/selfask/agents/agenttrace"

func otelTracer() oteltrace.Tracer {
	return otel.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion("1.0.0"))
}

// endSpan records err on span, if any, and ends it.
func endSpan(span oteltrace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Completion records one call to a completion backend.
type Completion struct {
	Prompt       string    `json:"prompt"`
	Stop         []string  `json:"stop,omitempty"`
	Output       string    `json:"output"`
	Model        string    `json:"model,omitempty"`
	InputTokens  int64     `json:"input_tokens,omitempty"`
	OutputTokens int64     `json:"output_tokens,omitempty"`
	Error        error     `json:"error,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	trace        *Trace
	mu           sync.Mutex
	span         oteltrace.Span
}

// ToolCall records one tool invocation.
type ToolCall struct {
	Tool      string    `json:"tool"`
	Query     string    `json:"query"`
	Result    string    `json:"result"`
	Error     error     `json:"error,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	trace     *Trace
	mu        sync.Mutex
	span      oteltrace.Span
}

// Trace records one chain run from question to answer.
type Trace struct {
	ID          string           `json:"id"`
	Chain       string           `json:"chain"`
	Question    string           `json:"question"`
	ExecContext ExecutionContext `json:"exec_context,omitempty"`
	Completions []*Completion    `json:"completions"`
	ToolCalls   []*ToolCall      `json:"tool_calls"`
	Answer      string           `json:"answer"`
	Error       error            `json:"error,omitempty"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Metadata    map[string]any   `json:"metadata,omitempty"`
	tracer      Tracer
	mu          sync.Mutex
	span        oteltrace.Span
}

// newTraceWithTracer creates a trace that reports to tracer on completion.
func newTraceWithTracer(ctx context.Context, tracer Tracer, question string) *Trace {
	execCtx := GetExecutionContext(ctx)
	id := execCtx.RunID
	if id == "" {
		id = uuid.NewString()
	}

	attrs := []attribute.KeyValue{
		attribute.String("run.id", id),
		attribute.String("run.question", question),
	}
	if execCtx.ChainName != "" {
		attrs = append(attrs, attribute.String("chain.name", execCtx.ChainName))
	}
	if execCtx.Model != "" {
		attrs = append(attrs, attribute.String("model", execCtx.Model))
	}
	_, span := otelTracer().Start(ctx, "selfask.run", oteltrace.WithAttributes(attrs...))

	return &Trace{
		ID:          id,
		Chain:       execCtx.ChainName,
		Question:    question,
		ExecContext: execCtx,
		StartTime:   time.Now(),
		Metadata:    make(map[string]any),
		tracer:      tracer,
		span:        span,
	}
}

// Context returns ctx carrying the trace's run span, so collaborators called
// with it create child spans.
func (t *Trace) Context(ctx context.Context) context.Context {
	return oteltrace.ContextWithSpan(ctx, t.span)
}

type completionKey struct{}

// StartCompletion records the start of a completion call. The returned
// context carries the completion so the backend can attach token usage with
// RecordTokenUsage.
func (t *Trace) StartCompletion(ctx context.Context, prompt string, stop []string) (context.Context, *Completion) {
	ctx, span := otelTracer().Start(t.Context(ctx), "selfask.completion", oteltrace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.StringSlice("stop", stop),
	))
	c := &Completion{
		Prompt:    prompt,
		Stop:      stop,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
	return context.WithValue(ctx, completionKey{}, c), c
}

// Complete marks the completion as finished and adds it to the parent trace.
func (c *Completion) Complete(output string, err error) {
	c.mu.Lock()
	c.Output = output
	c.Error = err
	c.EndTime = time.Now()
	span := c.span
	c.mu.Unlock()

	if span != nil {
		span.SetAttributes(attribute.Int("output.length", len(output)))
	}
	endSpan(span, err)

	c.trace.mu.Lock()
	defer c.trace.mu.Unlock()
	c.trace.Completions = append(c.trace.Completions, c)
}

// RecordTokenUsage attaches model and token counts to the completion carried
// by ctx, if any, and to its span. Backends call it once per response.
func RecordTokenUsage(ctx context.Context, model string, inputTokens, outputTokens int64) {
	c, ok := ctx.Value(completionKey{}).(*Completion)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Model = model
	c.InputTokens += inputTokens
	c.OutputTokens += outputTokens
	if c.span != nil {
		c.span.SetAttributes(
			attribute.String("model", model),
			attribute.Int64("tokens.input", c.InputTokens),
			attribute.Int64("tokens.output", c.OutputTokens),
			attribute.Int64("tokens.total", c.InputTokens+c.OutputTokens),
		)
	}
}

// StartToolCall records the start of a tool invocation.
func (t *Trace) StartToolCall(ctx context.Context, tool, query string) (context.Context, *ToolCall) {
	ctx, span := otelTracer().Start(t.Context(ctx), "selfask.tool_call", oteltrace.WithAttributes(
		attribute.String("tool.name", tool),
		attribute.String("tool.query", query),
	))
	return ctx, &ToolCall{
		Tool:      tool,
		Query:     query,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// Complete marks the tool call as finished and adds it to the parent trace.
func (tc *ToolCall) Complete(result string, err error) {
	tc.mu.Lock()
	tc.Result = result
	tc.Error = err
	tc.EndTime = time.Now()
	span := tc.span
	tc.mu.Unlock()

	endSpan(span, err)

	tc.trace.mu.Lock()
	defer tc.trace.mu.Unlock()
	tc.trace.ToolCalls = append(tc.trace.ToolCalls, tc)
}

// Duration returns the duration of the tool call
func (tc *ToolCall) Duration() time.Duration {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return elapsed(tc.StartTime, tc.EndTime)
}

// TokenUsage sums token counts across all completions.
func (t *Trace) TokenUsage() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.Completions {
		c.mu.Lock()
		input += c.InputTokens
		output += c.OutputTokens
		c.mu.Unlock()
	}
	return input, output
}

// Complete marks the trace as finished and hands it to the tracer.
func (t *Trace) Complete(answer string, err error) {
	t.mu.Lock()
	t.Answer = answer
	t.Error = err
	t.EndTime = time.Now()
	tracer := t.tracer
	span := t.span
	t.mu.Unlock()

	if span != nil {
		span.SetAttributes(
			attribute.Int("run.completions", len(t.Completions)),
			attribute.Int("run.tool_calls", len(t.ToolCalls)),
		)
	}
	endSpan(span, err)

	if tracer != nil {
		tracer.RecordTrace(t)
	}
}

// Duration returns the total duration of the trace
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return elapsed(t.StartTime, t.EndTime)
}

func elapsed(start, end time.Time) time.Duration {
	if end.IsZero() {
		return time.Since(start)
	}
	return end.Sub(start)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// String returns a human readable summary of the trace.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s ===\n", t.ID)
	if t.Chain != "" {
		fmt.Fprintf(&sb, "Chain: %s\n", t.Chain)
	}
	fmt.Fprintf(&sb, "Question: %q\n", t.Question)
	fmt.Fprintf(&sb, "Duration: %v\n", elapsed(t.StartTime, t.EndTime))

	fmt.Fprintf(&sb, "\nCompletions (%d):\n", len(t.Completions))
	for i, c := range t.Completions {
		fmt.Fprintf(&sb, "  [%d] %v", i+1, elapsed(c.StartTime, c.EndTime))
		if c.Model != "" {
			fmt.Fprintf(&sb, " %s (%d in / %d out)", c.Model, c.InputTokens, c.OutputTokens)
		}
		sb.WriteString("\n")
		if c.Error != nil {
			fmt.Fprintf(&sb, "      Error: %v\n", c.Error)
		} else {
			fmt.Fprintf(&sb, "      Output: %q\n", clip(c.Output, 200))
		}
	}

	if len(t.ToolCalls) > 0 {
		fmt.Fprintf(&sb, "\nTool Calls (%d):\n", len(t.ToolCalls))
		for i, tc := range t.ToolCalls {
			fmt.Fprintf(&sb, "  [%d] %s %q (%v)\n", i+1, tc.Tool, tc.Query, elapsed(tc.StartTime, tc.EndTime))
			if tc.Error != nil {
				fmt.Fprintf(&sb, "      Error: %v\n", tc.Error)
			} else {
				fmt.Fprintf(&sb, "      Result: %q\n", clip(tc.Result, 200))
			}
		}
	} else {
		sb.WriteString("\nNo tool calls\n")
	}

	sb.WriteString("\nOutcome:\n")
	if t.Error != nil {
		fmt.Fprintf(&sb, "  Error: %v\n", t.Error)
	} else {
		fmt.Fprintf(&sb, "  Answer: %s\n", clip(t.Answer, 500))
	}

	if len(t.Metadata) > 0 {
		sb.WriteString("\nMetadata:\n")
		for k, v := range t.Metadata {
			fmt.Fprintf(&sb, "  %s: %v\n", k, v)
		}
	}
	return sb.String()
}
