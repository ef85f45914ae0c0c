/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chain_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"chainguard.dev/selfask/agents/chain"
	"chainguard.dev/selfask/agents/completion/completiontest"
	"chainguard.dev/selfask/agents/promptbuilder"
	"chainguard.dev/selfask/agents/transcript"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-cmp/cmp"
)

var qaTemplate = promptbuilder.MustNewTemplate("Answer briefly.\nQ: {{question}}\nA:", []string{"question"})

func TestLLM(t *testing.T) {
	client := completiontest.Outputs("  Paris\n\nQ: next question")
	c, err := chain.NewLLM(client, qaTemplate, chain.WithStop("\nQ:"))
	if err != nil {
		t.Fatalf("NewLLM() error = %v", err)
	}

	got, err := c.Run(context.Background(), "Capital of France?")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.Text != "Paris" {
		t.Errorf("Text: got = %q, wanted = %q", got.Text, "Paris")
	}
	if got.Iterations != 0 {
		t.Errorf("Iterations: got = %d, wanted = 0", got.Iterations)
	}
	if diff := cmp.Diff([]transcript.Segment{{Kind: transcript.FinalAnswer, Text: "Paris"}}, got.Transcript); diff != "" {
		t.Errorf("transcript (-want +got):\n%s", diff)
	}

	calls := client.Calls()
	if len(calls) != 1 {
		t.Fatalf("completion calls: got = %d, wanted = 1", len(calls))
	}
	if want := "Answer briefly.\nQ: Capital of France?\nA:"; calls[0].Prompt != want {
		t.Errorf("prompt: got = %q, wanted = %q", calls[0].Prompt, want)
	}
	if diff := cmp.Diff([]string{"\nQ:"}, calls[0].Stop); diff != "" {
		t.Errorf("stop (-want +got):\n%s", diff)
	}
}

func TestLLMEmptyOutputIsAnAnswer(t *testing.T) {
	c, err := chain.NewLLM(completiontest.Outputs("   "), qaTemplate)
	if err != nil {
		t.Fatalf("NewLLM() error = %v", err)
	}
	got, err := c.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.Text != "" {
		t.Errorf("Text: got = %q, wanted empty", got.Text)
	}
}

func TestLLMFailures(t *testing.T) {
	cause := errors.New("503 overloaded")
	c, err := chain.NewLLM(completiontest.New(completiontest.Error(cause)), qaTemplate)
	if err != nil {
		t.Fatalf("NewLLM() error = %v", err)
	}
	if _, err := c.Run(context.Background(), "q"); !errors.Is(err, chain.ErrCollaboratorFailure) || !errors.Is(err, cause) {
		t.Errorf("Run(): got = %v, wanted collaborator failure wrapping %v", err, cause)
	}

	client := completiontest.Outputs("never")
	c, err = chain.NewLLM(client, qaTemplate)
	if err != nil {
		t.Fatalf("NewLLM() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Run(ctx, "q"); !errors.Is(err, chain.ErrCancelled) {
		t.Errorf("Run() cancelled: got = %v, wanted = %v", err, chain.ErrCancelled)
	}
	if n := len(client.Calls()); n != 0 {
		t.Errorf("completion calls: got = %d, wanted = 0", n)
	}
}

func TestNewLLMConfiguration(t *testing.T) {
	withTopic := promptbuilder.MustNewTemplate("{{topic}}: {{question}}", []string{"topic", "question"})
	noQuestion := promptbuilder.MustNewTemplate("{{topic}}", []string{"topic"})
	client := completiontest.Outputs()

	tests := []struct {
		name    string
		tmpl    *promptbuilder.Template
		opts    []chain.Option
		wantErr bool
	}{
		{name: "valid", tmpl: qaTemplate},
		{name: "static variable", tmpl: withTopic, opts: []chain.Option{chain.WithVariables(map[string]string{"topic": "geo"})}},
		{name: "nil template", wantErr: true},
		{name: "missing static variable", tmpl: withTopic, wantErr: true},
		{name: "no question", tmpl: noQuestion, opts: []chain.Option{chain.WithVariables(map[string]string{"topic": "x"})}, wantErr: true},
		{name: "static question", tmpl: qaTemplate, opts: []chain.Option{chain.WithVariables(map[string]string{"question": "x"})}, wantErr: true},
		{name: "empty name", tmpl: qaTemplate, opts: []chain.Option{chain.WithName("")}, wantErr: true},
		{name: "template option", opts: []chain.Option{chain.WithTemplate(qaTemplate)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chain.NewLLM(client, tt.tmpl, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLLM(): got = %v, wanted error = %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, chain.ErrConfiguration) {
				t.Errorf("NewLLM(): got = %v, wanted = %v", err, chain.ErrConfiguration)
			}
		})
	}

	if _, err := chain.NewLLM(nil, qaTemplate); !errors.Is(err, chain.ErrConfiguration) {
		t.Errorf("NewLLM(nil client): got = %v, wanted = %v", err, chain.ErrConfiguration)
	}
}

func TestLLMFailureLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		cancel bool
		want   string
	}{
		{name: "cancelled", cancel: true, want: `level=WARN msg="Run cancelled"`},
		{name: "collaborator failure", want: `level=ERROR msg="Run failed"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := clog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			ctx, cancel := context.WithCancel(clog.WithLogger(context.Background(), logger))
			defer cancel()
			if tt.cancel {
				cancel()
			}

			c, err := chain.NewLLM(completiontest.New(completiontest.Error(errors.New("503"))), qaTemplate)
			if err != nil {
				t.Fatalf("NewLLM() error = %v", err)
			}
			if _, err := c.Run(ctx, "q"); err == nil {
				t.Fatal("Run() error = nil, wanted error")
			}
			if got := buf.String(); !strings.Contains(got, tt.want) {
				t.Errorf("log: got = %q, wanted it to contain %q", got, tt.want)
			}
		})
	}
}
