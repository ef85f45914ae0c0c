/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chainguard.dev/selfask/agents/completion/completiontest"
	"chainguard.dev/selfask/agents/judge"
	"github.com/google/go-cmp/cmp"
)

func TestNewRequiresClient(t *testing.T) {
	if _, err := judge.New(nil); err == nil {
		t.Error("New(nil) error = nil, wanted error")
	}
}

func TestJudge(t *testing.T) {
	tests := []struct {
		name    string
		request judge.Request
		output  string
		want    *judge.Judgement
		wantErr bool
	}{{
		name: "golden with suggestions",
		request: judge.Request{
			Mode:            judge.GoldenMode,
			Question:        "Who lived longer?",
			ReferenceAnswer: "Muhammad Ali",
			ActualAnswer:    "Ali",
			Criterion:       "factual accuracy",
		},
		output: "Score: 0.8\nReasoning: The answer names the right person\nbut only by surname.\nSuggestion: Use the full name.\nSuggestion: State both ages.\n",
		want: &judge.Judgement{
			Mode:        judge.GoldenMode,
			Score:       0.8,
			Reasoning:   "The answer names the right person but only by surname.",
			Suggestions: []string{"Use the full name.", "State both ages."},
		},
	}, {
		name: "standalone perfect score",
		request: judge.Request{
			Mode:         judge.StandaloneMode,
			Question:     "What is 2 + 2?",
			ActualAnswer: "4",
			Criterion:    "conciseness",
		},
		output: "Reasoning: One token.\nScore: 1.0\n",
		want: &judge.Judgement{
			Mode:      judge.StandaloneMode,
			Score:     1.0,
			Reasoning: "One token.",
		},
	}, {
		name: "missing score",
		request: judge.Request{
			Mode:         judge.StandaloneMode,
			ActualAnswer: "4",
			Criterion:    "conciseness",
		},
		output:  "Reasoning: fine\n",
		wantErr: true,
	}, {
		name: "score out of range",
		request: judge.Request{
			Mode:         judge.StandaloneMode,
			ActualAnswer: "4",
			Criterion:    "conciseness",
		},
		output:  "Score: 7\n",
		wantErr: true,
	}, {
		name: "score not a number",
		request: judge.Request{
			Mode:         judge.StandaloneMode,
			ActualAnswer: "4",
			Criterion:    "conciseness",
		},
		output:  "Score: high\n",
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := completiontest.Outputs(tt.output)
			j, err := judge.New(client)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			got, err := j.Judge(context.Background(), &tt.request)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Judge() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Judge() mismatch (-want +got):\n%s", diff)
			}

			calls := client.Calls()
			if len(calls) != 1 {
				t.Fatalf("calls = %d, wanted = 1", len(calls))
			}
			if calls[0].Stop != nil {
				t.Errorf("stop = %v, wanted = nil", calls[0].Stop)
			}
			for _, want := range []string{tt.request.ActualAnswer, tt.request.Criterion, "Score:"} {
				if !strings.Contains(calls[0].Prompt, want) {
					t.Errorf("prompt does not contain %q:\n%s", want, calls[0].Prompt)
				}
			}
			if tt.request.Mode == judge.GoldenMode && !strings.Contains(calls[0].Prompt, "<reference_answer>\n"+tt.request.ReferenceAnswer) {
				t.Errorf("golden prompt does not carry the reference answer:\n%s", calls[0].Prompt)
			}
		})
	}
}

func TestJudgeInvalidRequest(t *testing.T) {
	client := completiontest.Outputs()
	j, err := judge.New(client)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, req := range []*judge.Request{
		{Mode: judge.GoldenMode, ActualAnswer: "a", Criterion: "c"},
		{Mode: judge.StandaloneMode, ReferenceAnswer: "r", ActualAnswer: "a", Criterion: "c"},
		{Mode: judge.StandaloneMode, Criterion: "c"},
		{Mode: judge.StandaloneMode, ActualAnswer: "a"},
		{Mode: "benchmark", ActualAnswer: "a", Criterion: "c"},
	} {
		if _, err := j.Judge(context.Background(), req); err == nil {
			t.Errorf("Judge(%+v) error = nil, wanted error", req)
		}
	}
	if got := len(client.Calls()); got != 0 {
		t.Errorf("calls = %d, wanted = 0", got)
	}
}

func TestJudgeBackendError(t *testing.T) {
	boom := errors.New("quota exceeded")
	j, err := judge.New(completiontest.New(completiontest.Error(boom)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = j.Judge(context.Background(), &judge.Request{
		Mode:         judge.StandaloneMode,
		ActualAnswer: "4",
		Criterion:    "conciseness",
	})
	if !errors.Is(err, boom) {
		t.Errorf("Judge() error = %v, wanted = %v", err, boom)
	}
}

func TestJudgementString(t *testing.T) {
	j := &judge.Judgement{
		Score:       0.5,
		Reasoning:   "partly right",
		Suggestions: []string{"be precise"},
	}
	if got, want := j.String(), "Grade: 0.50 - partly right\n  Suggestion: be precise"; got != want {
		t.Errorf("String() = %q, wanted = %q", got, want)
	}
}
