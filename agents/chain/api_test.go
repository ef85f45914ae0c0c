/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chain_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chainguard.dev/selfask/agents/chain"
	"chainguard.dev/selfask/agents/completion/completiontest"
	"chainguard.dev/selfask/agents/promptbuilder"
	"chainguard.dev/selfask/agents/toolcall"
	"chainguard.dev/selfask/agents/toolcall/requests"
	"chainguard.dev/selfask/agents/toolcall/tooltest"
	"chainguard.dev/selfask/agents/transcript"
	"github.com/google/go-cmp/cmp"
)

const weatherDocs = "GET /v1/forecast?latitude=<float>&longitude=<float>&current=temperature_2m\n" +
	"Returns the current temperature in Celsius as JSON."

func TestAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" || r.URL.Query().Get("latitude") != "48.85" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current":{"temperature_2m":21.4}}`))
	}))
	defer srv.Close()

	apiURL := srv.URL + "/v1/forecast?latitude=48.85&longitude=2.35&current=temperature_2m"
	client := completiontest.Outputs(" "+apiURL+"\n", " It is 21.4 degrees Celsius in Paris.\n")
	getter, err := requests.New(requests.Config{}, srv.Client())
	if err != nil {
		t.Fatalf("requests.New() error = %v", err)
	}
	c, err := chain.NewAPI(client, getter, weatherDocs)
	if err != nil {
		t.Fatalf("NewAPI() error = %v", err)
	}

	got, err := c.Run(context.Background(), "How warm is it in Paris right now?")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if want := "It is 21.4 degrees Celsius in Paris."; got.Text != want {
		t.Errorf("Text: got = %q, wanted = %q", got.Text, want)
	}
	wantSegs := []transcript.Segment{
		{Kind: transcript.FollowUp, Text: apiURL},
		{Kind: transcript.IntermediateAnswer, Text: `{"current":{"temperature_2m":21.4}}`},
		{Kind: transcript.FinalAnswer, Text: "It is 21.4 degrees Celsius in Paris."},
	}
	if diff := cmp.Diff(wantSegs, got.Transcript); diff != "" {
		t.Errorf("transcript (-want +got):\n%s", diff)
	}

	prompts := client.Prompts()
	if len(prompts) != 2 {
		t.Fatalf("completions: got = %d, wanted = 2", len(prompts))
	}
	if !strings.Contains(prompts[0], weatherDocs) || !strings.HasSuffix(prompts[0], "Question: How warm is it in Paris right now?\nAPI url:") {
		t.Errorf("url prompt: got = %q", prompts[0])
	}
	if !strings.HasPrefix(prompts[1], prompts[0]+" "+apiURL+"\n") || !strings.Contains(prompts[1], `{"current":{"temperature_2m":21.4}}`) {
		t.Errorf("answer prompt: got = %q", prompts[1])
	}
}

func TestAPIUsesFirstLine(t *testing.T) {
	getter := tooltest.Answers(`{"ok":true}`)
	c, err := chain.NewAPI(completiontest.Outputs("https://api.example.com/status\nThis URL returns the status.", "up"), getter, "GET /status")
	if err != nil {
		t.Fatalf("NewAPI() error = %v", err)
	}
	if _, err := c.Run(context.Background(), "Is the service up?"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff([]string{"https://api.example.com/status"}, getter.Queries()); diff != "" {
		t.Errorf("fetched (-want +got):\n%s", diff)
	}
}

func TestAPICustomAnswerTemplate(t *testing.T) {
	tmpl, err := promptbuilder.ParseTemplate("Q: {{question}}\nData: {{api_response}}\nA:", []string{"question", "api_response"})
	if err != nil {
		t.Fatalf("ParseTemplate() error = %v", err)
	}
	client := completiontest.Outputs("https://api.example.com/status", "up")
	c, err := chain.NewAPI(client, tooltest.Answers("200 OK"), "GET /status", chain.WithAnswerTemplate(tmpl))
	if err != nil {
		t.Fatalf("NewAPI() error = %v", err)
	}
	if _, err := c.Run(context.Background(), "Is it up?"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff("Q: Is it up?\nData: 200 OK\nA:", client.Prompts()[1]); diff != "" {
		t.Errorf("answer prompt (-want +got):\n%s", diff)
	}
}

func TestAPIFailures(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name    string
		outputs []string
		getter  toolcall.Invoker
		want    error
	}{
		{name: "no url", outputs: []string{"  \n"}, getter: tooltest.Answers(), want: chain.ErrUnparseableOutput},
		{name: "getter error", outputs: []string{"https://api.example.com/x"}, getter: tooltest.New(tooltest.Error(cause)), want: cause},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := chain.NewAPI(completiontest.Outputs(tt.outputs...), tt.getter, weatherDocs)
			if err != nil {
				t.Fatalf("NewAPI() error = %v", err)
			}
			_, err = c.Run(context.Background(), "q")
			if !errors.Is(err, tt.want) {
				t.Errorf("Run(): got = %v, wanted = %v", err, tt.want)
			}
		})
	}
}

func TestAPIConfiguration(t *testing.T) {
	noResponse, err := promptbuilder.ParseTemplate("Answer {{question}}", []string{"question"})
	if err != nil {
		t.Fatalf("ParseTemplate() error = %v", err)
	}
	tests := []struct {
		name   string
		getter toolcall.Invoker
		docs   string
		opts   []chain.Option
	}{
		{name: "nil getter", docs: weatherDocs},
		{name: "no docs", getter: tooltest.Answers(), docs: " \n"},
		{name: "answer template without response", getter: tooltest.Answers(), docs: weatherDocs, opts: []chain.Option{chain.WithAnswerTemplate(noResponse)}},
		{name: "nil answer template", getter: tooltest.Answers(), docs: weatherDocs, opts: []chain.Option{chain.WithAnswerTemplate(nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chain.NewAPI(completiontest.Outputs(), tt.getter, tt.docs, tt.opts...)
			if !errors.Is(err, chain.ErrConfiguration) {
				t.Errorf("NewAPI(): got = %v, wanted = %v", err, chain.ErrConfiguration)
			}
		})
	}
}
