/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package serpsearch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/selfask/agents/retry"
	"chainguard.dev/selfask/agents/toolcall"
	"chainguard.dev/selfask/agents/toolcall/serpsearch"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"answer box answer", `{"answer_box":{"answer":"Tokyo","snippet":"ignored"}}`, "Tokyo"},
		{"answer box snippet", `{"answer_box":{"snippet":"Paris is the capital."}}`, "Paris is the capital."},
		{"highlighted words", `{"answer_box":{"snippet_highlighted_words":["74 years"]}}`, "74 years"},
		{"knowledge graph", `{"knowledge_graph":{"description":"American boxer"},"organic_results":[{"snippet":"x"}]}`, "American boxer"},
		{"organic", `{"organic_results":[{"snippet":"first"},{"snippet":"second"}]}`, "first"},
		{"empty answer falls through", `{"answer_box":{"answer":""},"organic_results":[{"snippet":"first"}]}`, "first"},
		{"nothing", `{"search_metadata":{}}`, serpsearch.NoResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serpsearch.Extract([]byte(tt.body)); got != tt.want {
				t.Errorf("Extract(): got = %q, wanted = %q", got, tt.want)
			}
		})
	}
}

func TestInvoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("api_key"); got != "test-key" {
			t.Errorf("api_key: got = %q, wanted = %q", got, "test-key")
		}
		if got := q.Get("q"); got != "How old was Muhammad Ali when he died?" {
			t.Errorf("q: got = %q", got)
		}
		if got := q.Get("engine"); got != "google" {
			t.Errorf("engine: got = %q, wanted = %q", got, "google")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer_box":{"answer":"74 years"}}`))
	}))
	defer srv.Close()

	s, err := serpsearch.New(serpsearch.Config{APIKey: "test-key", Endpoint: srv.URL}, srv.Client())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := s.Invoke(context.Background(), "How old was Muhammad Ali when he died?")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != "74 years" {
		t.Errorf("Invoke(): got = %q, wanted = %q", got, "74 years")
	}
}

func TestInvokeRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"organic_results":[{"snippet":"ok"}]}`))
	}))
	defer srv.Close()

	cfg := serpsearch.Config{
		APIKey:   "k",
		Endpoint: srv.URL,
		Retry:    retry.Config{MaxRetries: 2, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
	}
	s, err := serpsearch.New(cfg, srv.Client())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := s.Invoke(context.Background(), "q")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != "ok" || calls.Load() != 2 {
		t.Errorf("Invoke(): got = %q after %d calls, wanted = %q after 2", got, calls.Load(), "ok")
	}
}

func TestInvokeErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid API key."}`},
		{"error field", http.StatusOK, `{"error":"Your account has run out of searches."}`},
		{"invalid json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s, err := serpsearch.New(serpsearch.Config{APIKey: "k", Endpoint: srv.URL}, srv.Client())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			_, err = s.Invoke(context.Background(), "q")
			var te *toolcall.ToolError
			if !errors.As(err, &te) || te.Tool != serpsearch.Name {
				t.Errorf("Invoke(): got = %v, wanted *toolcall.ToolError from %q", err, serpsearch.Name)
			}
		})
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := serpsearch.New(serpsearch.Config{}, nil); err == nil {
		t.Error("New(): got = nil, wanted error")
	}
}
