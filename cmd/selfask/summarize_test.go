/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chainguard.dev/selfask/agents/chain"
	"chainguard.dev/selfask/agents/chainconfig"
)

func TestSummarizeDefinition(t *testing.T) {
	opts := &summarizeOptions{strategy: "map_reduce", chunkSize: 500}
	def, err := opts.definition(&rootOptions{}, &config{Model: "gemini-2.5-flash"})
	if err != nil {
		t.Fatalf("definition() error = %v", err)
	}
	if def.Type != chainconfig.TypeSummarize || def.Summarize.Strategy != chain.MapReduce || def.Summarize.ChunkSize != 500 {
		t.Errorf("definition(): got = %+v, wanted a map_reduce summarize chain with 500 character chunks", def)
	}

	if _, err := (&summarizeOptions{strategy: "abstract"}).definition(&rootOptions{}, &config{Model: "gemini-2.5-flash"}); err == nil {
		t.Error("definition(unknown strategy): got = nil, wanted error")
	}

	path := filepath.Join(t.TempDir(), "ask.yaml")
	if err := os.WriteFile(path, []byte("type: llm\nmodel: gemini-2.5-flash\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = (&summarizeOptions{}).definition(&rootOptions{chainFile: path}, &config{})
	if err == nil || !strings.Contains(err.Error(), "summarize needs") {
		t.Errorf("definition(llm chain file) error = %v, wanted a chain type error", err)
	}
}

func TestReadSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>From the web.</p><script>x()</script></body></html>"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("From a file."), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		src  string
		want string
	}{
		{"-", "From standard input."},
		{path, "From a file."},
		{srv.URL, "From the web."},
	}
	for _, tt := range tests {
		got, err := readSource(context.Background(), &config{}, tt.src, strings.NewReader("From standard input."))
		if err != nil {
			t.Errorf("readSource(%q) error = %v", tt.src, err)
			continue
		}
		if got != tt.want {
			t.Errorf("readSource(%q): got = %q, wanted = %q", tt.src, got, tt.want)
		}
	}

	if _, err := readSource(context.Background(), &config{}, filepath.Join(t.TempDir(), "missing.md"), nil); err == nil {
		t.Error("readSource(missing): got = nil, wanted error")
	}
}
