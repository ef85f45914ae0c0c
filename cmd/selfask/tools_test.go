/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chainguard.dev/selfask/agents/toolcall/docsearch"
)

func TestDocsToolHashFallback(t *testing.T) {
	docs := t.TempDir()
	if err := os.WriteFile(filepath.Join(docs, "cities.md"), []byte("Tokyo is the capital of Japan.\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	index := t.TempDir()

	tool, err := docsTool(context.Background(), &config{DocsDir: docs, IndexDir: index})
	if err != nil {
		t.Fatalf("docsTool() error = %v", err)
	}
	got, err := tool.Invoke(context.Background(), "What is the capital of Japan?")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if want := "Tokyo is the capital of Japan."; got != want {
		t.Errorf("Invoke(): got = %q, wanted = %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(index, docsearch.ProviderHash)); err != nil {
		t.Errorf("index directory for %s: %v", docsearch.ProviderHash, err)
	}
}

func TestDocsToolErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config
		want string
	}{
		{"no documents", config{}, "SELFASK_DOCS_DIR"},
		{"cohere without key", config{DocsDir: t.TempDir(), Embedding: docsearch.EmbeddingConfig{Provider: "cohere"}}, "COHERE_API_KEY"},
		{"unknown provider", config{DocsDir: t.TempDir(), Embedding: docsearch.EmbeddingConfig{Provider: "bm25"}}, "unknown embedding provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := docsTool(context.Background(), &tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("docsTool() error = %v, wanted containing %q", err, tt.want)
			}
		})
	}
}
