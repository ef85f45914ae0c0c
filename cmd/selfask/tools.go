/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"chainguard.dev/selfask/agents/toolcall"
	"chainguard.dev/selfask/agents/toolcall/calculator"
	"chainguard.dev/selfask/agents/toolcall/docsearch"
	"chainguard.dev/selfask/agents/toolcall/requests"
	"chainguard.dev/selfask/agents/toolcall/serpsearch"
	"github.com/chainguard-dev/clog"
)

// registry registers every tool the CLI knows. Tools are built lazily, so a
// missing SerpAPI key only matters to chains that search.
func registry(ctx context.Context, cfg *config) (*toolcall.Registry, error) {
	reg := toolcall.NewRegistry()
	err := errors.Join(
		reg.Register(serpsearch.Name, func() (toolcall.Tool, error) {
			s, err := serpsearch.New(cfg.Search, nil)
			if err != nil {
				return toolcall.Tool{}, err
			}
			return s.Tool(), nil
		}),
		reg.Register(calculator.Name, func() (toolcall.Tool, error) {
			return calculator.New(), nil
		}),
		reg.Register(docsearch.Name, func() (toolcall.Tool, error) {
			return docsTool(ctx, cfg)
		}),
		reg.Register(requests.Name, func() (toolcall.Tool, error) {
			g, err := requests.New(cfg.Requests, nil)
			if err != nil {
				return toolcall.Tool{}, err
			}
			return g.Tool(), nil
		}),
	)
	return reg, err
}

func docsTool(ctx context.Context, cfg *config) (toolcall.Tool, error) {
	if cfg.DocsDir == "" && len(cfg.DocsURLs) == 0 && cfg.IndexDir == "" {
		return toolcall.Tool{}, errors.New("docs: set SELFASK_DOCS_DIR, SELFASK_DOCS_URLS or SELFASK_INDEX_DIR")
	}
	embed, err := docsearch.NewEmbeddingFunc(cfg.Embedding)
	if err != nil {
		return toolcall.Tool{}, fmt.Errorf("docs: %w", err)
	}
	provider := cfg.Embedding.ResolvedProvider()
	if provider == docsearch.ProviderHash {
		clog.FromContext(ctx).Warn("No embedding provider configured, using offline hash embeddings")
	}
	opts := []docsearch.Option{docsearch.WithEmbeddingFunc(embed)}
	if cfg.IndexDir != "" {
		// Vectors from different providers are not comparable, so each
		// provider persists to its own subdirectory.
		opts = append(opts, docsearch.WithPersistence(filepath.Join(cfg.IndexDir, provider), true))
	}
	idx, err := docsearch.New(opts...)
	if err != nil {
		return toolcall.Tool{}, err
	}
	if cfg.DocsDir != "" {
		if err := idx.AddDir(ctx, cfg.DocsDir); err != nil {
			return toolcall.Tool{}, err
		}
	}
	if len(cfg.DocsURLs) > 0 {
		if err := idx.AddURL(ctx, cfg.DocsURLs...); err != nil {
			return toolcall.Tool{}, err
		}
	}
	clog.FromContext(ctx).With("passages", idx.Len()).With("embedding", provider).Info("Loaded document index")
	return idx.Tool(), nil
}
