/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"chainguard.dev/selfask/agents/chain"
	"chainguard.dev/selfask/agents/chainconfig"
	"chainguard.dev/selfask/agents/selfask"
	"chainguard.dev/selfask/agents/toolcall/requests"
	"github.com/spf13/cobra"
)

type summarizeOptions struct {
	strategy  string
	chunkSize int
}

func newSummarizeCmd(root *rootOptions) *cobra.Command {
	opts := &summarizeOptions{}
	cmd := &cobra.Command{
		Use:   "summarize SOURCE",
		Short: "Summarize a file, a web page or standard input",
		Example: `  selfask summarize notes.md
  selfask summarize --strategy map_reduce https://go.dev/doc/effective_go
  git log -20 | selfask summarize -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			def, err := opts.definition(root, cfg)
			if err != nil {
				return err
			}
			text, err := readSource(ctx, cfg, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			c, err := chainconfig.Builder{NewClient: cfg.newClient}.Build(ctx, def)
			if err != nil {
				return err
			}
			answer, err := c.Run(ctx, text)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "stuff, map_reduce or refine; overrides the chain file")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", 0, "most characters per completion; 0 keeps the default")
	return cmd
}

// definition returns the summarize chain from --chain, or a default one on
// the configured model.
func (o *summarizeOptions) definition(root *rootOptions, cfg *config) (*chainconfig.Definition, error) {
	def := &chainconfig.Definition{Type: chainconfig.TypeSummarize, Model: cfg.Model, Loop: selfask.DefaultConfig()}
	if root.chainFile != "" {
		var err error
		if def, err = chainconfig.Load(root.chainFile); err != nil {
			return nil, err
		}
		if def.Type != chainconfig.TypeSummarize {
			return nil, fmt.Errorf("%s: summarize needs a %q chain, got %q", root.chainFile, chainconfig.TypeSummarize, def.Type)
		}
	}
	if root.model != "" {
		def.Model = root.model
	}
	if o.strategy != "" {
		def.Summarize.Strategy = chain.Strategy(o.strategy)
	}
	if o.chunkSize > 0 {
		def.Summarize.ChunkSize = o.chunkSize
	}
	return def, def.Validate()
}

// readSource returns the text at src: standard input for "-", the page text
// for an http or https URL, the file contents otherwise.
func readSource(ctx context.Context, cfg *config, src string, stdin io.Reader) (string, error) {
	switch {
	case src == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return string(b), nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		g, err := requests.New(cfg.Requests, nil)
		if err != nil {
			return "", err
		}
		page, err := g.Get(ctx, src)
		if err != nil {
			return "", fmt.Errorf("fetching %s: %w", src, err)
		}
		return page.Text, nil
	default:
		b, err := os.ReadFile(src)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
