/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"chainguard.dev/selfask/agents/chain"
	"chainguard.dev/selfask/agents/chainconfig"
	"chainguard.dev/selfask/agents/selfask"
	"github.com/chainguard-dev/clog"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel  string
	chainFile string
	model     string
	tool      string
	maxIter   int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "selfask",
		Short:         "Answer compositional questions by asking and searching for follow-up questions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := parseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			ctx := clog.WithLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVarP(&opts.chainFile, "chain", "c", "", "chain definition file (YAML or JSON)")
	flags.StringVar(&opts.model, "model", "", "completion model; overrides SELFASK_MODEL and the chain file")
	flags.StringVar(&opts.tool, "tool", "search", "tool for the default self-ask chain: search, docsearch or calculator")
	flags.IntVar(&opts.maxIter, "max-iterations", 0, "follow-up question limit; 0 keeps the default")

	cmd.AddCommand(newAskCmd(opts), newEvalCmd(opts), newSummarizeCmd(opts))
	return cmd
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: %w", s, err)
	}
	return level, nil
}

// newLogger writes human-readable logs to w through zerolog.
func newLogger(w io.Writer, level slog.Level) *clog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp}
	zl := zerolog.New(output).With().Timestamp().Logger()
	return clog.New(zeroslog.NewHandler(zl, &zeroslog.HandlerOptions{Level: level}))
}

// definition returns the chain definition selected by the flags: the chain
// file when given, otherwise a self-ask-with-search chain over --tool.
func (o *rootOptions) definition(cfg *config) (*chainconfig.Definition, error) {
	def := &chainconfig.Definition{
		Type:  chainconfig.TypeSelfAsk,
		Model: cfg.Model,
		Tool:  o.tool,
		Loop:  selfask.DefaultConfig(),
	}
	if o.chainFile != "" {
		var err error
		if def, err = chainconfig.Load(o.chainFile); err != nil {
			return nil, err
		}
	}
	if o.model != "" {
		def.Model = o.model
	}
	if o.maxIter > 0 {
		def.Loop.MaxIterations = o.maxIter
	}
	return def, def.Validate()
}

// buildChain loads the process configuration and assembles the selected chain.
func (o *rootOptions) buildChain(ctx context.Context) (chain.Chain, *chainconfig.Definition, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	def, err := o.definition(cfg)
	if err != nil {
		return nil, nil, err
	}
	tools, err := registry(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	c, err := chainconfig.Builder{Tools: tools, NewClient: cfg.newClient}.Build(ctx, def)
	if err != nil {
		return nil, nil, err
	}
	return c, def, nil
}

func exitCode(err error) int {
	if chain.ReasonOf(err) == chain.ReasonCancelled {
		return 130
	}
	return 1
}

func init() {
	// clog falls back to slog.Default before PersistentPreRunE installs the
	// console logger.
	slog.SetDefault(slog.New(zeroslog.NewHandler(zerolog.New(os.Stderr), &zeroslog.HandlerOptions{Level: slog.LevelWarn})))
}
