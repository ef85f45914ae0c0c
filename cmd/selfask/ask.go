/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"chainguard.dev/selfask/agents/chain"
	"chainguard.dev/selfask/agents/chainconfig"
	"chainguard.dev/selfask/agents/transcript"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newAskCmd(root *rootOptions) *cobra.Command {
	var verbose, asJSON bool
	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Answer a question",
		Example: `  selfask ask "Who lived longer, Muhammad Ali or Alan Turing?"
  selfask ask --tool calculator --chain math.yaml "What is 37593 * 67?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, def, err := root.buildChain(ctx)
			if err != nil {
				return err
			}
			labels := transcriptLabels(def)

			answer, err := c.Run(ctx, strings.Join(args, " "))
			if err != nil {
				var ce *chain.Error
				if verbose && errors.As(err, &ce) {
					printTranscript(cmd.ErrOrStderr(), labels, ce.Transcript)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(answer)
			}
			if verbose {
				printTranscript(out, labels, answer.Transcript)
				return nil
			}
			_, err = fmt.Fprintln(out, answer.Text)
			return err
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the full reasoning transcript")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the answer, transcript and run ID as JSON")
	return cmd
}

// transcriptLabels returns the markers the chain wrote its transcript with.
func transcriptLabels(def *chainconfig.Definition) transcript.Labels {
	if def == nil || def.Type != chainconfig.TypeSelfAsk {
		return transcript.DefaultLabels()
	}
	return def.Loop.Labels()
}

var kindColors = map[transcript.Kind]*color.Color{
	transcript.FollowUp:           color.New(color.FgYellow),
	transcript.IntermediateAnswer: color.New(color.FgGreen),
	transcript.FinalAnswer:        color.New(color.FgCyan, color.Bold),
}

// printTranscript writes segments one per line, coloring each label by kind.
func printTranscript(w io.Writer, labels transcript.Labels, segs []transcript.Segment) {
	for _, s := range segs {
		label := labels.For(s.Kind)
		c, ok := kindColors[s.Kind]
		if !ok || label == "" {
			if s.Text != "" {
				fmt.Fprintln(w, s.Text)
			}
			continue
		}
		c.Fprint(w, label)
		fmt.Fprintln(w, " "+s.Text)
	}
}
