/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"errors"
	"fmt"
	"time"

	"chainguard.dev/selfask/agents/evals"
	"chainguard.dev/selfask/agents/evals/report"
	"chainguard.dev/selfask/agents/judge"
	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var generators = map[string]report.Generator{
	"simple":  report.Simple,
	"table":   report.Table,
	"by-eval": report.ByEval,
}

// errBelowThreshold is returned when the report shows a pass rate or grade
// under --threshold.
var errBelowThreshold = errors.New("evaluations fell below the threshold")

func newEvalCmd(root *rootOptions) *cobra.Command {
	var (
		threshold   float64
		concurrency int
		format      string
		metricsFile string
		judgeModel  string
	)
	cmd := &cobra.Command{
		Use:   "eval SUITE",
		Short: "Run an evaluation suite and report pass rates and grades",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gen, ok := generators[format]
			if !ok {
				return fmt.Errorf("unknown --format %q (expected simple, table or by-eval)", format)
			}
			suite, err := evals.LoadSuite(args[0])
			if err != nil {
				return err
			}
			c, def, err := root.buildChain(ctx)
			if err != nil {
				return err
			}

			var opts []evals.RunOption
			if judgeModel != "" {
				cfg, err := loadConfig(ctx)
				if err != nil {
					return err
				}
				client, err := cfg.newClient(ctx, judgeModel)
				if err != nil {
					return fmt.Errorf("creating judge client: %w", err)
				}
				j, err := judge.New(client)
				if err != nil {
					return err
				}
				opts = append(opts, evals.WithCaseEvals(judge.CaseEvals(j)))
			}

			obs := evals.NewNamespacedObserver(func(name string) *evals.ResultCollector {
				return evals.NewResultCollector(evals.NewLogObserver(ctx, name))
			})
			start := time.Now()
			results, err := evals.Run(ctx, c, suite, obs, concurrency, opts...)
			if err != nil {
				return err
			}
			clog.FromContext(ctx).With("cases", len(results)).With("duration", time.Since(start)).Info("Suite finished")

			chainName := def.Name
			if chainName == "" {
				chainName = string(def.Type)
			}
			if metricsFile != "" {
				evals.RecordMetrics(chainName, obs)
				if err := prometheus.WriteToTextfile(metricsFile, prometheus.DefaultGatherer); err != nil {
					return fmt.Errorf("writing metrics: %w", err)
				}
			}

			out, below := gen(obs, threshold)
			fmt.Fprintf(cmd.OutOrStdout(), "# %s (%s, %s)\n\n%s", suite.Name, chainName, def.Model, out)
			if below {
				return errBelowThreshold
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0.8, "minimum acceptable pass rate and average grade")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "cases run at once")
	cmd.Flags().StringVar(&format, "format", "simple", "report format: simple, table or by-eval")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	cmd.Flags().StringVar(&judgeModel, "judge-model", "", "grade case criteria with this model")
	return cmd
}
