/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package report renders evaluation results collected in a NamespacedObserver
tree of ResultCollectors.

All generators implement the Generator function type:

	type Generator func(obs *evals.NamespacedObserver[*evals.ResultCollector], threshold float64) (string, bool)

Available generators:

  - Simple: indented tree following the namespace structure, with failures and below-threshold grades under each evaluation
  - Table: markdown table with one row per observed namespace
  - ByEval: markdown table aggregating each evaluation across cases (requires /{case}/{eval} paths, as evals.Run produces)

The boolean result reports whether any pass rate or average grade fell below
the threshold.

# Usage

	obs := evals.NewNamespacedObserver(func(name string) *evals.ResultCollector {
		return evals.NewResultCollector(evals.NewLogObserver(ctx, name))
	})
	if _, err := evals.Run(ctx, loop, suite, obs, 4); err != nil {
		return err
	}
	out, failed := report.Simple(obs, 0.8)
	fmt.Print(out)
	if failed {
		os.Exit(1)
	}

Generators only read the observer tree and are safe for concurrent use.
*/
package report
