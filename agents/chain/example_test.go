/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chain_test

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/selfask/agents/chain"
	"chainguard.dev/selfask/agents/completion/completiontest"
	"chainguard.dev/selfask/agents/toolcall/tooltest"
)

func ExampleMath_Run() {
	client := completiontest.Outputs("```text\n12 * 12\n```\n")
	calculator := tooltest.Answers("144")

	c, err := chain.NewMath(client, calculator)
	if err != nil {
		panic(err)
	}
	answer, err := c.Run(context.Background(), "How many eggs are in a gross?")
	if err != nil {
		panic(err)
	}
	fmt.Println(answer.Text, answer.Iterations)
	// Output: 144 1
}

func ExampleReasonOf() {
	c, err := chain.NewMath(completiontest.Outputs("I would rather not."), tooltest.Answers())
	if err != nil {
		panic(err)
	}
	_, err = c.Run(context.Background(), "What is 2 + 2?")
	fmt.Println(chain.ReasonOf(err), errors.Is(err, chain.ErrUnparseableOutput))
	// Output: unparseable_output true
}
