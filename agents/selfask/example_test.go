/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package selfask_test

import (
	"context"
	"fmt"

	"chainguard.dev/selfask/agents/completion/completiontest"
	"chainguard.dev/selfask/agents/selfask"
	"chainguard.dev/selfask/agents/toolcall/tooltest"
)

func ExampleLoop_Run() {
	client := completiontest.Outputs(
		" Yes.\nFollow up: Who is the reigning champion?",
		"Follow up: What is Jane Doe's hometown?",
		"So the final answer is: Springfield",
	)
	search := tooltest.Answers("Jane Doe", "Springfield")

	loop, err := selfask.New(client, search, nil, selfask.WithMaxIterations(4))
	if err != nil {
		panic(err)
	}
	answer, err := loop.Run(context.Background(), "What is the hometown of the reigning champion?")
	if err != nil {
		panic(err)
	}
	fmt.Println(answer.Text)
	fmt.Println(answer.Iterations)
	for _, s := range answer.Transcript {
		fmt.Printf("%s: %q\n", s.Kind, s.Text)
	}
	// Output:
	// Springfield
	// 2
	// continuation: " Yes."
	// follow_up: "Who is the reigning champion?"
	// intermediate_answer: "Jane Doe"
	// follow_up: "What is Jane Doe's hometown?"
	// intermediate_answer: "Springfield"
	// final_answer: "Springfield"
}

func ExampleParse() {
	d := selfask.Parse(" Yes.\nFollow up: How tall is the Eiffel Tower?", selfask.DefaultConfig().Labels())
	fmt.Println(d.Kind)
	fmt.Println(d.Text)
	// Output:
	// follow_up
	// How tall is the Eiffel Tower?
}
