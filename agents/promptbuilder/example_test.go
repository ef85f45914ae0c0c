/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"errors"
	"fmt"
	"log"

	"chainguard.dev/selfask/agents/promptbuilder"
)

func ExampleNewTemplate() {
	tmpl, err := promptbuilder.NewTemplate("Question: {{question}}\nAnswer:", []string{"question"})
	if err != nil {
		log.Fatal(err)
	}

	prompt, err := tmpl.Render(map[string]string{"question": "Who wrote Dune?"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(prompt)
	// Output:
	// Question: Who wrote Dune?
	// Answer:
}

func ExampleTemplate_Render_strict() {
	tmpl := promptbuilder.MustNewTemplate("Question: {{question}}", []string{"question"})

	_, err := tmpl.Render(map[string]string{"question": "Why?", "tone": "curt"})
	fmt.Println(errors.Is(err, promptbuilder.ErrUnexpectedVariable))
	// Output: true
}

func ExamplePrompt_BindJSON() {
	p := promptbuilder.MustNewPrompt(`Facts: {{facts}}`)
	p = p.MustBindJSON("facts", []string{"a", "b"})

	out, err := p.Build()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
	// Output:
	// Facts: [
	//   "a",
	//   "b"
	// ]
}
