/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"chainguard.dev/selfask/agents/promptbuilder"
)

const (
	scoreMarker      = "Score:"
	reasoningMarker  = "Reasoning:"
	suggestionMarker = "Suggestion:"
)

const outputFormat = `<output_format>
Reply with plain lines, no other text:
Score: <a number from 0.0 to 1.0>
Reasoning: <one paragraph explaining the score for this criterion>
Suggestion: <one specific improvement>

Write one Suggestion line per distinct improvement, and none for a perfect score.
</output_format>`

// goldenTemplate is the prompt for golden mode judgment
var goldenTemplate = promptbuilder.MustNewTemplate(`<task>
You are evaluating an answer to a question against a reference answer.
Score the answer based on the specific criterion provided.
</task>

<question>
{{question}}
</question>

<reference_answer>
{{reference}}
</reference_answer>

<actual_answer>
{{answer}}
</actual_answer>

<criterion>
{{criterion}}
</criterion>

<instructions>
1. Compare the actual answer to the reference answer
2. Evaluate specifically for the given criterion
3. Provide a score from 0.0 to 1.0 using this scoring rubric:

SCORING RUBRIC:
- Score 1.0 (Perfect): The answer is semantically equivalent to the reference. Differences in wording, casing, punctuation or extra correct detail do not lower the score.
- Score 0.75-0.99 (High Quality): The answer is correct with minor imprecision, such as a less specific form of the reference.
- Score 0.50-0.74 (Adequate): The answer is partly correct or hedges between the right answer and a wrong one.
- Score 0.25-0.49 (Poor): The answer contains some correct elements but reaches the wrong conclusion.
- Score 0.0-0.24 (Failing): The answer is wrong, off-topic, or contradicts the reference.

4. Explain your reasoning and give suggestions for any score below 1.0
</instructions>

`+outputFormat, []string{"question", "reference", "answer", "criterion"})

// standaloneTemplate is the prompt for standalone mode judgment
var standaloneTemplate = promptbuilder.MustNewTemplate(`<task>
You are evaluating an answer to a question to determine how well it meets the evaluation criterion.
</task>

<question>
{{question}}
</question>

<answer>
{{answer}}
</answer>

<criterion>
{{criterion}}
</criterion>

<instructions>
1. Evaluate the answer SOLELY based on the given criterion - ignore all other qualities
2. Provide a score from 0.0 to 1.0 using this scoring rubric:

SCORING RUBRIC:
- Score 1.0 (Perfect): The answer fully satisfies the criterion.
- Score 0.75-0.99 (High Quality): The answer meets the criterion with small gaps.
- Score 0.50-0.74 (Adequate): The answer partially meets the criterion with notable gaps.
- Score 0.25-0.49 (Poor): The answer shows some understanding of the criterion but fails in major ways.
- Score 0.0-0.24 (Failing): The answer does not meet the criterion.

3. Explain your reasoning and give suggestions for any score below 1.0
</instructions>

`+outputFormat, []string{"question", "answer", "criterion"})
