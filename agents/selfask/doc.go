/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package selfask implements the self-ask-with-search reasoning loop.

The model is prompted with few-shot examples in which a question is broken
into follow-up questions, each answered by a tool, before a final answer is
written. The loop drives that pattern:

	INIT -> GENERATING -> AWAITING_TOOL -> GENERATING -> ... -> DONE
	                   \-> FAILED

Each completion is requested with the stop sequence "\n" followed by the
intermediate answer label, so the model halts right after asking a follow-up
question. Parse turns the output into a Decision. A follow-up is sent to the
tool and the answer is appended to the transcript, which is rendered after the
initial prompt for the next completion.

Runs end with a chain.Error when:

  - the output has no marker, after at most one regeneration with a format
    reminder (chain.ReasonUnparseableOutput)
  - the model asks more than MaxIterations follow-up questions
    (chain.ReasonIterationLimitExceeded)
  - the completion client or tool fails (chain.ReasonCollaboratorFailure)
  - the context is done before a completion or tool call (chain.ReasonCancelled)

Collaborator failures are never retried by the loop.

# Usage

	loop, err := selfask.New(client, search, nil, selfask.WithMaxIterations(4))
	if err != nil {
		return err
	}
	answer, err := loop.Run(ctx, "Who was president of the U.S. when superconductivity was discovered?")
*/
package selfask
