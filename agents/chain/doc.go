/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package chain defines the question-to-answer contract shared by every chain
and the error taxonomy their runs report.

A Chain is built from a completion.Client, a promptbuilder.Template and, for
chains that use one, a toolcall.Invoker. Chains keep no state between runs.

This package provides the chains that need no reasoning loop:

  - LLM renders the template and returns the completion as the answer
  - Math has the model translate the question into an expression and
    evaluates it with a calculator tool
  - API has the model write a request URL from API documentation, fetches
    it and answers from the response
  - Summarize condenses a text with the stuff, map_reduce or refine strategy

The self-ask-with-search chain lives in package selfask.

# Errors

Every failed run returns an *Error whose Reason distinguishes a model that
never converged from a backend that could not be reached:

	answer, err := c.Run(ctx, question)
	switch {
	case errors.Is(err, chain.ErrCancelled):
	case errors.Is(err, chain.ErrCollaboratorFailure):
	case errors.Is(err, chain.ErrUnparseableOutput), errors.Is(err, chain.ErrIterationLimitExceeded):
	}
*/
package chain
