/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/promptbuilder"
	"chainguard.dev/selfask/agents/toolcall"
	"chainguard.dev/selfask/agents/transcript"
)

// Template variables bound by API chains.
const (
	APIDocsKey     = "api_docs"
	APIURLKey      = "api_url"
	APIResponseKey = "api_response"
)

const apiURLPrompt = "Here is the documentation of an API:\n" +
	"{{api_docs}}\n" +
	"\n" +
	"Write the full URL of the API call that answers the question below. Request only the data " +
	"the answer needs so the response stays short. Reply with the URL alone.\n" +
	"\n" +
	"Question: {{question}}\n" +
	"API url:"

const apiAnswerPrompt = apiURLPrompt + " {{api_url}}\n" +
	"\n" +
	"The API responded with:\n" +
	"\n" +
	"{{api_response}}\n" +
	"\n" +
	"Using this response, answer the question.\n" +
	"Answer:"

var (
	// DefaultAPIURLTemplate asks the model for the URL to call.
	DefaultAPIURLTemplate = promptbuilder.MustNewTemplate(apiURLPrompt, []string{APIDocsKey, InputKey})
	// DefaultAPIAnswerTemplate asks the model to answer from the response.
	DefaultAPIAnswerTemplate = promptbuilder.MustNewTemplate(apiAnswerPrompt, []string{APIDocsKey, InputKey, APIURLKey, APIResponseKey})
)

// API answers questions from a documented HTTP API: the model writes the
// request URL from the documentation, the getter fetches it, and a second
// completion answers from the response.
type API struct {
	*base
	getter toolcall.Invoker
	answer *promptbuilder.Template
}

var _ Chain = (*API)(nil)

// NewAPI builds an API chain over the API described by docs. getter fetches
// the URLs the model writes, typically a requests.Getter restricted to the
// API's host.
func NewAPI(client completion.Client, getter toolcall.Invoker, docs string, opts ...Option) (*API, error) {
	if getter == nil {
		return nil, ConfigurationError(errors.New("getter is required"))
	}
	if strings.TrimSpace(docs) == "" {
		return nil, ConfigurationError(errors.New("api docs are required"))
	}
	opts = append([]Option{WithVariables(map[string]string{APIDocsKey: docs})}, opts...)
	b, err := newBase(client, DefaultAPIURLTemplate, "api", opts)
	if err != nil {
		return nil, err
	}
	answer := b.answerTmpl
	if answer == nil {
		answer = DefaultAPIAnswerTemplate
	}
	for _, key := range []string{InputKey, APIResponseKey} {
		if !slices.Contains(answer.Variables(), key) {
			return nil, ConfigurationError(fmt.Errorf("answer template does not declare the %q variable", key))
		}
	}
	c := &API{base: b, getter: getter, answer: answer}
	if _, err := answer.Render(c.answerVariables("", "", "")); err != nil {
		return nil, ConfigurationError(fmt.Errorf("answer template: %w", err))
	}
	return c, nil
}

// answerVariables binds the answer template's declared variables, so it may
// leave out the docs or the URL.
func (c *API) answerVariables(question, apiURL, response string) map[string]string {
	all := c.variables(question)
	all[APIURLKey] = apiURL
	all[APIResponseKey] = response
	return declared(c.answer, all)
}

// Run implements Chain. The transcript records the URL as a follow-up and
// the response as its intermediate answer.
func (c *API) Run(ctx context.Context, question string) (answer Answer, err error) {
	ctx, trace, runID := c.begin(ctx, question)
	defer func() { c.end(ctx, trace, answer, err) }()

	segs := transcript.New(transcript.DefaultLabels())
	output, err := c.complete(ctx, trace, question, segs)
	if err != nil {
		return Answer{}, err
	}
	apiURL, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		return Answer{}, &Error{Reason: ReasonUnparseableOutput, Cause: errors.New("model wrote no API url")}
	}
	segs.Append(transcript.Segment{Kind: transcript.FollowUp, Text: apiURL})

	if err := CheckCancelled(ctx, segs.Segments(), 0); err != nil {
		return Answer{}, err
	}
	tctx, tc := trace.StartToolCall(ctx, "requests", apiURL)
	response, err := c.getter.Invoke(tctx, apiURL)
	tc.Complete(response, err)
	if err != nil {
		return Answer{}, CollaboratorError(ctx, toolcall.Wrap("requests", err), segs.Segments(), 0)
	}
	segs.Append(transcript.Segment{Kind: transcript.IntermediateAnswer, Text: response})

	output, err = c.completeWith(ctx, trace, c.answer, c.answerVariables(question, apiURL, response), segs)
	if err != nil {
		return Answer{}, err
	}
	text := strings.TrimSpace(output)
	segs.Append(transcript.Segment{Kind: transcript.FinalAnswer, Text: text})
	return Answer{Text: text, Transcript: segs.Segments(), Iterations: 1, RunID: runID}, nil
}
