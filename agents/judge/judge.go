/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/promptbuilder"
)

// judge implements Interface on top of any completion backend.
type judge struct {
	client completion.Client
}

// New creates a judge that grades with client. Use dispatch.New to select a
// backend by model name.
func New(client completion.Client) (Interface, error) {
	if client == nil {
		return nil, errors.New("completion client is required")
	}
	return &judge{client: client}, nil
}

// Judge implements Interface
func (j *judge) Judge(ctx context.Context, request *Request) (*Judgement, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	var (
		tmpl *promptbuilder.Template
		vars = map[string]string{
			"question":  request.Question,
			"answer":    request.ActualAnswer,
			"criterion": request.Criterion,
		}
	)
	switch request.Mode {
	case GoldenMode:
		tmpl = goldenTemplate
		vars["reference"] = request.ReferenceAnswer
	default:
		tmpl = standaloneTemplate
	}
	prompt, err := tmpl.Render(vars)
	if err != nil {
		return nil, fmt.Errorf("rendering %s prompt: %w", request.Mode, err)
	}

	trace := agenttrace.StartTrace(ctx, prompt)
	cctx, c := trace.StartCompletion(ctx, prompt, nil)
	output, err := j.client.Complete(cctx, prompt, nil)
	c.Complete(output, err)
	if err != nil {
		trace.Complete("", err)
		return nil, fmt.Errorf("judge completion: %w", err)
	}

	judgement, err := parseJudgement(output)
	if err != nil {
		trace.Complete("", err)
		return nil, err
	}
	judgement.Mode = request.Mode
	trace.Complete(judgement.String(), nil)
	return judgement, nil
}

// parseJudgement reads the Score, Reasoning and Suggestion lines of output.
// Lines that carry no marker continue the reasoning.
func parseJudgement(output string) (*Judgement, error) {
	var (
		j         Judgement
		haveScore bool
		reasoning []string
		inReason  bool
	)
	for line := range strings.Lines(output) {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, scoreMarker):
			s := strings.TrimSpace(strings.TrimPrefix(line, scoreMarker))
			score, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid score %q: %w", s, err)
			}
			if score < 0 || score > 1 {
				return nil, fmt.Errorf("score %.2f is out of range [0, 1]", score)
			}
			j.Score, haveScore, inReason = score, true, false
		case strings.HasPrefix(line, reasoningMarker):
			reasoning = append(reasoning, strings.TrimSpace(strings.TrimPrefix(line, reasoningMarker)))
			inReason = true
		case strings.HasPrefix(line, suggestionMarker):
			if s := strings.TrimSpace(strings.TrimPrefix(line, suggestionMarker)); s != "" {
				j.Suggestions = append(j.Suggestions, s)
			}
			inReason = false
		case inReason && line != "":
			reasoning = append(reasoning, line)
		}
	}
	if !haveScore {
		return nil, fmt.Errorf("judge output has no %q line: %q", scoreMarker, output)
	}
	j.Reasoning = strings.Join(reasoning, " ")
	return &j, nil
}
