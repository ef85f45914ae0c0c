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

	"chainguard.dev/selfask/agents/agenttrace"
	"chainguard.dev/selfask/agents/completion"
	"chainguard.dev/selfask/agents/promptbuilder"
	"chainguard.dev/selfask/agents/transcript"
	"golang.org/x/sync/errgroup"
)

// Template variables bound by Summarize chains.
const (
	TextKey           = "text"
	ExistingAnswerKey = "existing_answer"
)

// Strategy selects how Summarize combines chunks of a long text.
type Strategy string

const (
	// Stuff summarizes the whole text in one completion.
	Stuff Strategy = "stuff"
	// MapReduce summarizes every chunk independently, then summarizes the
	// summaries until one remains.
	MapReduce Strategy = "map_reduce"
	// Refine summarizes the first chunk and revises the summary with each
	// following chunk in order.
	Refine Strategy = "refine"
)

const summaryPrompt = "Write a concise summary of the text below.\n" +
	"\n" +
	"\"{{text}}\"\n" +
	"\n" +
	"Concise summary:"

const refinePrompt = "Your job is to produce a final summary.\n" +
	"The summary so far is:\n" +
	"{{existing_answer}}\n" +
	"\n" +
	"Refine it, only if needed, with the additional context below.\n" +
	"------------\n" +
	"{{text}}\n" +
	"------------\n" +
	"If the context adds nothing, repeat the summary so far.\n" +
	"Refined summary:"

var (
	// DefaultSummaryTemplate summarizes one text. MapReduce also uses it to
	// combine summaries.
	DefaultSummaryTemplate = promptbuilder.MustNewTemplate(summaryPrompt, []string{TextKey})
	// DefaultRefineTemplate revises a summary with one more chunk.
	DefaultRefineTemplate = promptbuilder.MustNewTemplate(refinePrompt, []string{ExistingAnswerKey, TextKey})
)

// SummarizeConfig configures a Summarize chain.
type SummarizeConfig struct {
	// Strategy defaults to Stuff.
	Strategy Strategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	// ChunkSize is the most characters of text one completion summarizes.
	// Paragraphs longer than ChunkSize form a chunk of their own.
	ChunkSize int `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty"`
	// Concurrency caps the parallel completions of MapReduce.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
}

// Validate checks that the configuration has valid values.
func (c SummarizeConfig) Validate() error {
	switch c.Strategy {
	case "", Stuff, MapReduce, Refine:
	default:
		return fmt.Errorf("unknown summarize strategy %q (expected %q, %q or %q)", c.Strategy, Stuff, MapReduce, Refine)
	}
	if c.ChunkSize < 0 {
		return errors.New("chunk size cannot be negative")
	}
	if c.Concurrency < 0 {
		return errors.New("concurrency cannot be negative")
	}
	return nil
}

// Summarize condenses the text it is given. Its "question" is the text.
type Summarize struct {
	*base
	cfg    SummarizeConfig
	refine *promptbuilder.Template
}

var _ Chain = (*Summarize)(nil)

// NewSummarize builds a Summarize chain. WithTemplate replaces the summary
// prompt, which must declare "text"; WithRefineTemplate replaces the refine
// prompt.
func NewSummarize(client completion.Client, cfg SummarizeConfig, opts ...Option) (*Summarize, error) {
	if err := cfg.Validate(); err != nil {
		return nil, ConfigurationError(err)
	}
	if cfg.Strategy == "" {
		cfg.Strategy = Stuff
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 4000
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 4
	}
	b, err := newBaseFor(client, DefaultSummaryTemplate, "summarize-"+string(cfg.Strategy), TextKey, opts)
	if err != nil {
		return nil, err
	}
	c := &Summarize{base: b, cfg: cfg, refine: b.refineTmpl}
	if c.refine == nil {
		c.refine = DefaultRefineTemplate
	}
	for _, key := range []string{TextKey, ExistingAnswerKey} {
		if !slices.Contains(c.refine.Variables(), key) {
			return nil, ConfigurationError(fmt.Errorf("refine template does not declare the %q variable", key))
		}
	}
	if _, err := c.refine.Render(c.refineVariables("", "")); err != nil {
		return nil, ConfigurationError(fmt.Errorf("refine template: %w", err))
	}
	return c, nil
}

func (c *Summarize) refineVariables(existing, text string) map[string]string {
	all := c.variables(text)
	all[ExistingAnswerKey] = existing
	return declared(c.refine, all)
}

// Run implements Chain. Empty text summarizes to an empty answer without a
// completion.
func (c *Summarize) Run(ctx context.Context, text string) (answer Answer, err error) {
	ctx, trace, runID := c.begin(ctx, text)
	defer func() { c.end(ctx, trace, answer, err) }()

	segs := transcript.New(transcript.DefaultLabels())
	chunks := Chunks(text, c.cfg.ChunkSize)
	if len(chunks) == 0 {
		return Answer{Transcript: segs.Segments(), RunID: runID}, nil
	}

	var summary string
	switch c.cfg.Strategy {
	case Stuff:
		summary, err = c.complete(ctx, trace, strings.Join(chunks, "\n\n"), segs)
	case MapReduce:
		summary, err = c.mapReduce(ctx, trace, chunks, segs)
	case Refine:
		summary, err = c.refineAll(ctx, trace, chunks, segs)
	}
	if err != nil {
		return Answer{}, err
	}
	summary = strings.TrimSpace(summary)
	segs.Append(transcript.Segment{Kind: transcript.FinalAnswer, Text: summary})
	return Answer{Text: summary, Transcript: segs.Segments(), Iterations: len(chunks), RunID: runID}, nil
}

// mapReduce summarizes parts in parallel and packs the summaries into new
// parts until a single summary remains.
func (c *Summarize) mapReduce(ctx context.Context, trace *agenttrace.Trace, parts []string, segs *transcript.Builder) (string, error) {
	for {
		summaries := make([]string, len(parts))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.cfg.Concurrency)
		for i, part := range parts {
			g.Go(func() error {
				out, err := c.complete(gctx, trace, part, segs)
				summaries[i] = strings.TrimSpace(out)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}
		if len(summaries) == 1 {
			return summaries[0], nil
		}
		for _, s := range summaries {
			segs.Append(transcript.Segment{Kind: transcript.IntermediateAnswer, Text: s})
		}

		next := pack(summaries, c.cfg.ChunkSize)
		if len(next) == len(summaries) {
			// Packing cannot shrink the summaries, so combine them at once.
			next = []string{strings.Join(summaries, "\n\n")}
		}
		parts = next
	}
}

// refineAll summarizes the first chunk and refines the summary with the rest.
func (c *Summarize) refineAll(ctx context.Context, trace *agenttrace.Trace, chunks []string, segs *transcript.Builder) (string, error) {
	summary, err := c.complete(ctx, trace, chunks[0], segs)
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)
	for _, chunk := range chunks[1:] {
		segs.Append(transcript.Segment{Kind: transcript.IntermediateAnswer, Text: summary})
		out, err := c.completeWith(ctx, trace, c.refine, c.refineVariables(summary, chunk), segs)
		if err != nil {
			return "", err
		}
		summary = strings.TrimSpace(out)
	}
	return summary, nil
}

// Chunks splits text into paragraphs on blank lines and packs consecutive
// paragraphs into chunks of at most size characters.
func Chunks(text string, size int) []string {
	var paras []string
	for p := range strings.SplitSeq(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	return pack(paras, size)
}

// pack joins consecutive parts with blank lines while the result stays within
// size characters.
func pack(parts []string, size int) []string {
	var out []string
	var cur strings.Builder
	for _, p := range parts {
		if cur.Len() > 0 && cur.Len()+2+len(p) > size {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(p)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
