/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package transcript

import (
	"slices"
	"strings"
)

// Builder accumulates the segments of one reasoning episode. It is
// append-only and is not safe for concurrent use; each run owns its own.
type Builder struct {
	labels   Labels
	segments []Segment
	rendered strings.Builder
}

// New returns an empty Builder that renders with labels.
func New(labels Labels) *Builder {
	return &Builder{labels: labels}
}

// Append adds s to the end of the transcript.
func (b *Builder) Append(s Segment) {
	b.segments = append(b.segments, s)
	b.rendered.WriteString(b.labels.Render(s))
}

// Segments returns a copy of the segments in insertion order.
func (b *Builder) Segments() []Segment {
	return slices.Clone(b.segments)
}

// Len returns the number of segments.
func (b *Builder) Len() int {
	return len(b.segments)
}

// Count returns the number of segments of kind k.
func (b *Builder) Count(k Kind) int {
	n := 0
	for _, s := range b.segments {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// Labels returns the labels the builder renders with.
func (b *Builder) Labels() Labels {
	return b.labels
}

// PromptSuffix renders every segment, in order, as it is appended to the
// prompt for the next completion.
func (b *Builder) PromptSuffix() string {
	return b.rendered.String()
}
