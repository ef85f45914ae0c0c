/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"strings"
)

const fence = "```"

// Block returns the body of the first fenced code block tagged lang, for
// example ```text ... ```. The opening fence must sit on its own line and an
// unterminated block runs to the end of text. When no such block exists, a
// response consisting solely of an inline block (```text 2+2```) is accepted
// too. ok reports whether a block was found; an empty block yields "" and true.
func Block(text, lang string) (body string, ok bool) {
	open := fence + lang
	var sb strings.Builder
	inBlock := false

	for line := range strings.Lines(text) {
		bare := strings.TrimRight(line, "\r\n")
		if !inBlock {
			if bare == open {
				inBlock, ok = true, true
			}
			continue
		}
		if bare == fence {
			break
		}
		sb.WriteString(line)
	}
	if ok {
		return strings.TrimSpace(sb.String()), true
	}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) >= len(open)+len(fence) && strings.HasPrefix(trimmed, open) && strings.HasSuffix(trimmed, fence) {
		return strings.TrimSpace(trimmed[len(open) : len(trimmed)-len(fence)]), true
	}
	return "", false
}

// AfterMarker returns the text following the last occurrence of marker,
// trimmed. Models that restate their reasoning tend to repeat the marker, and
// the last occurrence is the conclusion.
func AfterMarker(text, marker string) (string, bool) {
	i := strings.LastIndex(text, marker)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(text[i+len(marker):]), true
}
