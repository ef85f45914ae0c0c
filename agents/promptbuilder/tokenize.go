/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// resolveFunc is a callback that provides a replacement for a binding name
type resolveFunc func(name string) (string, error)

// walkTemplate tokenizes the template in a single pass and calls resolve for
// each binding. Replacement text is never re-scanned.
func walkTemplate(template string, resolve resolveFunc) (string, error) {
	var result strings.Builder
	result.Grow(len(template))

	for len(template) > 0 {
		start := strings.Index(template, openDelim)
		if start == -1 {
			result.WriteString(template)
			break
		}
		result.WriteString(template[:start])

		end := strings.Index(template[start:], closeDelim)
		if end == -1 {
			return "", errors.New("unclosed binding: missing '}}'")
		}
		end += start + len(closeDelim)

		name := strings.TrimSpace(template[start+len(openDelim) : end-len(closeDelim)])
		if !isValidIdentifier(name) {
			return "", fmt.Errorf("invalid binding identifier %q", name)
		}
		replacement, err := resolve(name)
		if err != nil {
			return "", err
		}
		result.WriteString(replacement)

		template = template[end:]
	}

	return result.String(), nil
}

// placeholderNames returns the distinct binding names in template, in order of
// first appearance.
func placeholderNames(template string) ([]string, error) {
	var names []string
	seen := make(map[string]struct{})
	_, err := walkTemplate(template, func(name string) (string, error) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return "", nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// isValidIdentifier reports whether s starts with a letter and contains only
// letters, digits, and underscores.
func isValidIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
