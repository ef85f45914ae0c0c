/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsValidIdentifier(t *testing.T) {
	for input, want := range map[string]bool{
		"a":           true,
		"question":    true,
		"follow_up_2": true,
		"Ünïcode":     true,
		"":            false,
		"_private":    false,
		"9lives":      false,
		"two words":   false,
		"dash-ed":     false,
		"dot.ted":     false,
	} {
		if got := isValidIdentifier(input); got != want {
			t.Errorf("isValidIdentifier(%q): got = %v, wanted = %v", input, got, want)
		}
	}
}

func TestPlaceholderNames(t *testing.T) {
	got, err := placeholderNames("{{b}} x {{ a }} y {{b}} {{c}}")
	if err != nil {
		t.Fatalf("placeholderNames() error = %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, got); diff != "" {
		t.Errorf("placeholderNames() (-want +got):\n%s", diff)
	}
}

func TestWalkTemplateSinglePass(t *testing.T) {
	got, err := walkTemplate("<{{x}}>", func(string) (string, error) {
		return "{{x}}", nil
	})
	if err != nil {
		t.Fatalf("walkTemplate() error = %v", err)
	}
	if got != "<{{x}}>" {
		t.Errorf("walkTemplate(): got = %q, wanted = %q", got, "<{{x}}>")
	}
}
