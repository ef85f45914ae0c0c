/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package calculator_test

import (
	"context"
	"errors"
	"testing"

	"chainguard.dev/selfask/agents/toolcall"
	"chainguard.dev/selfask/agents/toolcall/calculator"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"37593 * 67", "2518731"},
		{"2 + 2", "4"},
		{" 10 / 4 ", "2.5"},
		{"2 ** 10", "1024"},
		{"2 ^ 3", "8"},
		{"sqrt(16)", "4"},
		{"(1 + 2) * 3 - 4", "5"},
		{"-7 % 3", "-1"},
		{"sqrt(2.25)", "1.5"},
	}
	for _, tt := range tests {
		got, err := calculator.Evaluate(tt.expr)
		if err != nil {
			t.Errorf("Evaluate(%q) error = %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Evaluate(%q): got = %q, wanted = %q", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"2 +",
		"unknown + 1",
		"1 / 0",
		`"text"`,
		"1 < 2",
	} {
		if got, err := calculator.Evaluate(in); err == nil {
			t.Errorf("Evaluate(%q): got = %q, wanted error", in, got)
		}
	}
}

func TestTool(t *testing.T) {
	tool := calculator.New()
	if tool.Name != calculator.Name {
		t.Errorf("Name: got = %q, wanted = %q", tool.Name, calculator.Name)
	}

	got, err := tool.Invoke(context.Background(), "6 * 7")
	if err != nil || got != "42" {
		t.Errorf("Invoke(): got = (%q, %v), wanted = (%q, nil)", got, err, "42")
	}

	_, err = tool.Invoke(context.Background(), "6 *")
	var te *toolcall.ToolError
	if !errors.As(err, &te) || te.Tool != calculator.Name {
		t.Errorf("Invoke(invalid): got = %v, wanted *toolcall.ToolError from %q", err, calculator.Name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tool.Invoke(ctx, "1 + 1"); !errors.Is(err, context.Canceled) {
		t.Errorf("Invoke(cancelled): got = %v, wanted = %v", err, context.Canceled)
	}
}
