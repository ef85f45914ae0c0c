/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package calculator evaluates arithmetic expressions written by a model.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"chainguard.dev/selfask/agents/toolcall"
	"github.com/expr-lang/expr"
)

// Name is the tool name the calculator registers under.
const Name = "calculator"

// env holds the constants and functions an expression may use beyond the
// operators expr provides (including ** and ^ for powers).
var env = map[string]any{
	"pi":    math.Pi,
	"e":     math.E,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"exp":   math.Exp,
	"log":   math.Log,
	"log10": math.Log10,
	"log2":  math.Log2,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"pow":   math.Pow,
}

// Evaluate computes expression and formats the numeric result. Integers stay
// integers; floats use the shortest exact representation.
func Evaluate(expression string) (string, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return "", errors.New("empty expression")
	}
	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return "", fmt.Errorf("compiling %q: %w", expression, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return "", fmt.Errorf("evaluating %q: %w", expression, err)
	}
	return format(out)
}

func format(v any) (string, error) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return "", fmt.Errorf("result is not a finite number: %v", n)
		}
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expression produced %T, not a number", v)
	}
}

// New returns the calculator as a tool.
func New() toolcall.Tool {
	tool, _ := toolcall.New(Name, "Evaluates arithmetic expressions such as 37593 * 67 or 37593 ** (1 / 5).",
		toolcall.Func(func(ctx context.Context, query string) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return Evaluate(query)
		}))
	return tool
}
