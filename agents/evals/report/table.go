/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"path"
	"slices"
	"strings"

	"chainguard.dev/selfask/agents/evals"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// newTable returns a left-aligned markdown table writing to w. Cells are
// never wrapped, so failure messages stay on one row.
func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	left := tw.CellAlignment{Global: tw.AlignLeft}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  left,
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row:      tw.CellConfig{Alignment: left},
			MaxWidth: 100,
			Behavior: tw.Behavior{TrimSpace: tw.Off},
		}),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Right: tw.On, Top: tw.Off, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// Table generates a markdown table with one row per observed namespace.
// Returns the report string and a boolean indicating if any evaluations fell below the threshold.
func Table(obs *evals.NamespacedObserver[*evals.ResultCollector], threshold float64) (string, bool) {
	var buf bytes.Buffer
	table := newTable(&buf, "Evaluation", "Pass Rate", "Avg Grade", "Failures")
	hasFailure := false
	rows := 0

	obs.Walk(func(name string, collector *evals.ResultCollector) {
		s := summarize(collector)
		if s.total == 0 {
			return
		}
		rows++
		below := s.below(threshold)
		if below {
			hasFailure = true
		}
		_ = table.Append([]string{
			mark(below, strings.TrimPrefix(name, "/")),
			fmt.Sprintf("%.1f%% (%d/%d)", s.passRate*100, s.passed, s.total),
			grade(s),
			fmt.Sprint(len(s.failures)),
		})
	})
	if rows == 0 {
		return "", false
	}
	_ = table.Render()
	return buf.String(), hasFailure
}

// ByEval generates a markdown table that aggregates each evaluation across
// cases, for observer trees laid out as /{case}/{eval}.
// Returns the report string and a boolean indicating if any evaluation's
// aggregate fell below the threshold.
func ByEval(obs *evals.NamespacedObserver[*evals.ResultCollector], threshold float64) (string, bool) {
	type aggregate struct {
		cases, total, passed int64
		gradeSum             float64
		grades               int
	}
	byName := make(map[string]*aggregate)

	obs.Walk(func(name string, collector *evals.ResultCollector) {
		if strings.Count(name, "/") != 2 {
			return
		}
		s := summarize(collector)
		if s.total == 0 {
			return
		}
		eval := path.Base(name)
		a, ok := byName[eval]
		if !ok {
			a = &aggregate{}
			byName[eval] = a
		}
		a.cases++
		a.total += s.total
		a.passed += s.passed
		for _, g := range s.grades {
			a.gradeSum += g.Score
			a.grades++
		}
	})
	if len(byName) == 0 {
		return "", false
	}

	var buf bytes.Buffer
	table := newTable(&buf, "Evaluation", "Cases", "Pass Rate", "Avg Grade")
	hasFailure := false
	for _, eval := range slices.Sorted(maps.Keys(byName)) {
		a := byName[eval]
		passRate := float64(a.passed) / float64(a.total)
		avg := "-"
		below := passRate < threshold
		if a.grades > 0 {
			g := a.gradeSum / float64(a.grades)
			avg = fmt.Sprintf("%.2f", g)
			below = below || g < threshold
		}
		if below {
			hasFailure = true
		}
		_ = table.Append([]string{
			mark(below, eval),
			fmt.Sprint(a.cases),
			fmt.Sprintf("%.1f%% (%d/%d)", passRate*100, a.passed, a.total),
			avg,
		})
	}
	_ = table.Render()
	return buf.String(), hasFailure
}

func grade(s summary) string {
	if len(s.grades) == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", s.avgGrade)
}

func mark(below bool, s string) string {
	if below {
		return "❌ " + s
	}
	return s
}
