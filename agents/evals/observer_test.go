/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals_test

import (
	"sync"
	"testing"

	"chainguard.dev/selfask/agents/evals"
	"chainguard.dev/selfask/agents/evals/testevals"
	"github.com/google/go-cmp/cmp"
)

func TestNamespacedObserverChild(t *testing.T) {
	var mu sync.Mutex
	var created []string
	obs := evals.NewNamespacedObserver(func(name string) evals.Observer {
		mu.Lock()
		defer mu.Unlock()
		created = append(created, name)
		return testevals.NewPrefix(t, name)
	})

	a := obs.Child("capitals")
	if again := obs.Child("capitals"); again != a {
		t.Error("Child: got a new observer for an existing name, wanted the same one")
	}
	leaf := a.Child("france")

	if got, want := leaf.Name(), "/capitals/france"; got != want {
		t.Errorf("Name: got = %q, wanted = %q", got, want)
	}
	if diff := cmp.Diff([]string{"/", "/capitals", "/capitals/france"}, created); diff != "" {
		t.Errorf("factory calls (-want +got):\n%s", diff)
	}
}

func TestNamespacedObserverWalk(t *testing.T) {
	obs := evals.NewNamespacedObserver(func(name string) evals.Observer {
		return testevals.NewPrefix(t, name)
	})
	obs.Child("b").Child("y")
	obs.Child("a")
	obs.Child("b").Child("x")

	var got []string
	obs.Walk(func(name string, _ evals.Observer) {
		got = append(got, name)
	})
	want := []string{"/", "/a", "/b", "/b/x", "/b/y"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk order (-want +got):\n%s", diff)
	}
}

func TestNamespacedObserverDelegates(t *testing.T) {
	obs := evals.NewNamespacedObserver(func(name string) *evals.ResultCollector {
		return evals.NewResultCollector(testevals.NewPrefix(t, name))
	})
	child := obs.Child("answer")
	child.Increment()
	child.Fail("wrong answer")
	child.Grade(0.5, "partial")

	var inner *evals.ResultCollector
	obs.Walk(func(name string, c *evals.ResultCollector) {
		if name == "/answer" {
			inner = c
		}
	})
	if inner == nil {
		t.Fatal("Walk did not visit /answer")
	}
	if diff := cmp.Diff([]string{"wrong answer"}, inner.Failures()); diff != "" {
		t.Errorf("Failures (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]evals.Grade{{Score: 0.5, Reasoning: "partial"}}, inner.Grades()); diff != "" {
		t.Errorf("Grades (-want +got):\n%s", diff)
	}
	if got := child.Total(); got != 1 {
		t.Errorf("Total: got = %d, wanted = 1", got)
	}
}
