/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"maps"
	"path"
	"slices"
	"sync"

	"chainguard.dev/selfask/agents/agenttrace"
)

// Observer receives the verdicts of evaluations run against finished traces.
type Observer interface {
	// Fail records a failed expectation. An evaluation calls it at most once
	// per trace.
	Fail(string)
	// Log records an informational message.
	Log(string)
	// Grade records a score in [0, 1] with its reasoning, at most once per trace.
	Grade(score float64, reasoning string)
	// Increment counts one evaluated trace.
	Increment()
	// Total returns the number of evaluated traces.
	Total() int64
}

// ObservableTraceCallback evaluates a finished trace and reports to an Observer.
type ObservableTraceCallback func(Observer, *agenttrace.Trace)

// Inject binds obs to callback, producing a TraceCallback that counts each
// trace before evaluating it.
func Inject(obs Observer, callback ObservableTraceCallback) agenttrace.TraceCallback {
	return func(trace *agenttrace.Trace) {
		obs.Increment()
		callback(obs, trace)
	}
}

// NamespacedObserver is a tree of observers addressed by slash-separated
// paths, one node per suite, case and evaluation. Each node delegates to its
// own T, created by the factory with the node's path.
type NamespacedObserver[T Observer] struct {
	name    string
	inner   T
	factory func(string) T

	mu       sync.Mutex
	children map[string]*NamespacedObserver[T]
}

var _ Observer = (*NamespacedObserver[*ResultCollector])(nil)

// NewNamespacedObserver creates the root node, named "/".
func NewNamespacedObserver[T Observer](factory func(string) T) *NamespacedObserver[T] {
	return newNode("/", factory)
}

func newNode[T Observer](name string, factory func(string) T) *NamespacedObserver[T] {
	return &NamespacedObserver[T]{
		name:     name,
		inner:    factory(name),
		factory:  factory,
		children: make(map[string]*NamespacedObserver[T]),
	}
}

// Fail implements Observer.
func (n *NamespacedObserver[T]) Fail(msg string) { n.inner.Fail(msg) }

// Log implements Observer.
func (n *NamespacedObserver[T]) Log(msg string) { n.inner.Log(msg) }

// Grade implements Observer.
func (n *NamespacedObserver[T]) Grade(score float64, reasoning string) {
	n.inner.Grade(score, reasoning)
}

// Increment implements Observer.
func (n *NamespacedObserver[T]) Increment() { n.inner.Increment() }

// Total implements Observer.
func (n *NamespacedObserver[T]) Total() int64 { return n.inner.Total() }

// Child returns the node for name under n, creating it on first use. It is
// safe to call from concurrent case runs.
func (n *NamespacedObserver[T]) Child(name string) *NamespacedObserver[T] {
	n.mu.Lock()
	defer n.mu.Unlock()

	child, ok := n.children[name]
	if !ok {
		child = newNode(path.Join(n.name, name), n.factory)
		n.children[name] = child
	}
	return child
}

// Name returns the slash-separated path of this node.
func (n *NamespacedObserver[T]) Name() string {
	return n.name
}

// Walk visits n and then its descendants depth first, siblings in name order.
func (n *NamespacedObserver[T]) Walk(visitor func(string, T)) {
	visitor(n.name, n.inner)

	n.mu.Lock()
	children := make([]*NamespacedObserver[T], 0, len(n.children))
	for _, name := range slices.Sorted(maps.Keys(n.children)) {
		children = append(children, n.children[name])
	}
	n.mu.Unlock()

	for _, child := range children {
		child.Walk(visitor)
	}
}
