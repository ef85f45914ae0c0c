/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory builds a tool on demand. Chain definitions refer to tools by name
// and the registry constructs them only when a chain needs one.
type Factory func() (Tool, error)

// Registry maps tool names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Registering a name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return errors.New("tool name cannot be empty")
	}
	if f == nil {
		return fmt.Errorf("tool %q: factory cannot be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Lookup builds the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return Tool{}, fmt.Errorf("unknown tool %q (registered: %v)", name, r.Names())
	}
	tool, err := f()
	if err != nil {
		return Tool{}, fmt.Errorf("building tool %q: %w", name, err)
	}
	return tool, nil
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
