/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"gopkg.in/yaml.v3"
)

// binding represents a value that will be substituted into the template
type binding interface {
	value() (string, error)
}

// unboundBinding is the default state for bindings that haven't been set
type unboundBinding struct {
	name string
}

func (u *unboundBinding) value() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", u.name)
}

// literalBinding holds a string that is substituted verbatim
type literalBinding struct {
	val string
}

func (l *literalBinding) value() (string, error) {
	return l.val, nil
}

// marshalBinding holds structured data and the encoder that renders it
type marshalBinding struct {
	format  string
	data    any
	marshal func(any) ([]byte, error)
}

func (m *marshalBinding) value() (string, error) {
	b, err := m.marshal(m.data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", m.format, err)
	}
	return string(b), nil
}

func xmlBinding(data any) binding {
	return &marshalBinding{format: "XML", data: data, marshal: func(v any) ([]byte, error) {
		return xml.MarshalIndent(v, "", "  ")
	}}
}

func jsonBinding(data any) binding {
	return &marshalBinding{format: "JSON", data: data, marshal: func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	}}
}

func yamlBinding(data any) binding {
	return &marshalBinding{format: "YAML", data: data, marshal: yaml.Marshal}
}

// existsAndUnbound checks if a binding exists and is currently unbound
func existsAndUnbound(bindings map[string]binding, name string) error {
	b, exists := bindings[name]
	if !exists {
		return fmt.Errorf("binding %q not found in template", name)
	}
	if _, isUnbound := b.(*unboundBinding); !isUnbound {
		return fmt.Errorf("binding %q already bound", name)
	}
	return nil
}
