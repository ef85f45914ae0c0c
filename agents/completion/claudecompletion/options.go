/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudecompletion

import (
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/selfask/agents/metrics"
	"chainguard.dev/selfask/agents/retry"
)

// Option is a functional option for configuring the client
type Option func(*Client) error

// WithModel allows overriding the model name
func WithModel(model string) Option {
	return func(c *Client) error {
		if !strings.HasPrefix(model, "claude-") {
			return fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", model)
		}
		c.model = model
		return nil
	}
}

// WithMaxTokens sets the maximum tokens for responses
func WithMaxTokens(tokens int64) Option {
	return func(c *Client) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		if tokens > 32000 {
			return fmt.Errorf("max tokens %d exceeds maximum of 32000", tokens)
		}
		c.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the temperature for responses.
// Claude models support temperature values from 0.0 to 1.0.
func WithTemperature(temp float64) Option {
	return func(c *Client) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		c.temperature = temp
		return nil
	}
}

// WithSystemInstructions replaces the default continuation instruction.
func WithSystemInstructions(instructions string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(instructions) == "" {
			return errors.New("system instructions cannot be empty")
		}
		c.system = instructions
		return nil
	}
}

// WithAttributeEnricher sets a custom attribute enricher for metrics.
func WithAttributeEnricher(enricher metrics.AttributeEnricher) Option {
	return func(c *Client) error {
		c.genaiMetrics.SetAttributeEnricher(enricher)
		return nil
	}
}

// WithRetryConfig sets the retry configuration for transient API errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.retryConfig = cfg
		return nil
	}
}
