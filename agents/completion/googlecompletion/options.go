/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googlecompletion

import (
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/selfask/agents/metrics"
	"chainguard.dev/selfask/agents/retry"
)

// Option is a functional option for configuring a Client
type Option func(*Client) error

// WithModel sets the model to use for generation
func WithModel(model string) Option {
	return func(c *Client) error {
		if !strings.HasPrefix(model, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
		}
		c.model = model
		return nil
	}
}

// WithTemperature sets the temperature for generation.
// Gemini models support temperature values from 0.0 to 2.0.
func WithTemperature(temperature float32) Option {
	return func(c *Client) error {
		if temperature < 0.0 || temperature > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temperature)
		}
		c.temperature = temperature
		return nil
	}
}

// WithMaxOutputTokens sets the maximum output tokens for generation
func WithMaxOutputTokens(tokens int32) Option {
	return func(c *Client) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		if tokens > 32768 {
			return fmt.Errorf("max output tokens %d exceeds maximum of 32768", tokens)
		}
		c.maxOutputTokens = tokens
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

// WithRetryConfig sets the retry configuration for transient Vertex AI errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.retryConfig = cfg
		return nil
	}
}
