/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry retries calls to completion backends and search APIs that
// fail with rate limit or transient server errors.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config configures retry behavior.
type Config struct {
	// MaxRetries is the maximum number of retry attempts.
	// 0 means do not retry at all.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
	// BaseBackoff is the backoff before the first retry. It doubles on each attempt.
	BaseBackoff time.Duration `json:"base_backoff" yaml:"base_backoff"`
	// MaxBackoff caps the backoff.
	MaxBackoff time.Duration `json:"max_backoff" yaml:"max_backoff"`
	// MaxJitter is the maximum random jitter added to each backoff.
	MaxJitter time.Duration `json:"max_jitter" yaml:"max_jitter"`
}

// Validate checks that the retry configuration has valid values.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	if c.BaseBackoff < 0 {
		return errors.New("base backoff cannot be negative")
	}
	if c.MaxBackoff < 0 {
		return errors.New("max backoff cannot be negative")
	}
	if c.MaxJitter < 0 {
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// DefaultConfig returns a configuration suited to quota and rate limit errors,
// which often take seconds to clear.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  5,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  60 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// None returns a configuration that never retries.
func None() Config {
	return Config{}
}

// Do calls fn until it succeeds, returns an error isRetryable rejects, or
// cfg.MaxRetries retries have been spent. Backoff is exponential with jitter
// and is interrupted by ctx.
func Do[T any](ctx context.Context, cfg Config, operation string, isRetryable func(error) bool, fn func(context.Context) (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, lastErr = fn(ctx)
		if lastErr == nil {
			return result, nil
		}
		if !isRetryable(lastErr) || attempt >= cfg.MaxRetries {
			break
		}

		// BaseBackoff * 2^attempt, capped at MaxBackoff
		backoff := min(cfg.BaseBackoff<<attempt, cfg.MaxBackoff)

		var jitter time.Duration
		if cfg.MaxJitter > 0 {
			if n, err := rand.Int(rand.Reader, big.NewInt(int64(cfg.MaxJitter))); err == nil {
				jitter = time.Duration(n.Int64())
			}
		}

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", backoff+jitter).
			With("error", lastErr.Error()).
			Warn("Transient failure, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(backoff + jitter):
		}
	}

	if cfg.MaxRetries > 0 && isRetryable(lastErr) {
		return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, lastErr)
	}
	return result, lastErr
}

// IsRetryableStatus reports whether an HTTP status code indicates a rate
// limit, overload, or transient server error.
func IsRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		529: // Anthropic "overloaded"
		return true
	}
	return false
}

var transientMarkers = []string{
	"Resource exhausted",
	"RESOURCE_EXHAUSTED",
	"429",
	"503",
	"rate limit",
	"Overloaded",
	"quota exceeded",
	"Internal error",
	"server error",
}

// IsTransientMessage reports whether err's message looks like a rate limit or
// transient server failure. It is the fallback for SDKs that do not expose a
// typed status code.
func IsTransientMessage(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
