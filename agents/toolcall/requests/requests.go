/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package requests fetches URLs over HTTP GET for chains and document
// loaders. HTML responses are reduced to their visible text.
package requests

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"chainguard.dev/selfask/agents/retry"
	"chainguard.dev/selfask/agents/toolcall"
	"github.com/chainguard-dev/clog"
)

// Name is the tool name the getter registers under.
const Name = "requests"

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes = 1 << 20

// Config configures a Getter.
type Config struct {
	// Headers are sent with every request.
	Headers map[string]string `env:"SELFASK_REQUESTS_HEADERS" json:"headers,omitempty" yaml:"headers,omitempty"`
	// AllowedHosts restricts requests to these hosts when non-empty.
	AllowedHosts []string      `env:"SELFASK_REQUESTS_ALLOWED_HOSTS" json:"allowed_hosts,omitempty" yaml:"allowed_hosts,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxBytes     int64         `json:"max_bytes,omitempty" yaml:"max_bytes,omitempty"`
	Retry        retry.Config  `json:"retry" yaml:"retry"`
}

// Getter is a toolcall.Invoker that GETs the URL it is given.
type Getter struct {
	cfg    Config
	client *http.Client
}

var _ toolcall.Invoker = (*Getter)(nil)

// New creates a Getter. client may be nil to use a client with cfg.Timeout.
func New(cfg Config, client *http.Client) (*Getter, error) {
	if err := cfg.Retry.Validate(); err != nil {
		return nil, fmt.Errorf("requests: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	hosts := make([]string, 0, len(cfg.AllowedHosts))
	for _, h := range cfg.AllowedHosts {
		hosts = append(hosts, strings.ToLower(h))
	}
	cfg.AllowedHosts = hosts
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Getter{cfg: cfg, client: client}, nil
}

// Tool returns the getter as a named tool.
func (g *Getter) Tool() toolcall.Tool {
	tool, _ := toolcall.New(Name, "Fetches a URL and returns the text of the response.", g)
	return tool
}

// Page is a fetched response.
type Page struct {
	URL         string
	ContentType string
	// Text is the body, or its visible text when the body is HTML.
	Text string
}

// statusError reports a non-200 response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET returned %d: %s", e.code, e.body)
}

func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return retry.IsRetryableStatus(se.code)
	}
	return false
}

// Invoke implements toolcall.Invoker. The query is the URL to fetch.
func (g *Getter) Invoke(ctx context.Context, rawURL string) (string, error) {
	page, err := g.Get(ctx, rawURL)
	if err != nil {
		return "", toolcall.Wrap(Name, err)
	}
	return page.Text, nil
}

// Get fetches rawURL, retrying transient failures.
func (g *Getter) Get(ctx context.Context, rawURL string) (Page, error) {
	u, err := g.check(rawURL)
	if err != nil {
		return Page{}, err
	}
	page, err := retry.Do(ctx, g.cfg.Retry, "http_get", isRetryable, func(ctx context.Context) (Page, error) {
		return g.fetch(ctx, u)
	})
	if err != nil {
		return Page{}, err
	}
	clog.FromContext(ctx).With("url", page.URL).
		With("content_type", page.ContentType).
		With("length", len(page.Text)).
		Debug("Fetched URL")
	return page, nil
}

// check parses rawURL and applies the scheme and host restrictions.
func (g *Getter) check(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("url is empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q has no host", rawURL)
	}
	if len(g.cfg.AllowedHosts) > 0 && !slices.Contains(g.cfg.AllowedHosts, strings.ToLower(u.Hostname())) {
		return nil, fmt.Errorf("host %q is not allowed", u.Hostname())
	}
	return u, nil
}

func (g *Getter) fetch(ctx context.Context, u *url.URL) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page{}, err
	}
	for k, v := range g.cfg.Headers {
		req.Header.Set(k, v)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.cfg.MaxBytes))
	if err != nil {
		return Page{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Page{}, &statusError{code: resp.StatusCode, body: string(body[:min(len(body), 200)])}
	}

	page := Page{URL: u.String(), ContentType: resp.Header.Get("Content-Type"), Text: string(body)}
	if isHTML(page.ContentType, body) {
		if page.Text, err = Text(strings.NewReader(page.Text)); err != nil {
			return Page{}, fmt.Errorf("parsing html: %w", err)
		}
	}
	return page, nil
}

func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mt == "text/html" || mt == "application/xhtml+xml")
}
