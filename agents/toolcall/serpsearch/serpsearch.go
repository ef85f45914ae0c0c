/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package serpsearch answers queries with the most direct snippet of a
// SerpAPI Google search.
package serpsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"chainguard.dev/selfask/agents/retry"
	"chainguard.dev/selfask/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"github.com/tidwall/gjson"
)

// Name is the tool name the search registers under.
const Name = "search"

// DefaultEndpoint is the SerpAPI search URL.
const DefaultEndpoint = "https://serpapi.com/search"

// NoResult is returned when the response holds no usable snippet.
const NoResult = "No good search result found"

// resultPaths lists where an answer may sit in the response, most direct
// first.
var resultPaths = []string{
	"answer_box.answer",
	"answer_box.snippet",
	"answer_box.snippet_highlighted_words.0",
	"knowledge_graph.description",
	"organic_results.0.snippet",
}

// Config configures a Searcher.
type Config struct {
	APIKey   string        `env:"SERPAPI_API_KEY" json:"-" yaml:"-"`
	Endpoint string        `env:"SERPAPI_ENDPOINT, default=https://serpapi.com/search" json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Engine   string        `json:"engine,omitempty" yaml:"engine,omitempty"`
	Language string        `json:"hl,omitempty" yaml:"hl,omitempty"`
	Country  string        `json:"gl,omitempty" yaml:"gl,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Retry    retry.Config  `json:"retry" yaml:"retry"`
}

// Searcher is a toolcall.Invoker backed by SerpAPI.
type Searcher struct {
	cfg    Config
	client *http.Client
}

var _ toolcall.Invoker = (*Searcher)(nil)

// New creates a Searcher. client may be nil to use a client with cfg.Timeout.
func New(cfg Config, client *http.Client) (*Searcher, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("serpapi: API key is required")
	}
	if err := cfg.Retry.Validate(); err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("serpapi: invalid endpoint: %w", err)
	}
	if cfg.Engine == "" {
		cfg.Engine = "google"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Searcher{cfg: cfg, client: client}, nil
}

// Tool returns the searcher as a named tool.
func (s *Searcher) Tool() toolcall.Tool {
	tool, _ := toolcall.New(Name, "Searches the web and returns the most direct answer snippet.", s)
	return tool
}

// statusError reports a non-200 response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("serpapi returned %d: %s", e.code, e.body)
}

func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return retry.IsRetryableStatus(se.code)
	}
	return false
}

// Invoke implements toolcall.Invoker.
func (s *Searcher) Invoke(ctx context.Context, query string) (string, error) {
	body, err := retry.Do(ctx, s.cfg.Retry, "serpapi_search", isRetryable, func(ctx context.Context) ([]byte, error) {
		return s.fetch(ctx, query)
	})
	if err != nil {
		return "", toolcall.Wrap(Name, err)
	}
	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return "", toolcall.Wrap(Name, fmt.Errorf("serpapi: %s", msg.String()))
	}
	answer := Extract(body)
	clog.FromContext(ctx).With("query", query).With("answer_length", len(answer)).Debug("Search completed")
	return answer, nil
}

func (s *Searcher) fetch(ctx context.Context, query string) ([]byte, error) {
	u, _ := url.Parse(s.cfg.Endpoint)
	q := u.Query()
	q.Set("engine", s.cfg.Engine)
	q.Set("q", query)
	q.Set("hl", s.cfg.Language)
	q.Set("gl", s.cfg.Country)
	q.Set("api_key", s.cfg.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(body[:min(len(body), 200)])}
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("serpapi returned invalid JSON")
	}
	return body, nil
}

// Extract picks the most direct answer out of a SerpAPI response, or NoResult.
func Extract(body []byte) string {
	for _, path := range resultPaths {
		if r := gjson.GetBytes(body, path); r.Exists() && r.String() != "" {
			return r.String()
		}
	}
	return NoResult
}
