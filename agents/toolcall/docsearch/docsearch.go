/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package docsearch answers queries by retrieving the most similar passage
// from a local document collection held in a chromem-go vector store.
package docsearch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"chainguard.dev/selfask/agents/retry"
	"chainguard.dev/selfask/agents/toolcall"
	"chainguard.dev/selfask/agents/toolcall/requests"
	"github.com/chainguard-dev/clog"
	"github.com/philippgille/chromem-go"
)

// Name is the tool name document search registers under.
const Name = "docsearch"

// NoResult is returned when no passage is similar enough to the query.
const NoResult = "No relevant document found"

const collectionName = "documents"

// Passage is one retrievable unit of text.
type Passage struct {
	ID      string
	Source  string
	Content string
}

// Index is a toolcall.Invoker over an in-memory or persistent collection.
type Index struct {
	db            *chromem.DB
	collection    *chromem.Collection
	minSimilarity float32
	fetch         toolcall.Invoker
}

var _ toolcall.Invoker = (*Index)(nil)

type options struct {
	embed         chromem.EmbeddingFunc
	persistPath   string
	compress      bool
	minSimilarity float32
	fetch         toolcall.Invoker
}

// Option configures an Index.
type Option func(*options) error

// WithEmbeddingFunc replaces HashEmbedding, for example with
// chromem.NewEmbeddingFuncOpenAI.
func WithEmbeddingFunc(f chromem.EmbeddingFunc) Option {
	return func(o *options) error {
		if f == nil {
			return errors.New("embedding func cannot be nil")
		}
		o.embed = f
		return nil
	}
}

// WithPersistence stores the collection in the directory at path.
func WithPersistence(path string, compress bool) Option {
	return func(o *options) error {
		if path == "" {
			return errors.New("persist path cannot be empty")
		}
		o.persistPath = path
		o.compress = compress
		return nil
	}
}

// WithMinSimilarity drops results whose cosine similarity is below s.
func WithMinSimilarity(s float32) Option {
	return func(o *options) error {
		if s < -1 || s > 1 {
			return fmt.Errorf("min similarity must be between -1 and 1, got %f", s)
		}
		o.minSimilarity = s
		return nil
	}
}

// WithFetcher replaces the getter AddURL downloads pages with.
func WithFetcher(f toolcall.Invoker) Option {
	return func(o *options) error {
		if f == nil {
			return errors.New("fetcher cannot be nil")
		}
		o.fetch = f
		return nil
	}
}

// New creates an empty Index, or opens the persisted one.
func New(opts ...Option) (*Index, error) {
	o := options{embed: HashEmbedding(), minSimilarity: 0.2}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if o.fetch == nil {
		g, err := requests.New(requests.Config{Retry: retry.DefaultConfig()}, nil)
		if err != nil {
			return nil, err
		}
		o.fetch = g
	}

	db := chromem.NewDB()
	if o.persistPath != "" {
		if err := os.MkdirAll(o.persistPath, 0o755); err != nil {
			return nil, fmt.Errorf("creating persist directory: %w", err)
		}
		var err error
		if db, err = chromem.NewPersistentDB(o.persistPath, o.compress); err != nil {
			return nil, fmt.Errorf("opening vector database: %w", err)
		}
	}
	col, err := db.GetOrCreateCollection(collectionName, nil, o.embed)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	return &Index{db: db, collection: col, minSimilarity: o.minSimilarity, fetch: o.fetch}, nil
}

// Len returns the number of stored passages.
func (x *Index) Len() int {
	return x.collection.Count()
}

// Add embeds and stores passages. Passages with an existing ID replace it.
func (x *Index) Add(ctx context.Context, passages ...Passage) error {
	docs := make([]chromem.Document, 0, len(passages))
	for _, p := range passages {
		if strings.TrimSpace(p.Content) == "" {
			continue
		}
		if p.ID == "" {
			return fmt.Errorf("passage from %q has no ID", p.Source)
		}
		docs = append(docs, chromem.Document{
			ID:       p.ID,
			Content:  p.Content,
			Metadata: map[string]string{"source": p.Source},
		})
	}
	if len(docs) == 0 {
		return nil
	}
	if err := x.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}
	return nil
}

// AddDir indexes every .txt and .md file under dir, one passage per
// paragraph.
func (x *Index) AddDir(ctx context.Context, dir string) error {
	var passages []Passage
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".txt", ".md":
		default:
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		for i, para := range Paragraphs(string(b)) {
			passages = append(passages, Passage{ID: fmt.Sprintf("%s#%d", rel, i), Source: rel, Content: para})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	clog.FromContext(ctx).With("dir", dir).With("passages", len(passages)).Info("Indexing documents")
	return x.Add(ctx, passages...)
}

// AddURL downloads each page and indexes its text, one passage per
// paragraph. Passage IDs are the URL with the paragraph number as fragment.
func (x *Index) AddURL(ctx context.Context, urls ...string) error {
	var passages []Passage
	for _, u := range urls {
		text, err := x.fetch.Invoke(ctx, u)
		if err != nil {
			return fmt.Errorf("loading %s: %w", u, err)
		}
		for i, para := range Paragraphs(text) {
			passages = append(passages, Passage{ID: fmt.Sprintf("%s#%d", u, i), Source: u, Content: para})
		}
	}
	clog.FromContext(ctx).With("urls", len(urls)).With("passages", len(passages)).Info("Indexing web pages")
	return x.Add(ctx, passages...)
}

// Paragraphs splits text on blank lines and joins the lines of each
// paragraph with spaces.
func Paragraphs(text string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

// Tool returns the index as a named tool.
func (x *Index) Tool() toolcall.Tool {
	tool, _ := toolcall.New(Name, "Looks up a passage in the local document collection.", x)
	return tool
}

// Invoke implements toolcall.Invoker. It returns the content of the most
// similar passage.
func (x *Index) Invoke(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", toolcall.Wrap(Name, errors.New("empty query"))
	}
	if x.collection.Count() == 0 {
		return NoResult, nil
	}
	results, err := x.collection.Query(ctx, query, 1, nil, nil)
	if err != nil {
		return "", toolcall.Wrap(Name, err)
	}
	if len(results) == 0 || results[0].Similarity < x.minSimilarity {
		return NoResult, nil
	}
	clog.FromContext(ctx).With("query", query).
		With("id", results[0].ID).
		With("similarity", results[0].Similarity).
		Debug("Document search completed")
	return results[0].Content, nil
}
