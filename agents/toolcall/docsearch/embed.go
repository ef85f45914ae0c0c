/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package docsearch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/philippgille/chromem-go"
)

// Embedding providers understood by NewEmbeddingFunc.
const (
	ProviderOpenAI = "openai"
	ProviderCohere = "cohere"
	ProviderOllama = "ollama"
	ProviderHash   = "hash"
)

// Default models per provider, used when EmbeddingConfig.Model is empty.
const (
	DefaultOpenAIModel = string(chromem.EmbeddingModelOpenAI3Small)
	DefaultCohereModel = string(chromem.EmbeddingModelCohereEnglishV3)
	DefaultOllamaModel = "nomic-embed-text"
)

// EmbeddingConfig selects the model that embeds passages and queries.
type EmbeddingConfig struct {
	// Provider is one of the Provider constants. Empty picks the first
	// provider with credentials, in the order openai, cohere, hash.
	Provider string `env:"SELFASK_EMBEDDING" json:"provider,omitempty" yaml:"provider,omitempty"`
	Model    string `env:"SELFASK_EMBEDDING_MODEL" json:"model,omitempty" yaml:"model,omitempty"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY" json:"-" yaml:"-"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" json:"-" yaml:"-"`
	CohereAPIKey  string `env:"COHERE_API_KEY" json:"-" yaml:"-"`
	OllamaBaseURL string `env:"OLLAMA_BASE_URL" json:"-" yaml:"-"`
}

// ResolvedProvider returns the provider NewEmbeddingFunc will use.
func (c EmbeddingConfig) ResolvedProvider() string {
	switch {
	case c.Provider != "":
		return strings.ToLower(c.Provider)
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	case c.CohereAPIKey != "":
		return ProviderCohere
	default:
		return ProviderHash
	}
}

// NewEmbeddingFunc returns the chromem embedding function for cfg.
func NewEmbeddingFunc(cfg EmbeddingConfig) (chromem.EmbeddingFunc, error) {
	switch p := cfg.ResolvedProvider(); p {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("openai embeddings require OPENAI_API_KEY")
		}
		model := cmp.Or(cfg.Model, DefaultOpenAIModel)
		if cfg.OpenAIBaseURL != "" {
			return chromem.NewEmbeddingFuncOpenAICompat(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, model, nil), nil
		}
		return chromem.NewEmbeddingFuncOpenAI(cfg.OpenAIAPIKey, chromem.EmbeddingModelOpenAI(model)), nil
	case ProviderCohere:
		if cfg.CohereAPIKey == "" {
			return nil, errors.New("cohere embeddings require COHERE_API_KEY")
		}
		return chromem.NewEmbeddingFuncCohere(cfg.CohereAPIKey, chromem.EmbeddingModelCohere(cmp.Or(cfg.Model, DefaultCohereModel))), nil
	case ProviderOllama:
		return chromem.NewEmbeddingFuncOllama(cmp.Or(cfg.Model, DefaultOllamaModel), cfg.OllamaBaseURL), nil
	case ProviderHash:
		return HashEmbedding(), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (expected %q, %q, %q or %q)",
			p, ProviderOpenAI, ProviderCohere, ProviderOllama, ProviderHash)
	}
}

// HashDimensions is the vector size produced by HashEmbedding.
const HashDimensions = 512

// HashEmbedding returns a local, deterministic embedding: lowercased word
// tokens hashed into HashDimensions buckets, L2-normalized. It is the offline
// fallback when no embedding provider has credentials, and suits small corpora
// where shared vocabulary is a good relevance signal.
func HashEmbedding() chromem.EmbeddingFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, HashDimensions)
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		for _, w := range words {
			if stopWords[w] {
				continue
			}
			h := fnv.New32a()
			h.Write([]byte(w))
			vec[h.Sum32()%HashDimensions]++
		}

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		if norm == 0 {
			// Text without content words still needs a unit vector.
			vec[0] = 1
			return vec, nil
		}
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
		return vec, nil
	}
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"is": true, "was": true, "are": true, "were": true, "to": true, "and": true,
	"or": true, "for": true, "by": true, "with": true, "what": true, "who": true,
	"when": true, "where": true, "which": true, "how": true, "did": true, "does": true,
}
