// Package lru implements an in-memory embedding cache using golang-lru.
package lru

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/fwojciec/docrag"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of embeddings kept when no size is given.
const DefaultSize = 1000

var _ docrag.Embedder = (*Embedder)(nil)

// Embedder caches vectors returned by another Embedder, keyed by text and
// model. Repeated questions in a chat session skip the embedding call.
type Embedder struct {
	next  docrag.Embedder
	model string
	cache *lru.Cache[string, []float32]
}

// NewEmbedder wraps next. The model name is part of the cache key so
// caches of different models never mix.
func NewEmbedder(next docrag.Embedder, model string, size int) *Embedder {
	if size <= 0 {
		size = DefaultSize
	}
	cache, _ := lru.New[string, []float32](size)
	return &Embedder{next: next, model: model, cache: cache}
}

// Embed returns the cached vector for text or computes and stores it.
// Errors are not cached.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := e.key(text)
	if vec, ok := e.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Add(key, vec)
	return vec, nil
}

// Len returns the number of cached vectors.
func (e *Embedder) Len() int {
	return e.cache.Len()
}

func (e *Embedder) key(text string) string {
	sum := sha256.Sum256([]byte(text + "\x00" + e.model))
	return hex.EncodeToString(sum[:])
}
