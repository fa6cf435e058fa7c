package mock

import (
	"context"

	"github.com/fwojciec/docrag"
)

var _ docrag.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of docrag.VectorStore.
type VectorStore struct {
	InsertChunksFn func(ctx context.Context, chunks []*docrag.EmbeddedChunk) (int, error)
	SearchFn       func(ctx context.Context, vector []float32, opts docrag.SearchOptions) ([]docrag.SearchResult, error)
	DeleteAllFn    func(ctx context.Context) (int, error)
	CloseFn        func() error
}

func (s *VectorStore) InsertChunks(ctx context.Context, chunks []*docrag.EmbeddedChunk) (int, error) {
	return s.InsertChunksFn(ctx, chunks)
}

func (s *VectorStore) Search(ctx context.Context, vector []float32, opts docrag.SearchOptions) ([]docrag.SearchResult, error) {
	return s.SearchFn(ctx, vector, opts)
}

func (s *VectorStore) DeleteAll(ctx context.Context) (int, error) {
	return s.DeleteAllFn(ctx)
}

func (s *VectorStore) Close() error {
	return s.CloseFn()
}
