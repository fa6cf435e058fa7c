package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docrag"
)

var _ docrag.VectorStore = (*LoggingVectorStore)(nil)

// LoggingVectorStore wraps a VectorStore with logging.
type LoggingVectorStore struct {
	next   docrag.VectorStore
	logger *slog.Logger
}

// NewLoggingVectorStore creates a new LoggingVectorStore.
func NewLoggingVectorStore(next docrag.VectorStore, logger *slog.Logger) *LoggingVectorStore {
	return &LoggingVectorStore{next: next, logger: logger}
}

func (s *LoggingVectorStore) InsertChunks(ctx context.Context, chunks []*docrag.EmbeddedChunk) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(slog.LevelInfo, err), "insert chunks",
			"chunks", len(chunks),
			"inserted", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.InsertChunks(ctx, chunks)
}

func (s *LoggingVectorStore) Search(ctx context.Context, vector []float32, opts docrag.SearchOptions) (results []docrag.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(slog.LevelInfo, err), "search",
			"limit", opts.Limit,
			"candidates", opts.NumCandidates,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, vector, opts)
}

func (s *LoggingVectorStore) DeleteAll(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(slog.LevelWarn, err), "delete all",
			"deleted", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteAll(ctx)
}

func (s *LoggingVectorStore) Close() error {
	return s.next.Close()
}
