package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docrag"
)

var _ docrag.ObjectStore = (*LoggingObjectStore)(nil)

// LoggingObjectStore wraps an ObjectStore with logging. Transfers of
// single objects log at debug level.
type LoggingObjectStore struct {
	next   docrag.ObjectStore
	logger *slog.Logger
}

// NewLoggingObjectStore creates a new LoggingObjectStore.
func NewLoggingObjectStore(next docrag.ObjectStore, logger *slog.Logger) *LoggingObjectStore {
	return &LoggingObjectStore{next: next, logger: logger}
}

func (s *LoggingObjectStore) List(ctx context.Context, prefix string) (keys []string, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(slog.LevelInfo, err), "list objects",
			"prefix", prefix,
			"count", len(keys),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.List(ctx, prefix)
}

func (s *LoggingObjectStore) Download(ctx context.Context, key, localPath string) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(slog.LevelDebug, err), "download",
			"key", key,
			"path", localPath,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Download(ctx, key, localPath)
}

func (s *LoggingObjectStore) Upload(ctx context.Context, localPath, key string) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(slog.LevelDebug, err), "upload",
			"path", localPath,
			"key", key,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Upload(ctx, localPath, key)
}
