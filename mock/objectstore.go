package mock

import (
	"context"

	"github.com/fwojciec/docrag"
)

var _ docrag.ObjectStore = (*ObjectStore)(nil)

// ObjectStore is a mock implementation of docrag.ObjectStore.
type ObjectStore struct {
	ListFn     func(ctx context.Context, prefix string) ([]string, error)
	DownloadFn func(ctx context.Context, key, localPath string) error
	UploadFn   func(ctx context.Context, localPath, key string) error
}

func (s *ObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.ListFn(ctx, prefix)
}

func (s *ObjectStore) Download(ctx context.Context, key, localPath string) error {
	return s.DownloadFn(ctx, key, localPath)
}

func (s *ObjectStore) Upload(ctx context.Context, localPath, key string) error {
	return s.UploadFn(ctx, localPath, key)
}
