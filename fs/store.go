// Package fs implements docrag.ObjectStore on the local filesystem.
package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/docrag"
)

// Ensure Store implements docrag.ObjectStore at compile time.
var _ docrag.ObjectStore = (*Store)(nil)

// Store keeps objects as files under a root directory. Keys use "/" as the
// separator regardless of platform.
type Store struct {
	root string
}

// NewStore creates a new Store rooted at dir. The directory is created on
// first upload.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// ForURI returns a Store for a file:// URI. The bucket is a directory
// under baseDir.
func ForURI(baseDir string, uri docrag.ObjectURI) (*Store, error) {
	if uri.Scheme != "file" {
		return nil, docrag.Errorf(docrag.EINVALID, "unsupported scheme %q for filesystem store", uri.Scheme)
	}
	if !filepath.IsLocal(uri.Bucket) {
		return nil, docrag.Errorf(docrag.EINVALID, "invalid bucket %q", uri.Bucket)
	}
	return NewStore(filepath.Join(baseDir, uri.Bucket)), nil
}

func (s *Store) path(key string) (string, error) {
	rel := filepath.FromSlash(key)
	if key == "" || !filepath.IsLocal(rel) {
		return "", docrag.Errorf(docrag.EINVALID, "invalid key %q", key)
	}
	return filepath.Join(s.root, rel), nil
}

// List returns keys of regular files starting with prefix, sorted.
// A missing root directory lists as empty.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) && path == s.root {
				return iofs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if key := filepath.ToSlash(rel); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}

// Download copies the object to localPath.
func (s *Store) Download(ctx context.Context, key, localPath string) error {
	src, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(src)
	if errors.Is(err, iofs.ErrNotExist) {
		return docrag.Errorf(docrag.ENOTFOUND, "object %q not found", key)
	} else if err != nil {
		return err
	}
	defer f.Close()

	return writeFileAtomic(localPath, f)
}

// Upload copies localPath to the object. Readers never observe a partial
// object.
func (s *Store) Upload(ctx context.Context, localPath, key string) error {
	dst, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeFileAtomic(dst, f)
}

// writeFileAtomic writes r to a temporary file next to path, then renames it.
func writeFileAtomic(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
