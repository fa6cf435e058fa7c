package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestStore_UploadThenDownload(t *testing.T) {
	t.Parallel()

	// Given a local file and an empty store
	src := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, src, "<p>hello</p>")
	store := fs.NewStore(filepath.Join(t.TempDir(), "bucket"))
	ctx := context.Background()

	// When I upload it and download it elsewhere
	require.NoError(t, store.Upload(ctx, src, "crawls/job-1/page.html"))
	dst := filepath.Join(t.TempDir(), "copy.html")
	require.NoError(t, store.Download(ctx, "crawls/job-1/page.html", dst))

	// Then the contents match
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", string(got))
}

func TestStore_UploadReplacesExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewStore(filepath.Join(dir, "bucket"))
	src := filepath.Join(dir, "a.html")
	ctx := context.Background()

	writeFile(t, src, "one")
	require.NoError(t, store.Upload(ctx, src, "a.html"))
	writeFile(t, src, "two")
	require.NoError(t, store.Upload(ctx, src, "a.html"))

	got, err := os.ReadFile(filepath.Join(dir, "bucket", "a.html"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	t.Run("returns sorted keys under prefix", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, filepath.Join(root, "job-1", "b.html"), "b")
		writeFile(t, filepath.Join(root, "job-1", "a.html"), "a")
		writeFile(t, filepath.Join(root, "job-1", "sub", "c.txt"), "c")
		writeFile(t, filepath.Join(root, "job-2", "d.html"), "d")
		writeFile(t, filepath.Join(root, "job-1", ".upload-123"), "partial")

		keys, err := fs.NewStore(root).List(context.Background(), "job-1/")

		require.NoError(t, err)
		assert.Equal(t, []string{"job-1/a.html", "job-1/b.html", "job-1/sub/c.txt"}, keys)
	})

	t.Run("missing root lists as empty", func(t *testing.T) {
		t.Parallel()

		keys, err := fs.NewStore(filepath.Join(t.TempDir(), "nope")).List(context.Background(), "")

		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestStore_Download(t *testing.T) {
	t.Parallel()

	t.Run("missing key is not found", func(t *testing.T) {
		t.Parallel()

		err := fs.NewStore(t.TempDir()).Download(context.Background(), "missing.html", filepath.Join(t.TempDir(), "x"))

		assert.Equal(t, docrag.ENOTFOUND, docrag.ErrorCode(err))
	})

	t.Run("rejects keys escaping the root", func(t *testing.T) {
		t.Parallel()

		err := fs.NewStore(t.TempDir()).Download(context.Background(), "../secret", filepath.Join(t.TempDir(), "x"))

		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))
	})
}

func TestForURI(t *testing.T) {
	t.Parallel()

	t.Run("roots bucket under base directory", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		uri, err := docrag.ParseObjectURI("file://docs/crawls/")
		require.NoError(t, err)
		src := filepath.Join(t.TempDir(), "a.html")
		writeFile(t, src, "a")

		store, err := fs.ForURI(base, uri)
		require.NoError(t, err)
		require.NoError(t, store.Upload(context.Background(), src, uri.Join("a.html").Prefix))

		_, err = os.Stat(filepath.Join(base, "docs", "crawls", "a.html"))
		assert.NoError(t, err)
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ForURI(t.TempDir(), docrag.ObjectURI{Scheme: "s3", Bucket: "b"})

		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))
	})
}
