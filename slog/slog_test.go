package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/mock"
	docslog "github.com/fwojciec/docrag/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("logs size and dimensions at debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		e := docslog.NewLoggingEmbedder(&mock.Embedder{
			EmbedFn: func(context.Context, string) ([]float32, error) { return []float32{1, 2, 3}, nil },
		}, newLogger(&buf))

		vec, err := e.Embed(context.Background(), "hello")

		require.NoError(t, err)
		assert.Len(t, vec, 3)
		out := buf.String()
		assert.Contains(t, out, "level=DEBUG")
		assert.Contains(t, out, "msg=embed")
		assert.Contains(t, out, "chars=5")
		assert.Contains(t, out, "dimensions=3")
	})

	t.Run("logs errors at error level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		e := docslog.NewLoggingEmbedder(&mock.Embedder{
			EmbedFn: func(context.Context, string) ([]float32, error) { return nil, errors.New("rate limited") },
		}, newLogger(&buf))

		_, err := e.Embed(context.Background(), "hello")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), `err="rate limited"`)
	})
}

func TestLoggingGenerator_Generate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	g := docslog.NewLoggingGenerator(&mock.Generator{
		GenerateFn: func(context.Context, string) (string, error) { return "answer", nil },
	}, newLogger(&buf))

	text, err := g.Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.Contains(t, buf.String(), "msg=generate")
	assert.Contains(t, buf.String(), "prompt_chars=6")
	assert.Contains(t, buf.String(), "answer_chars=6")
}

func TestLoggingVectorStore(t *testing.T) {
	t.Parallel()

	closed := false
	inner := &mock.VectorStore{
		InsertChunksFn: func(_ context.Context, chunks []*docrag.EmbeddedChunk) (int, error) { return len(chunks), nil },
		SearchFn: func(context.Context, []float32, docrag.SearchOptions) ([]docrag.SearchResult, error) {
			return []docrag.SearchResult{{Text: "a"}}, nil
		},
		DeleteAllFn: func(context.Context) (int, error) { return 7, nil },
		CloseFn: func() error {
			closed = true
			return nil
		},
	}

	var buf bytes.Buffer
	s := docslog.NewLoggingVectorStore(inner, newLogger(&buf))
	ctx := context.Background()

	n, err := s.InsertChunks(ctx, []*docrag.EmbeddedChunk{{}, {}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := s.Search(ctx, []float32{1}, docrag.SearchOptions{Limit: 10, NumCandidates: 50})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	deleted, err := s.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, deleted)

	require.NoError(t, s.Close())
	assert.True(t, closed)

	out := buf.String()
	assert.Contains(t, out, `msg="insert chunks" chunks=2 inserted=2`)
	assert.Contains(t, out, "msg=search limit=10 candidates=50 results=1")
	assert.Contains(t, out, `level=WARN msg="delete all" deleted=7`)
}

func TestLoggingObjectStore(t *testing.T) {
	t.Parallel()

	inner := &mock.ObjectStore{
		ListFn:     func(context.Context, string) ([]string, error) { return []string{"a.html", "b.html"}, nil },
		DownloadFn: func(context.Context, string, string) error { return docrag.Errorf(docrag.ENOTFOUND, "missing") },
		UploadFn:   func(context.Context, string, string) error { return nil },
	}

	var buf bytes.Buffer
	s := docslog.NewLoggingObjectStore(inner, newLogger(&buf))
	ctx := context.Background()

	keys, err := s.List(ctx, "docs/")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	err = s.Download(ctx, "docs/a.html", "/tmp/a.html")
	assert.Equal(t, docrag.ENOTFOUND, docrag.ErrorCode(err))

	require.NoError(t, s.Upload(ctx, "/tmp/b.html", "docs/b.html"))

	out := buf.String()
	assert.Contains(t, out, `msg="list objects" prefix=docs/ count=2`)
	assert.Contains(t, out, "level=ERROR msg=download key=docs/a.html")
	assert.Contains(t, out, "level=DEBUG msg=upload path=/tmp/b.html key=docs/b.html")
}

func TestLoggingCrawlProvider(t *testing.T) {
	t.Parallel()

	inner := &mock.CrawlProvider{
		StartCrawlFn: func(context.Context, docrag.CrawlRequest) (string, error) { return "job-1", nil },
		CrawlStatusFn: func(_ context.Context, id string) (*docrag.CrawlJob, error) {
			if id != "job-1" {
				return nil, docrag.Errorf(docrag.ENOTFOUND, "no job")
			}
			return &docrag.CrawlJob{ID: id, Status: docrag.JobScraping, Completed: 3, Total: 10}, nil
		},
	}

	var buf bytes.Buffer
	p := docslog.NewLoggingCrawlProvider(inner, newLogger(&buf))
	ctx := context.Background()

	id, err := p.StartCrawl(ctx, docrag.CrawlRequest{URL: "https://example.com", Limit: 20, MaxDepth: 5})
	require.NoError(t, err)
	assert.Equal(t, "job-1", id)

	job, err := p.CrawlStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, docrag.JobScraping, job.Status)

	_, err = p.CrawlStatus(ctx, "other")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="start crawl" url=https://example.com limit=20 max_depth=5 id=job-1`)
	assert.Contains(t, out, "status=scraping completed=3 total=10")
	assert.Contains(t, out, `level=ERROR msg="crawl status" id=other`)
}
