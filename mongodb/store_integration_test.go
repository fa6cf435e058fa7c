//go:build integration

package mongodb_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/mongodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Integration_InsertAndDelete(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := mongodb.Open(ctx, mongodb.Config{URI: uri, Database: "docrag_test", Collection: "chunks"})
	require.NoError(t, err)
	defer store.Close()

	_, err = store.DeleteAll(ctx)
	require.NoError(t, err)

	n, err := store.InsertChunks(ctx, []*docrag.EmbeddedChunk{
		{Chunk: &docrag.Chunk{ID: "a.html_0", Source: "a.html", Text: "hello"}, Embedding: []float32{1, 0}},
		{Chunk: &docrag.Chunk{ID: "a.html_1", Source: "a.html", Text: "world"}, Embedding: []float32{0, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	deleted, err := store.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
}
