package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("delegates to EmbedFn", func(t *testing.T) {
		t.Parallel()

		var calledWith string
		e := &mock.Embedder{
			EmbedFn: func(_ context.Context, text string) ([]float32, error) {
				calledWith = text
				return []float32{1, 0}, nil
			},
		}

		vec, err := e.Embed(context.Background(), "hello")

		require.NoError(t, err)
		assert.Equal(t, "hello", calledWith)
		assert.Equal(t, []float32{1, 0}, vec)
	})
}

func TestVectorStore_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ docrag.VectorStore = &mock.VectorStore{}
}
