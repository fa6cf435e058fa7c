package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/docrag"
	"github.com/openai/openai-go"
)

var _ docrag.Embedder = (*Embedder)(nil)

// Embedder implements docrag.Embedder using the OpenAI embeddings endpoint.
type Embedder struct {
	client *openai.Client

	Model string

	// Dimensions shortens the returned vectors when positive.
	// Only text-embedding-3 models support it.
	Dimensions int
}

// NewEmbedder returns an Embedder using DefaultEmbeddingModel.
func NewEmbedder(client *openai.Client) *Embedder {
	return &Embedder{client: client, Model: DefaultEmbeddingModel}
}

// Embed returns the embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, docrag.Errorf(docrag.EINVALID, "text required")
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(e.Model),
	}
	if e.Dimensions > 0 {
		params.Dimensions = openai.Int(int64(e.Dimensions))
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, docrag.Errorf(docrag.EINTERNAL, "openai returned no embedding")
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
