package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/docrag"
	"google.golang.org/genai"
)

var _ docrag.Embedder = (*Embedder)(nil)

// Embedder implements docrag.Embedder using Gemini embedding models.
type Embedder struct {
	client *genai.Client

	Model string

	// Dimensions truncates output vectors when positive.
	Dimensions int
}

// NewEmbedder creates a new Embedder using DefaultEmbeddingModel.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client, Model: DefaultEmbeddingModel}
}

// Embed returns the embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, docrag.Errorf(docrag.EINVALID, "text required")
	}

	var config *genai.EmbedContentConfig
	if e.Dimensions > 0 {
		dims := int32(e.Dimensions)
		config = &genai.EmbedContentConfig{OutputDimensionality: &dims}
	}

	result, err := e.client.Models.EmbedContent(ctx, e.Model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, docrag.Errorf(docrag.EINTERNAL, "gemini returned no embedding")
	}
	return result.Embeddings[0].Values, nil
}
