package docrag

import "context"

// Embedder maps text to a dense vector. Every vector produced by one
// Embedder has the same dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddedChunk is a chunk paired with its embedding vector.
type EmbeddedChunk struct {
	*Chunk
	Embedding []float32 `json:"embeddings"`
}

// EmbedFailure records a chunk that could not be embedded.
type EmbedFailure struct {
	Chunk *Chunk
	Err   error
}

// EmbedResult holds the outcome of EmbedChunks.
type EmbedResult struct {
	Embedded []*EmbeddedChunk
	Failed   []EmbedFailure

	// Dimensions is the vector length shared by all embedded chunks.
	Dimensions int
}

// EmbedChunks embeds each chunk independently. A chunk whose call fails,
// or whose vector dimension differs from the first successful one, is
// recorded in Failed and the batch continues. Cancellation of ctx marks
// the remaining chunks as failed.
func EmbedChunks(ctx context.Context, embedder Embedder, chunks []*Chunk) *EmbedResult {
	result := &EmbedResult{}
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, EmbedFailure{Chunk: chunk, Err: err})
			continue
		}

		vec, err := embedder.Embed(ctx, chunk.Text)
		if err == nil && len(vec) == 0 {
			err = Errorf(EINVALID, "empty embedding for chunk %q", chunk.ID)
		}
		if err == nil && result.Dimensions != 0 && len(vec) != result.Dimensions {
			err = Errorf(EINVALID, "embedding for chunk %q has %d dimensions, want %d", chunk.ID, len(vec), result.Dimensions)
		}
		if err != nil {
			result.Failed = append(result.Failed, EmbedFailure{Chunk: chunk, Err: err})
			continue
		}

		if result.Dimensions == 0 {
			result.Dimensions = len(vec)
		}
		result.Embedded = append(result.Embedded, &EmbeddedChunk{Chunk: chunk, Embedding: vec})
	}
	return result
}
