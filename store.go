package docrag

import "context"

// Vector search defaults.
const (
	DefaultSearchLimit   = 10
	DefaultNumCandidates = 50
)

// VectorStore persists embedded chunks and finds the nearest ones to a query vector.
// Writes are append-only.
type VectorStore interface {
	// InsertChunks appends chunks to the store and returns how many were inserted.
	InsertChunks(ctx context.Context, chunks []*EmbeddedChunk) (int, error)

	// Search returns up to opts.Limit chunks ordered by descending
	// similarity. Equal scores keep insertion order, so the same contents
	// and query always produce the same results.
	Search(ctx context.Context, vector []float32, opts SearchOptions) ([]SearchResult, error)

	// DeleteAll removes every chunk and returns how many were removed.
	DeleteAll(ctx context.Context) (int, error)

	// Close releases the underlying connection.
	Close() error
}

// SearchOptions configures Search.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// NumCandidates is the candidate pool size for approximate indexes.
	// Exact stores ignore it.
	NumCandidates int
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	if o.NumCandidates <= 0 {
		o.NumCandidates = DefaultNumCandidates
	}
	if o.NumCandidates < o.Limit {
		o.NumCandidates = o.Limit
	}
	return o
}

// SearchResult is a chunk returned by a similarity search.
type SearchResult struct {
	Text    string  `json:"text"`
	Source  string  `json:"source"`
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
}
