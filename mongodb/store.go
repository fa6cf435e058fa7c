// Package mongodb implements docrag.VectorStore on MongoDB Atlas Vector Search.
package mongodb

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/fwojciec/docrag"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultIndex is the Atlas vector search index name.
const DefaultIndex = "vector_index"

// EmbeddingPath is the document field holding the vector.
const EmbeddingPath = "embeddings"

var _ docrag.VectorStore = (*Store)(nil)

// Config holds connection settings.
type Config struct {
	URI        string
	Database   string
	Collection string

	// Index defaults to DefaultIndex.
	Index string
}

// Store is a vector store backed by one MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	index  string
}

// Open connects to MongoDB. Returns ECONFIG if a setting is missing.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	switch {
	case cfg.URI == "":
		return nil, docrag.Errorf(docrag.ECONFIG, "MongoDB URI required")
	case cfg.Database == "":
		return nil, docrag.Errorf(docrag.ECONFIG, "MongoDB database required")
	case cfg.Collection == "":
		return nil, docrag.Errorf(docrag.ECONFIG, "MongoDB collection required")
	}
	if cfg.Index == "" {
		cfg.Index = DefaultIndex
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		index:  cfg.Index,
	}, nil
}

// chunkDocument is the stored form of an embedded chunk.
type chunkDocument struct {
	Text       string    `bson:"text"`
	Source     string    `bson:"source"`
	ChunkID    string    `bson:"chunk_id"`
	Embeddings []float32 `bson:"embeddings"`
}

type resultDocument struct {
	ID      primitive.ObjectID `bson:"_id"`
	Text    string             `bson:"text"`
	Source  string             `bson:"source"`
	ChunkID string             `bson:"chunk_id"`
	Score   float64            `bson:"score"`
}

// Documents converts chunks to insertable documents. All embeddings must
// be non-empty and share one dimension.
func Documents(chunks []*docrag.EmbeddedChunk) ([]any, error) {
	docs := make([]any, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return nil, docrag.Errorf(docrag.EINVALID, "chunk %q has no embedding", c.ID)
		}
		if len(c.Embedding) != len(chunks[0].Embedding) {
			return nil, docrag.Errorf(docrag.EINVALID, "chunk %q has %d dimensions, want %d", c.ID, len(c.Embedding), len(chunks[0].Embedding))
		}
		docs = append(docs, chunkDocument{
			Text:       c.Text,
			Source:     c.Source,
			ChunkID:    c.ID,
			Embeddings: c.Embedding,
		})
	}
	return docs, nil
}

// InsertChunks appends chunks to the collection.
func (s *Store) InsertChunks(ctx context.Context, chunks []*docrag.EmbeddedChunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	docs, err := Documents(chunks)
	if err != nil {
		return 0, err
	}

	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert chunks: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// SearchPipeline returns the aggregation pipeline for a vector query.
func SearchPipeline(index string, vector []float32, opts docrag.SearchOptions) mongo.Pipeline {
	opts = opts.WithDefaults()
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "path", Value: EmbeddingPath},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: opts.NumCandidates},
			{Key: "limit", Value: opts.Limit},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "text", Value: 1},
			{Key: "source", Value: 1},
			{Key: "chunk_id", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}

// Search runs $vectorSearch. Results with equal scores are ordered by
// insertion using the document ObjectID.
func (s *Store) Search(ctx context.Context, vector []float32, opts docrag.SearchOptions) ([]docrag.SearchResult, error) {
	if len(vector) == 0 {
		return nil, docrag.Errorf(docrag.EINVALID, "query vector required")
	}

	cursor, err := s.coll.Aggregate(ctx, SearchPipeline(s.index, vector, opts))
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	var docs []resultDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read search results: %w", err)
	}
	return rank(docs), nil
}

func rank(docs []resultDocument) []docrag.SearchResult {
	slices.SortStableFunc(docs, func(a, b resultDocument) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	results := make([]docrag.SearchResult, 0, len(docs))
	for _, d := range docs {
		results = append(results, docrag.SearchResult{
			Text:    d.Text,
			Source:  d.Source,
			ChunkID: d.ChunkID,
			Score:   d.Score,
		})
	}
	return results
}

// DeleteAll removes every document in the collection.
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("delete chunks: %w", err)
	}
	return int(res.DeletedCount), nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
