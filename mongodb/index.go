package mongodb

import (
	"context"
	"fmt"

	"github.com/fwojciec/docrag"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VectorIndexDefinition returns an Atlas vector index definition over
// EmbeddingPath using cosine similarity.
func VectorIndexDefinition(dimensions int) bson.D {
	return bson.D{
		{Key: "fields", Value: bson.A{
			bson.D{
				{Key: "type", Value: "vector"},
				{Key: "path", Value: EmbeddingPath},
				{Key: "numDimensions", Value: dimensions},
				{Key: "similarity", Value: "cosine"},
			},
		}},
	}
}

// CreateVectorIndex creates the store's vector search index. The index
// builds asynchronously on the Atlas side.
func (s *Store) CreateVectorIndex(ctx context.Context, dimensions int) (string, error) {
	if dimensions <= 0 {
		return "", docrag.Errorf(docrag.EINVALID, "dimensions must be positive")
	}

	name, err := s.coll.SearchIndexes().CreateOne(ctx, mongo.SearchIndexModel{
		Definition: VectorIndexDefinition(dimensions),
		Options:    options.SearchIndexes().SetName(s.index).SetType("vectorSearch"),
	})
	if err != nil {
		return "", fmt.Errorf("create vector index: %w", err)
	}
	return name, nil
}
