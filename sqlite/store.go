package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docrag.VectorStore = (*Store)(nil)

// Store implements docrag.VectorStore with exact cosine search over all
// stored chunks.
type Store struct {
	db *DB
}

// NewStore creates a new Store. The store owns db and closes it on Close.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// InsertChunks appends chunks in one transaction and returns how many rows
// were added. A chunk already stored with the same source, ID and text is
// skipped, so ingesting an unchanged document twice adds nothing. All
// embeddings must share the dimension of chunks already stored.
func (s *Store) InsertChunks(ctx context.Context, chunks []*docrag.EmbeddedChunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	dims, err := s.dimensions(ctx)
	if err != nil {
		return 0, err
	}
	if dims == 0 {
		dims = len(chunks[0].Embedding)
	}
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return 0, docrag.Errorf(docrag.EINVALID, "chunk %q has no embedding", c.ID)
		}
		if len(c.Embedding) != dims {
			return 0, docrag.Errorf(docrag.EINVALID, "chunk %q has %d dimensions, store has %d", c.ID, len(c.Embedding), dims)
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	exists, err := tx.PrepareContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chunks
			WHERE source = ? AND chunk_id = ? AND content_hash = ? AND text = ?
		)
	`)
	if err != nil {
		return 0, err
	}
	defer exists.Close()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, chunk_id, source, text, content_hash, dimensions, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	var n int
	for _, c := range chunks {
		hash := hashContent(c.Text)

		var found bool
		if err := exists.QueryRowContext(ctx, c.Source, c.ID, hash, c.Text).Scan(&found); err != nil {
			return 0, fmt.Errorf("look up chunk %q: %w", c.ID, err)
		}
		if found {
			continue
		}

		if _, err := stmt.ExecContext(ctx, uuid.New().String(), c.ID, c.Source, c.Text,
			hash, len(c.Embedding), encodeVector(c.Embedding), now); err != nil {
			return 0, fmt.Errorf("insert chunk %q: %w", c.ID, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// dimensions returns the vector dimension of stored chunks, or 0 if empty.
func (s *Store) dimensions(ctx context.Context) (int, error) {
	var dims int
	err := s.db.QueryRowContext(ctx, `SELECT dimensions FROM chunks ORDER BY seq LIMIT 1`).Scan(&dims)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return dims, err
}

type scored struct {
	result docrag.SearchResult
	seq    int64
}

// Search scores every chunk against vector and returns the best
// opts.Limit. Ties keep insertion order.
func (s *Store) Search(ctx context.Context, vector []float32, opts docrag.SearchOptions) ([]docrag.SearchResult, error) {
	if len(vector) == 0 {
		return nil, docrag.Errorf(docrag.EINVALID, "query vector required")
	}
	opts = opts.WithDefaults()

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, chunk_id, source, text, dimensions, embedding
		FROM chunks
		ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []scored
	for rows.Next() {
		var (
			sc   scored
			dims int
			blob []byte
		)
		if err := rows.Scan(&sc.seq, &sc.result.ChunkID, &sc.result.Source, &sc.result.Text, &dims, &blob); err != nil {
			return nil, err
		}
		if dims != len(vector) {
			return nil, docrag.Errorf(docrag.EINVALID, "query has %d dimensions, store has %d", len(vector), dims)
		}
		emb, err := decodeVector(blob, dims)
		if err != nil {
			return nil, err
		}
		sc.result.Score = cosine(vector, emb)
		all = append(all, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(all, func(a, b scored) int {
		if c := cmp.Compare(b.result.Score, a.result.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	results := make([]docrag.SearchResult, 0, min(len(all), opts.Limit))
	for _, sc := range all[:min(len(all), opts.Limit)] {
		results = append(results, sc.result)
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n)
	return n, err
}

// DeleteAll removes every chunk.
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chunks`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
