package docrag

import (
	"context"
	"strings"
)

// Asker answers natural language questions about the ingested documentation.
type Asker interface {
	// Ask answers the question from retrieved documentation.
	// Returns EINVALID if the question is empty.
	Ask(ctx context.Context, question string) (*Answer, error)
}

// Answer is the generated reply together with the context it was built from.
type Answer struct {
	Text    string
	Context string
}

// Generator produces a completion for a prompt.
// Implementations use a deterministic (zero) temperature.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Ensure Retriever implements Asker at compile time.
var _ Asker = (*Retriever)(nil)

// Retriever answers questions by embedding the question, searching the
// vector store and passing the ranked chunks to a generator. Nothing is
// retried; the first error is returned.
type Retriever struct {
	Embedder  Embedder
	Store     VectorStore
	Generator Generator

	// Limit and NumCandidates default to DefaultSearchLimit and DefaultNumCandidates.
	Limit         int
	NumCandidates int
}

// Ask embeds the question, retrieves the nearest chunks and generates an answer.
func (r *Retriever) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, Errorf(EINVALID, "question required")
	}

	results, err := r.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	docs := FormatContext(results)

	text, err := r.Generator.Generate(ctx, BuildPrompt(docs, question))
	if err != nil {
		return nil, err
	}
	return &Answer{Text: text, Context: docs}, nil
}

// Retrieve returns the chunks nearest to the question, best first.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]SearchResult, error) {
	vec, err := r.Embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}
	opts := SearchOptions{Limit: r.Limit, NumCandidates: r.NumCandidates}.WithDefaults()
	return r.Store.Search(ctx, vec, opts)
}
