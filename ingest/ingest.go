package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/docrag"
)

// Phase names a step of an ingest run.
type Phase string

const (
	PhaseProcessed Phase = "processed"
	PhaseEmbedded  Phase = "embedded"
	PhaseStored    Phase = "stored"
)

// ProgressFunc is called after each phase with the report so far.
type ProgressFunc func(phase Phase, report *Report)

// Report counts the outcome of an ingest run.
type Report struct {
	Files       int
	Skipped     int
	Chunks      int
	Embedded    int
	EmbedFailed int
	Stored      int
	Dimensions  int
}

// Ingester processes a prefix, embeds the chunks and stores them.
type Ingester struct {
	Processor *Processor
	Embedder  docrag.Embedder
	Store     docrag.VectorStore
	Logger    *slog.Logger
}

// Ingest runs the pipeline for every HTML file under prefix. Chunks that
// fail to embed are logged with their ID and dropped. Errors from listing
// or storing are returned along with the partial report.
func (in *Ingester) Ingest(ctx context.Context, prefix string, progress ProgressFunc) (*Report, error) {
	report := &Report{}
	notify := func(phase Phase) {
		if progress != nil {
			progress(phase, report)
		}
	}

	processed, err := in.Processor.Process(ctx, prefix)
	if err != nil {
		return report, err
	}
	report.Files = processed.Files
	report.Skipped = len(processed.Skipped)
	report.Chunks = len(processed.Chunks)
	notify(PhaseProcessed)

	embedded := docrag.EmbedChunks(ctx, in.Embedder, processed.Chunks)
	for _, f := range embedded.Failed {
		in.log().Error("embedding failed", "chunk_id", f.Chunk.ID, "source", f.Chunk.Source, "err", f.Err)
	}
	report.Embedded = len(embedded.Embedded)
	report.EmbedFailed = len(embedded.Failed)
	report.Dimensions = embedded.Dimensions
	notify(PhaseEmbedded)

	if len(embedded.Embedded) == 0 {
		notify(PhaseStored)
		return report, nil
	}
	n, err := in.Store.InsertChunks(ctx, embedded.Embedded)
	report.Stored = n
	if err != nil {
		return report, fmt.Errorf("store chunks: %w", err)
	}
	notify(PhaseStored)
	return report, nil
}

func (in *Ingester) log() *slog.Logger {
	if in.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return in.Logger
}
