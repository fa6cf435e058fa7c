// Package ingest turns crawled HTML files into stored, embedded chunks.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docrag"
)

// DefaultLanguage is the language hint passed to the partitioner.
const DefaultLanguage = "en"

// ProcessResult holds the chunks produced from a prefix.
type ProcessResult struct {
	Chunks []*docrag.Chunk

	// Files counts the HTML files found under the prefix.
	Files int

	// Skipped maps keys that produced no chunks to the reason.
	Skipped map[string]error
}

// Processor downloads HTML files from an object store, partitions them into
// elements and groups the elements into chunks.
type Processor struct {
	Objects     docrag.ObjectStore
	Partitioner docrag.Partitioner
	Language    string
	Options     docrag.ChunkOptions
	Logger      *slog.Logger
}

// NewProcessor returns a Processor with the default language and chunk options.
func NewProcessor(objects docrag.ObjectStore, partitioner docrag.Partitioner, logger *slog.Logger) *Processor {
	return &Processor{
		Objects:     objects,
		Partitioner: partitioner,
		Language:    DefaultLanguage,
		Options:     docrag.DefaultChunkOptions(),
		Logger:      logger,
	}
}

// Process chunks every ".html" object under prefix, in key order. The key
// becomes the chunk source. Files that cannot be downloaded or parsed, or
// that hold no text, are skipped and logged. Only a failed listing or
// invalid chunk options stop the run.
func (p *Processor) Process(ctx context.Context, prefix string) (*ProcessResult, error) {
	if err := p.Options.Validate(); err != nil {
		return nil, err
	}

	keys, err := p.Objects.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}

	dir, err := os.MkdirTemp("", "docrag-ingest-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	res := &ProcessResult{Skipped: make(map[string]error)}
	for _, key := range keys {
		if !strings.EqualFold(path.Ext(key), ".html") {
			continue
		}
		res.Files++

		chunks, err := p.processFile(ctx, dir, key)
		if err != nil {
			res.Skipped[key] = err
			p.log().Warn("skipping document", "key", key, "err", err)
			continue
		}
		res.Chunks = append(res.Chunks, chunks...)
	}
	return res, nil
}

func (p *Processor) processFile(ctx context.Context, dir, key string) ([]*docrag.Chunk, error) {
	local := filepath.Join(dir, path.Base(key))
	if err := p.Objects.Download(ctx, key, local); err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer os.Remove(local)

	f, err := os.Open(local)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lang := p.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	elements, err := p.Partitioner.Partition(f, lang)
	if err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}

	chunks, err := docrag.ChunkElements(key, elements, p.Options)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, docrag.Errorf(docrag.EINVALID, "document has no text")
	}
	return chunks, nil
}

func (p *Processor) log() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
