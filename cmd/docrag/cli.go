package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/crawl"
	"github.com/fwojciec/docrag/ingest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Dest is the object prefix crawls upload to.
	Dest    docrag.ObjectURI
	Crawler *crawl.Crawler

	// OpenObjects returns the object store holding uri's bucket.
	OpenObjects func(ctx context.Context, uri docrag.ObjectURI) (docrag.ObjectStore, error)
	Ingester    *ingest.Ingester

	Asker   docrag.Asker
	Store   docrag.VectorStore
	Indexer VectorIndexer
}

// VectorIndexer creates the search index for a vector store.
type VectorIndexer interface {
	CreateVectorIndex(ctx context.Context, dimensions int) (string, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config `embed:""`

	Run         RunCmd         `cmd:"" help:"Crawl, ingest, then answer questions interactively"`
	Crawl       CrawlCmd       `cmd:"" help:"Crawl a documentation site and upload its pages"`
	Ingest      IngestCmd      `cmd:"" help:"Chunk, embed and store crawled pages"`
	Ask         AskCmd         `cmd:"" help:"Answer a question from stored documentation"`
	Chat        ChatCmd        `cmd:"" help:"Answer questions interactively"`
	Clear       ClearCmd       `cmd:"" help:"Delete all stored chunks"`
	CreateIndex CreateIndexCmd `cmd:"" name:"create-index" help:"Create the MongoDB Atlas vector search index"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct{}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL      string `arg:"" help:"Documentation URL"`
	Limit    int    `short:"l" default:"20" help:"Maximum pages to crawl"`
	MaxDepth int    `short:"d" name:"max-depth" default:"5" help:"Maximum link depth"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	URI string `arg:"" help:"Object URI of crawled pages, e.g. s3://bucket/prefix/job-id/"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question    string `arg:"" help:"Question to ask about the documentation"`
	ShowContext bool   `name:"show-context" help:"Print the retrieved documents after the answer"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct{}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Force bool `help:"Confirm deletion"`
}

// CreateIndexCmd is the "create-index" subcommand.
type CreateIndexCmd struct {
	Dimensions int `default:"3072" help:"Embedding dimensions"`
}
