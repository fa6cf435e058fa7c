package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fwojciec/docrag"
	"github.com/mattn/go-isatty"
)

// Config holds settings shared by all commands. Every value can be set
// with a flag or its environment variable; .env is loaded first.
type Config struct {
	LogLevel string `name:"log-level" enum:"debug,info,warn,error" default:"info" help:"Log level"`

	Provider  string `env:"DOCRAG_PROVIDER" enum:"openai,gemini" default:"openai" help:"Embedding and generation provider (openai, gemini)"`
	StoreKind string `name:"store" env:"DOCRAG_STORE" enum:"mongodb,sqlite" default:"mongodb" help:"Vector store (mongodb, sqlite)"`
	CrawlKind string `name:"crawler" env:"DOCRAG_CRAWLER" enum:"firecrawl,local" default:"firecrawl" help:"Crawl provider (firecrawl, local)"`
	Extractor string `env:"DOCRAG_EXTRACTOR" enum:"none,trafilatura,readability" default:"none" help:"Main content extractor applied before partitioning"`
	RenderJS  bool   `name:"render-js" env:"DOCRAG_RENDER_JS" help:"Render pages in a headless browser (local crawler)"`

	FirecrawlAPIKey string `name:"firecrawl-api-key" env:"FIRECRAWL_API_KEY" help:"Firecrawl API key"`
	FirecrawlURL    string `name:"firecrawl-url" env:"FIRECRAWL_API_URL" default:"https://api.firecrawl.dev" help:"Firecrawl API endpoint"`

	BucketURI  string `name:"bucket-uri" env:"S3_BUCKET_URI" help:"Crawl destination, s3://bucket/prefix or file://dir/prefix"`
	S3Key      string `name:"s3-key" env:"S3_AWS_KEY" help:"S3 access key"`
	S3Secret   string `name:"s3-secret" env:"S3_AWS_SECRET" help:"S3 secret key"`
	S3Region   string `name:"s3-region" env:"S3_REGION" default:"us-east-1" help:"S3 region"`
	S3Endpoint string `name:"s3-endpoint" env:"S3_ENDPOINT" help:"S3-compatible endpoint"`
	ObjectsDir string `name:"objects-dir" env:"DOCRAG_OBJECTS_DIR" default:"." help:"Base directory for file:// URIs"`

	MongoURI        string `name:"mongo-uri" env:"MONGO_URI" help:"MongoDB connection string"`
	MongoDatabase   string `name:"mongo-database" env:"MONGO_DATABASE" default:"docrag" help:"MongoDB database"`
	MongoCollection string `name:"mongo-collection" env:"MONGO_COLLECTION" default:"chunks" help:"MongoDB collection"`
	MongoIndex      string `name:"mongo-index" env:"MONGO_VECTOR_INDEX" default:"vector_index" help:"Atlas vector search index"`
	DBPath          string `name:"db" env:"DOCRAG_DB" default:"docrag.db" help:"SQLite database path"`

	OpenAIAPIKey        string `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	GeminiAPIKey        string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	EmbeddingModel      string `name:"embedding-model" env:"EMBEDDING_MODEL" help:"Embedding model (provider default when empty)"`
	EmbeddingDimensions int    `name:"embedding-dimensions" env:"EMBEDDING_DIMENSIONS" help:"Shorten embeddings to this size when supported"`
	GenerationModel     string `name:"generation-model" env:"GENERATION_MODEL" help:"Generation model (provider default when empty)"`
	QueryCacheSize      int    `name:"query-cache-size" default:"1000" help:"Cached question embeddings, 0 disables"`
}

// need selects the settings a command depends on.
type need int

const (
	needCrawl need = 1 << iota
	needObjects
	needStore
	needEmbedder
	needGenerator
)

// Require returns ECONFIG naming the first missing setting among needs.
// It runs before any network call.
func (c *Config) Require(needs need) error {
	var missing []string
	check := func(ok bool, name string) {
		if !ok {
			missing = append(missing, name)
		}
	}

	if needs&needCrawl != 0 && c.CrawlKind == "firecrawl" {
		check(c.FirecrawlAPIKey != "", "FIRECRAWL_API_KEY")
	}
	if needs&needObjects != 0 {
		check(c.BucketURI != "", "S3_BUCKET_URI")
	}
	if needs&needStore != 0 && c.StoreKind == "mongodb" {
		check(c.MongoURI != "", "MONGO_URI")
	}
	if needs&(needEmbedder|needGenerator) != 0 {
		switch c.Provider {
		case "openai":
			check(c.OpenAIAPIKey != "", "OPENAI_API_KEY")
		case "gemini":
			check(c.GeminiAPIKey != "", "GEMINI_API_KEY")
		}
	}

	if len(missing) > 0 {
		return docrag.Errorf(docrag.ECONFIG, "missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// newLogger returns a text logger when w is a terminal and a JSON logger otherwise.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
