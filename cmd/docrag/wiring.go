package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/crawl"
	"github.com/fwojciec/docrag/firecrawl"
	"github.com/fwojciec/docrag/fs"
	"github.com/fwojciec/docrag/gemini"
	"github.com/fwojciec/docrag/goquery"
	"github.com/fwojciec/docrag/htmltomarkdown"
	dochttp "github.com/fwojciec/docrag/http"
	"github.com/fwojciec/docrag/ingest"
	"github.com/fwojciec/docrag/lru"
	"github.com/fwojciec/docrag/mongodb"
	"github.com/fwojciec/docrag/openai"
	"github.com/fwojciec/docrag/readability"
	"github.com/fwojciec/docrag/rod"
	"github.com/fwojciec/docrag/s3"
	docslog "github.com/fwojciec/docrag/slog"
	"github.com/fwojciec/docrag/sqlite"
	"github.com/fwojciec/docrag/trafilatura"
)

// localCrawlRate is the request rate per host of the local crawler.
const localCrawlRate = 2.0

// wiring builds production services from configuration.
type wiring struct {
	cfg    *Config
	logger *slog.Logger
	main   *Main

	// embeddingModel is set by models.
	embeddingModel string
}

func (w *wiring) openObjects(ctx context.Context, uri docrag.ObjectURI) (docrag.ObjectStore, error) {
	var store docrag.ObjectStore
	switch uri.Scheme {
	case "s3":
		s, err := s3.New(ctx, s3.Config{
			Region:    w.cfg.S3Region,
			AccessKey: w.cfg.S3Key,
			SecretKey: w.cfg.S3Secret,
			Endpoint:  w.cfg.S3Endpoint,
		}, uri.Bucket)
		if err != nil {
			return nil, err
		}
		store = s
	case "file":
		s, err := fs.ForURI(w.cfg.ObjectsDir, uri)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		return nil, docrag.Errorf(docrag.ECONFIG, "unsupported object URI scheme %q", uri.Scheme)
	}
	return docslog.NewLoggingObjectStore(store, w.logger), nil
}

func (w *wiring) crawler(ctx context.Context, dest docrag.ObjectURI) (*crawl.Crawler, error) {
	objects, err := w.openObjects(ctx, dest)
	if err != nil {
		return nil, err
	}

	var provider docrag.CrawlProvider
	switch w.cfg.CrawlKind {
	case "firecrawl":
		c, err := firecrawl.NewClient(w.cfg.FirecrawlAPIKey, firecrawl.WithBaseURL(w.cfg.FirecrawlURL))
		if err != nil {
			return nil, err
		}
		provider = c
	case "local":
		spider, err := w.spider()
		if err != nil {
			return nil, err
		}
		provider = spider
	default:
		return nil, docrag.Errorf(docrag.ECONFIG, "unknown crawler %q", w.cfg.CrawlKind)
	}
	provider = docslog.NewLoggingCrawlProvider(provider, w.logger)

	poller := crawl.NewPoller(provider)
	if w.cfg.CrawlKind == "local" {
		poller.Interval = time.Second
	}
	return &crawl.Crawler{
		Provider: provider,
		Objects:  objects,
		Poller:   poller,
		Logger:   w.logger,
	}, nil
}

func (w *wiring) spider() (*crawl.Spider, error) {
	var fetcher docrag.Fetcher = dochttp.NewFetcher()
	if w.cfg.RenderJS {
		f, err := rod.NewFetcher()
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		fetcher = f
	}
	w.main.closers = append(w.main.closers, fetcher)

	spider := &crawl.Spider{
		Fetcher:  docslog.NewLoggingFetcher(fetcher, w.logger),
		Links:    goquery.NewLinkSelector(),
		Sitemaps: docslog.NewLoggingSitemapService(dochttp.NewSitemapService(nil), w.logger),
		Limiter:  crawl.NewDomainLimiter(localCrawlRate),
		Logger:   w.logger,
	}
	w.main.closers = append(w.main.closers, spider)
	return spider, nil
}

func (w *wiring) store(ctx context.Context) (docrag.VectorStore, VectorIndexer, error) {
	switch w.cfg.StoreKind {
	case "mongodb":
		s, err := mongodb.Open(ctx, mongodb.Config{
			URI:        w.cfg.MongoURI,
			Database:   w.cfg.MongoDatabase,
			Collection: w.cfg.MongoCollection,
			Index:      w.cfg.MongoIndex,
		})
		if err != nil {
			return nil, nil, err
		}
		w.main.closers = append(w.main.closers, s)
		return docslog.NewLoggingVectorStore(s, w.logger), s, nil
	case "sqlite":
		db := sqlite.NewDB(w.cfg.DBPath)
		if err := db.Open(); err != nil {
			return nil, nil, fmt.Errorf("failed to open database at %q: %w", w.cfg.DBPath, err)
		}
		s := sqlite.NewStore(db)
		w.main.closers = append(w.main.closers, s)
		return docslog.NewLoggingVectorStore(s, w.logger), nil, nil
	}
	return nil, nil, docrag.Errorf(docrag.ECONFIG, "unknown store %q", w.cfg.StoreKind)
}

// models returns the embedder and generator of the configured provider.
func (w *wiring) models(ctx context.Context) (docrag.Embedder, docrag.Generator, error) {
	var (
		embedder  docrag.Embedder
		generator docrag.Generator
		model     string
	)
	switch w.cfg.Provider {
	case "openai":
		client, err := openai.NewClient(openai.Config{APIKey: w.cfg.OpenAIAPIKey})
		if err != nil {
			return nil, nil, err
		}
		e := openai.NewEmbedder(client)
		e.Dimensions = w.cfg.EmbeddingDimensions
		g := openai.NewGenerator(client)
		if w.cfg.EmbeddingModel != "" {
			e.Model = w.cfg.EmbeddingModel
		}
		if w.cfg.GenerationModel != "" {
			g.Model = w.cfg.GenerationModel
		}
		embedder, generator, model = e, g, e.Model
	case "gemini":
		client, err := gemini.NewClient(ctx, w.cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		e := gemini.NewEmbedder(client)
		e.Dimensions = w.cfg.EmbeddingDimensions
		g := gemini.NewGenerator(client)
		if w.cfg.EmbeddingModel != "" {
			e.Model = w.cfg.EmbeddingModel
		}
		if w.cfg.GenerationModel != "" {
			g.Model = w.cfg.GenerationModel
		}
		embedder, generator, model = e, g, e.Model
	default:
		return nil, nil, docrag.Errorf(docrag.ECONFIG, "unknown provider %q", w.cfg.Provider)
	}
	w.embeddingModel = model
	w.logger.Debug("models configured", "provider", w.cfg.Provider, "embedding_model", model)
	return docslog.NewLoggingEmbedder(embedder, w.logger), docslog.NewLoggingGenerator(generator, w.logger), nil
}

// queryCache wraps embedder with an in-memory cache for repeated questions.
func (w *wiring) queryCache(embedder docrag.Embedder) docrag.Embedder {
	if w.cfg.QueryCacheSize <= 0 {
		return embedder
	}
	return lru.NewEmbedder(embedder, w.embeddingModel, w.cfg.QueryCacheSize)
}

func (w *wiring) ingester(embedder docrag.Embedder, store docrag.VectorStore) *ingest.Ingester {
	partitioner := goquery.NewPartitioner()
	partitioner.Converter = htmltomarkdown.NewConverter()
	switch w.cfg.Extractor {
	case "trafilatura":
		partitioner.Extractor = trafilatura.NewExtractor()
	case "readability":
		partitioner.Extractor = readability.NewExtractor()
	}

	return &ingest.Ingester{
		Processor: ingest.NewProcessor(nil, partitioner, w.logger),
		Embedder:  embedder,
		Store:     store,
		Logger:    w.logger,
	}
}
