package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docrag"
)

var _ docrag.CrawlProvider = (*LoggingCrawlProvider)(nil)

// LoggingCrawlProvider wraps a CrawlProvider with logging.
type LoggingCrawlProvider struct {
	next   docrag.CrawlProvider
	logger *slog.Logger
}

// NewLoggingCrawlProvider creates a new LoggingCrawlProvider.
func NewLoggingCrawlProvider(next docrag.CrawlProvider, logger *slog.Logger) *LoggingCrawlProvider {
	return &LoggingCrawlProvider{next: next, logger: logger}
}

func (p *LoggingCrawlProvider) StartCrawl(ctx context.Context, req docrag.CrawlRequest) (id string, err error) {
	defer func(begin time.Time) {
		p.logger.Log(ctx, level(slog.LevelInfo, err), "start crawl",
			"url", req.URL,
			"limit", req.Limit,
			"max_depth", req.MaxDepth,
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.StartCrawl(ctx, req)
}

func (p *LoggingCrawlProvider) CrawlStatus(ctx context.Context, id string) (job *docrag.CrawlJob, err error) {
	defer func(begin time.Time) {
		attrs := []any{"id", id, "duration", time.Since(begin), "err", err}
		if job != nil {
			attrs = append(attrs, "status", job.Status, "completed", job.Completed, "total", job.Total)
		}
		p.logger.Log(ctx, level(slog.LevelInfo, err), "crawl status", attrs...)
	}(time.Now())
	return p.next.CrawlStatus(ctx, id)
}
