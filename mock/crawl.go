package mock

import (
	"context"

	"github.com/fwojciec/docrag"
)

var _ docrag.CrawlProvider = (*CrawlProvider)(nil)

// CrawlProvider is a mock implementation of docrag.CrawlProvider.
type CrawlProvider struct {
	StartCrawlFn  func(ctx context.Context, req docrag.CrawlRequest) (string, error)
	CrawlStatusFn func(ctx context.Context, id string) (*docrag.CrawlJob, error)
}

func (p *CrawlProvider) StartCrawl(ctx context.Context, req docrag.CrawlRequest) (string, error) {
	return p.StartCrawlFn(ctx, req)
}

func (p *CrawlProvider) CrawlStatus(ctx context.Context, id string) (*docrag.CrawlJob, error) {
	return p.CrawlStatusFn(ctx, id)
}
