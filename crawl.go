package docrag

import (
	"context"
	"net/url"
)

// Crawl defaults.
const (
	DefaultCrawlLimit    = 20
	DefaultCrawlMaxDepth = 5
)

// CrawlRequest describes a site crawl.
type CrawlRequest struct {
	URL      string
	Limit    int
	MaxDepth int
}

// Validate returns an error if the request cannot be started.
func (r *CrawlRequest) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "crawl URL required")
	}
	u, err := url.Parse(r.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "crawl URL must be an absolute http(s) URL: %q", r.URL)
	}
	if r.Limit <= 0 {
		return Errorf(EINVALID, "crawl limit must be positive, got %d", r.Limit)
	}
	if r.MaxDepth < 0 {
		return Errorf(EINVALID, "crawl max depth must not be negative, got %d", r.MaxDepth)
	}
	return nil
}

// JobStatus is the state of a crawl job as reported by a provider.
type JobStatus string

// Crawl job statuses.
const (
	JobScraping  JobStatus = "scraping"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the job will not change status again.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// CrawlJob is a snapshot of a crawl job.
type CrawlJob struct {
	ID        string
	Status    JobStatus
	Total     int
	Completed int

	// Pages is populated once the job has completed.
	Pages []*CrawledPage
}

// CrawledPage is a page returned by a crawl provider.
type CrawledPage struct {
	HTML     string
	Metadata map[string]string
}

// URL returns the page URL from the metadata, or "" if unknown.
func (p *CrawledPage) URL() string {
	if p.Metadata == nil {
		return ""
	}
	if u := p.Metadata["url"]; u != "" {
		return u
	}
	return p.Metadata["sourceURL"]
}

// CrawlProvider runs asynchronous crawl jobs.
type CrawlProvider interface {
	// StartCrawl starts a job and returns its ID.
	StartCrawl(ctx context.Context, req CrawlRequest) (string, error)

	// CrawlStatus returns the current state of a job.
	// Returns ENOTFOUND if the job does not exist.
	CrawlStatus(ctx context.Context, id string) (*CrawlJob, error)
}
