// Package firecrawl implements docrag.CrawlProvider using the Firecrawl
// hosted crawling API.
package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/docrag"
	fc "github.com/mendableai/firecrawl-go"
)

// DefaultBaseURL is the Firecrawl API endpoint.
const DefaultBaseURL = "https://api.firecrawl.dev"

// DefaultTimeout bounds each API request.
const DefaultTimeout = 60 * time.Second

// Ensure Client implements docrag.CrawlProvider at compile time.
var _ docrag.CrawlProvider = (*Client)(nil)

// Client runs crawl jobs through the Firecrawl SDK.
type Client struct {
	app *fc.FirecrawlApp

	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new Client. Returns ECONFIG if apiKey is empty.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, docrag.Errorf(docrag.ECONFIG, "Firecrawl API key required")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	app, err := fc.NewFirecrawlApp(apiKey, c.baseURL)
	if err != nil {
		return nil, docrag.Errorf(docrag.ECONFIG, "firecrawl: %v", err)
	}
	app.Client = c.httpClient
	c.app = app
	return c, nil
}

// StartCrawl submits a crawl job requesting HTML output.
func (c *Client) StartCrawl(ctx context.Context, req docrag.CrawlRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	limit, depth := req.Limit, req.MaxDepth
	params := &fc.CrawlParams{
		Limit:         &limit,
		MaxDepth:      &depth,
		ScrapeOptions: fc.ScrapeParams{Formats: []string{"html"}},
	}
	resp, err := c.app.AsyncCrawlURL(req.URL, params, nil)
	if err != nil {
		return "", apiError(err)
	}
	if !resp.Success || resp.ID == "" {
		return "", docrag.Errorf(docrag.EINTERNAL, "firecrawl did not start crawl")
	}
	return resp.ID, nil
}

// CrawlStatus returns the job state. For completed jobs, every page is
// collected by following the next links.
func (c *Client) CrawlStatus(ctx context.Context, id string) (*docrag.CrawlJob, error) {
	if id == "" {
		return nil, docrag.Errorf(docrag.EINVALID, "crawl ID required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := c.app.CheckCrawlStatus(url.PathEscape(id))
	if err != nil {
		return nil, apiError(err)
	}

	job := &docrag.CrawlJob{
		ID:        id,
		Status:    mapStatus(resp.Status),
		Total:     resp.Total,
		Completed: resp.Completed,
	}
	if job.Status != docrag.JobCompleted {
		return job, nil
	}

	job.Pages = appendPages(job.Pages, resp.Data)
	seen := make(map[string]bool)
	for next := resp.Next; next != nil && *next != "" && !seen[*next]; {
		seen[*next] = true
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := c.app.CheckCrawlStatus(nextPage(*next, id))
		if err != nil {
			return nil, apiError(err)
		}
		job.Pages = appendPages(job.Pages, page.Data)
		next = page.Next
	}
	return job, nil
}

// nextPage turns a next link into the id argument of CheckCrawlStatus,
// which appends it to the crawl path. The link's query carries the offset.
func nextPage(next, id string) string {
	u, err := url.Parse(next)
	if err != nil || u.RawQuery == "" {
		return url.PathEscape(id)
	}
	return url.PathEscape(id) + "?" + u.RawQuery
}

func mapStatus(s string) docrag.JobStatus {
	switch s {
	case "completed":
		return docrag.JobCompleted
	case "failed":
		return docrag.JobFailed
	case "cancelled":
		return docrag.JobCancelled
	default:
		return docrag.JobScraping
	}
}

func appendPages(pages []*docrag.CrawledPage, data []*fc.FirecrawlDocument) []*docrag.CrawledPage {
	for _, d := range data {
		if d == nil {
			continue
		}
		pages = append(pages, &docrag.CrawledPage{
			HTML:     d.HTML,
			Metadata: flattenMetadata(metadataMap(d.Metadata)),
		})
	}
	return pages
}

// metadataMap returns the metadata in its wire form, keyed by JSON name.
func metadataMap(md *fc.FirecrawlDocumentMetadata) map[string]any {
	if md == nil {
		return nil
	}
	b, err := json.Marshal(md)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

// flattenMetadata keeps scalar metadata values as strings.
func flattenMetadata(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch v := v.(type) {
		case string:
			out[k] = v
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(v)
		}
	}
	return out
}

// apiError maps SDK errors, which carry the HTTP status in their text,
// onto docrag error codes.
func apiError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Status code 401"), strings.Contains(msg, "Status code 403"):
		return docrag.Errorf(docrag.ECONFIG, "firecrawl: authentication failed")
	case strings.Contains(msg, "Status code 404"):
		return docrag.Errorf(docrag.ENOTFOUND, "firecrawl: job not found")
	case strings.Contains(msg, "Status code 400"):
		return docrag.Errorf(docrag.EINVALID, "firecrawl: %s", msg)
	case strings.Contains(msg, "Request Timeout"):
		return docrag.Errorf(docrag.ETIMEOUT, "firecrawl: %s", msg)
	}
	return err
}
