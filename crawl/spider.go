package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var _ docrag.CrawlProvider = (*Spider)(nil)

// DefaultSpiderConcurrency is the number of pages fetched at once per job.
const DefaultSpiderConcurrency = 5

// Spider is a CrawlProvider that crawls sites itself. Each job runs in the
// background, following links breadth first from the start URL. Jobs stay
// on the start URL's host and below its path.
type Spider struct {
	Fetcher docrag.Fetcher
	Links   docrag.LinkSelector

	// Sitemaps, when set, seeds the frontier with sitemap URLs.
	Sitemaps docrag.SitemapService

	// Limiter, when set, spaces requests per host.
	Limiter docrag.DomainLimiter

	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger

	mu   sync.Mutex
	jobs map[string]*spiderJob
	wg   sync.WaitGroup
}

type spiderJob struct {
	job    docrag.CrawlJob
	cancel context.CancelFunc
}

// StartCrawl validates req and starts a background job. The job is not
// tied to ctx; use Cancel or Close to stop it.
func (s *Spider) StartCrawl(ctx context.Context, req docrag.CrawlRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	start, _ := url.Parse(req.URL)

	id := uuid.NewString()
	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s.mu.Lock()
	if s.jobs == nil {
		s.jobs = make(map[string]*spiderJob)
	}
	s.jobs[id] = &spiderJob{
		job:    docrag.CrawlJob{ID: id, Status: docrag.JobScraping, Total: 1},
		cancel: cancel,
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.run(jobCtx, id, start, req)
	}()
	return id, nil
}

// CrawlStatus returns a snapshot of the job. Pages are included once the
// job has completed.
func (s *Spider) CrawlStatus(ctx context.Context, id string) (*docrag.CrawlJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, docrag.Errorf(docrag.ENOTFOUND, "crawl job %q not found", id)
	}
	snapshot := j.job
	if snapshot.Status != docrag.JobCompleted {
		snapshot.Pages = nil
	}
	return &snapshot, nil
}

// Cancel stops a running job. Returns ENOTFOUND for unknown jobs.
func (s *Spider) Cancel(id string) error {
	s.mu.Lock()
	j, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		return docrag.Errorf(docrag.ENOTFOUND, "crawl job %q not found", id)
	}
	j.cancel()
	return nil
}

// Close cancels all running jobs and waits for them to stop.
func (s *Spider) Close() error {
	s.mu.Lock()
	for _, j := range s.jobs {
		j.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
	return nil
}

func (s *Spider) run(ctx context.Context, id string, start *url.URL, req docrag.CrawlRequest) {
	frontier := NewFrontier(uint(max(req.Limit*20, 1000)), 0.01)
	frontier.Push(docrag.DiscoveredLink{URL: req.URL, Priority: docrag.PriorityNavigation, Source: "start"})
	prefix := start.Path

	if s.Sitemaps != nil && req.MaxDepth > 0 {
		urls, err := s.Sitemaps.DiscoverURLs(ctx, req.URL, nil)
		if err != nil {
			s.log().Warn("sitemap discovery failed", "url", req.URL, "err", err)
		}
		for _, u := range urls {
			if inScope(u, start.Host, prefix) {
				frontier.Push(docrag.DiscoveredLink{URL: u, Priority: docrag.PriorityContent, Depth: 1, Source: "sitemap"})
			}
		}
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultSpiderConcurrency
	}

	var pages []*docrag.CrawledPage
	for len(pages) < req.Limit {
		batch := popBatch(frontier, min(concurrency, req.Limit-len(pages)))
		if len(batch) == 0 {
			break
		}

		htmls := make([]string, len(batch))
		errs := make([]error, len(batch))
		var g errgroup.Group
		g.SetLimit(concurrency)
		for i, link := range batch {
			g.Go(func() error {
				htmls[i], errs[i] = s.fetch(ctx, link)
				return nil
			})
		}
		_ = g.Wait()

		if ctx.Err() != nil {
			s.finish(id, docrag.JobCancelled, nil)
			return
		}

		for i, link := range batch {
			if errs[i] != nil {
				s.log().Warn("fetch failed", "url", link.URL, "err", errs[i])
				continue
			}
			pages = append(pages, &docrag.CrawledPage{
				HTML: htmls[i],
				Metadata: map[string]string{
					"url":       link.URL,
					"sourceURL": link.URL,
					"depth":     strconv.Itoa(link.Depth),
				},
			})
			if link.Depth < req.MaxDepth {
				s.follow(frontier, htmls[i], link, start.Host, prefix)
			}
		}
		s.progress(id, len(pages), min(len(pages)+frontier.Len(), req.Limit))
	}

	s.finish(id, docrag.JobCompleted, pages)
}

func (s *Spider) fetch(ctx context.Context, link docrag.DiscoveredLink) (string, error) {
	if s.Limiter != nil {
		u, err := url.Parse(link.URL)
		if err != nil {
			return "", err
		}
		if err := s.Limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, link.URL, s.Fetcher.Fetch, s.Logger, delays)
}

// follow pushes in-scope links found on a fetched page one level deeper.
func (s *Spider) follow(frontier *Frontier, html string, from docrag.DiscoveredLink, host, prefix string) {
	links, err := s.Links.ExtractLinks(html, from.URL)
	if err != nil {
		s.log().Debug("link extraction failed", "url", from.URL, "err", err)
		return
	}
	for _, l := range links {
		if !inScope(l.URL, host, prefix) {
			continue
		}
		l.Depth = from.Depth + 1
		frontier.Push(l)
	}
}

func (s *Spider) progress(id string, completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := s.jobs[id]
	j.job.Completed = completed
	j.job.Total = total
}

func (s *Spider) finish(id string, status docrag.JobStatus, pages []*docrag.CrawledPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := s.jobs[id]
	j.job.Status = status
	j.job.Pages = pages
	j.job.Completed = len(pages)
	if status == docrag.JobCompleted {
		j.job.Total = len(pages)
	}
}

func (s *Spider) log() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func popBatch(f *Frontier, n int) []docrag.DiscoveredLink {
	var batch []docrag.DiscoveredLink
	for range n {
		link, ok := f.Pop()
		if !ok {
			break
		}
		batch = append(batch, link)
	}
	return batch
}

func inScope(rawURL, host, prefix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == host && strings.HasPrefix(u.Path, prefix)
}
