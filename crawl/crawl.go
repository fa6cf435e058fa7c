// Package crawl runs documentation crawls. It waits for crawl jobs, writes
// the crawled pages to an object store, and provides a local crawl
// provider that follows links itself.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docrag"
)

// Crawl result statuses beyond the provider's job statuses.
const (
	StatusCompleted = "completed"
	StatusTimeout   = "timeout"
)

// Result is the outcome of a crawl and upload.
type Result struct {
	ID     string
	Status string

	// URI is the object prefix holding the job's files.
	URI string

	FileCount     int
	UploadedFiles int
	FailedFiles   int
	TotalBytes    int
	URLs          []string

	// Failures maps file names that could not be written or uploaded to
	// their error.
	Failures map[string]error

	// Error describes why a crawl did not complete, e.g. a timeout.
	Error string
}

// Crawler starts a crawl job, waits for it, and stores every page as an
// HTML file under a per-job prefix.
type Crawler struct {
	Provider docrag.CrawlProvider
	Objects  docrag.ObjectStore
	Poller   *Poller
	Logger   *slog.Logger
}

// Crawl runs the job described by req and uploads its pages below dest.
// A timed out job returns a Result with StatusTimeout and a nil error.
// Individual write or upload failures are counted and do not stop the run.
func (c *Crawler) Crawl(ctx context.Context, req docrag.CrawlRequest, dest docrag.ObjectURI) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id, err := c.Provider.StartCrawl(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("start crawl: %w", err)
	}

	poller := c.Poller
	if poller == nil {
		poller = NewPoller(c.Provider)
	}
	polled, err := poller.Wait(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("wait for crawl %s: %w", id, err)
	}
	if polled.State == PollTimedOut {
		return &Result{ID: id, Status: StatusTimeout, Error: "Job timed out."}, nil
	}

	jobURI := dest.Join(id + "/")
	res := &Result{
		ID:       id,
		Status:   StatusCompleted,
		URI:      jobURI.String(),
		Failures: make(map[string]error),
	}

	dir, err := os.MkdirTemp("", "docrag-crawl-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	used := make(map[string]bool)
	for i, page := range polled.Job.Pages {
		if page.HTML == "" {
			continue
		}

		name := fmt.Sprintf("page-%d.html", i)
		if u := page.URL(); u != "" {
			name = docrag.URLToFilename(u)
			res.URLs = append(res.URLs, u)
		}
		name = uniqueName(used, name, i)
		res.FileCount++

		local := filepath.Join(dir, name)
		if err := os.WriteFile(local, []byte(page.HTML), 0o644); err != nil {
			c.fail(res, name, err)
			continue
		}
		if err := c.Objects.Upload(ctx, local, jobURI.Prefix+name); err != nil {
			c.fail(res, name, err)
			continue
		}
		res.UploadedFiles++
		res.TotalBytes += len(page.HTML)
	}

	return res, nil
}

// uniqueName suffixes name with the page index when an earlier page of the
// job already took it.
func uniqueName(used map[string]bool, name string, i int) string {
	if used[name] {
		base := strings.TrimSuffix(name, ".html")
		name = fmt.Sprintf("%s-%d.html", base, i)
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s-%d-%d.html", base, i, n)
		}
	}
	used[name] = true
	return name
}

func (c *Crawler) fail(res *Result, name string, err error) {
	res.FailedFiles++
	res.Failures[name] = err
	if c.Logger != nil {
		c.Logger.Warn("upload failed", "file", name, "err", err)
	}
}
