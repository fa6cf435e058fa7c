// Package rod fetches JavaScript-rendered pages with a headless Chrome
// browser for the local crawler.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docrag"
)

// DefaultFetchTimeout bounds navigation and rendering of one page.
const DefaultFetchTimeout = 10 * time.Second

var _ docrag.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML. It is safe for concurrent use; each
// fetch renders in its own tab.
type Fetcher struct {
	browser *browser
	timeout time.Duration
	closed  atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher, *int)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher, _ *int) { f.timeout = d }
}

// WithRecycleAfter sets how many pages the browser renders before it is
// relaunched. Zero disables recycling.
func WithRecycleAfter(pages int) Option {
	return func(_ *Fetcher, limit *int) { *limit = pages }
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	limit := DefaultRecycleAfter
	for _, opt := range opts {
		opt(f, &limit)
	}

	b, err := launch(limit)
	if err != nil {
		return nil, err
	}
	f.browser = b
	return f, nil
}

// Fetch navigates to url, waits for the load event and returns the DOM as HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", docrag.Errorf(docrag.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.newPage()
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// PID returns the browser process ID, or 0 once closed.
func (f *Fetcher) PID() int {
	return f.browser.pid()
}

// Close stops the browser. Further calls are no-ops.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.browser.close()
}
