package docrag

import "context"

// Fetcher retrieves the HTML of a page for the local crawler.
type Fetcher interface {
	// Fetch returns the page HTML. Browser-backed implementations wait
	// for JavaScript to render first.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
