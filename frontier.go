package docrag

import "context"

// URLFrontier is the crawl queue of the local crawler. URLs are deduplicated.
type URLFrontier interface {
	// Push queues a link. Returns false if the URL was seen before.
	Push(link DiscoveredLink) bool

	// Pop returns the next link: shallowest depth first, then highest priority.
	// Returns false if the frontier is empty.
	Pop() (DiscoveredLink, bool)

	// Len returns the number of queued links.
	Len() int

	// Seen reports whether the URL was ever queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until a request to the domain is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
