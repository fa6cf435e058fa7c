package docrag

// LinkPriority orders links discovered at the same depth (higher first).
type LinkPriority int

// Link priority levels.
const (
	PriorityIgnore     LinkPriority = 0
	PriorityFallback   LinkPriority = 10
	PriorityFooter     LinkPriority = 20
	PriorityContent    LinkPriority = 50
	PriorityNavigation LinkPriority = 100
	PriorityTOC        LinkPriority = 110
)

// DiscoveredLink is a URL found while crawling.
type DiscoveredLink struct {
	URL      string
	Priority LinkPriority

	// Depth is the number of links followed from the start URL.
	Depth int

	Text   string
	Source string // "nav", "toc", "content", "footer", "sitemap"
}

// LinkSelector extracts prioritized same-host links from HTML.
type LinkSelector interface {
	// ExtractLinks returns links resolved against baseURL.
	ExtractLinks(html string, baseURL string) ([]DiscoveredLink, error)

	// Name returns the selector's identifier.
	Name() string
}
