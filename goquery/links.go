package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docrag"
)

var _ docrag.LinkSelector = (*LinkSelector)(nil)

// Link areas in priority order. Within a page, a URL keeps the priority of
// the highest area it appears in.
var linkAreas = []struct {
	selector string
	priority docrag.LinkPriority
	source   string
}{
	{".toc a[href], .table-of-contents a[href], .sidebar a[href], aside a[href]", docrag.PriorityTOC, "toc"},
	{`nav a[href], [role="navigation"] a[href], .nav a[href], .menu a[href], .navbar a[href]`, docrag.PriorityNavigation, "nav"},
	{"main a[href], article a[href], .content a[href], .doc-content a[href]", docrag.PriorityContent, "content"},
	{"footer a[href], .footer a[href]", docrag.PriorityFooter, "footer"},
}

// LinkSelector extracts same-host links from documentation pages, ranked by
// the page area they appear in. Links outside any known area are kept with
// fallback priority when they stay under the base URL path.
type LinkSelector struct {
	// DisableFallback drops links found outside the known areas.
	DisableFallback bool
}

// NewLinkSelector returns a LinkSelector with fallback discovery enabled.
func NewLinkSelector() *LinkSelector {
	return &LinkSelector{}
}

// Name returns the selector's identifier.
func (s *LinkSelector) Name() string {
	return "goquery"
}

// ExtractLinks parses html and returns links resolved against baseURL,
// deduplicated by URL with fragments removed.
func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]docrag.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docrag.Errorf(docrag.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docrag.Errorf(docrag.EINVALID, "failed to parse HTML: %v", err)
	}

	c := &linkCollector{base: base, seen: make(map[string]int)}
	for _, area := range linkAreas {
		doc.Find(area.selector).Each(func(_ int, sel *goquery.Selection) {
			c.add(sel, area.priority, area.source, false)
		})
	}
	if !s.DisableFallback {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			c.add(sel, docrag.PriorityFallback, "fallback", true)
		})
	}
	return c.links, nil
}

type linkCollector struct {
	base  *url.URL
	seen  map[string]int
	links []docrag.DiscoveredLink
}

func (c *linkCollector) add(sel *goquery.Selection, priority docrag.LinkPriority, source string, underBase bool) {
	href, ok := sel.Attr("href")
	if !ok || href == "" || isNonHTTPLink(href) {
		return
	}

	resolved := resolveURL(c.base, href)
	if resolved == "" {
		return
	}
	u, err := url.Parse(resolved)
	if err != nil || u.Host != c.base.Host {
		return
	}
	if underBase && !strings.HasPrefix(u.Path, basePath(c.base)) {
		return
	}

	link := docrag.DiscoveredLink{
		URL:      resolved,
		Priority: priority,
		Text:     strings.Join(strings.Fields(sel.Text()), " "),
		Source:   source,
	}
	if idx, ok := c.seen[resolved]; ok {
		if priority > c.links[idx].Priority {
			c.links[idx] = link
		}
		return
	}
	c.seen[resolved] = len(c.links)
	c.links = append(c.links, link)
}

// basePath returns the directory of the base URL path, so links to sibling
// pages of /docs/intro are considered under /docs/.
func basePath(base *url.URL) string {
	p := base.Path
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i+1]
	}
	return "/"
}

// resolveURL resolves href against base and strips the fragment. Returns an
// empty string for unparseable or self-referential links.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	self := *base
	self.Fragment = ""
	if resolved.String() == self.String() {
		return ""
	}
	return resolved.String()
}

func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}
