package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/bloom"
)

var _ docrag.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory crawl queue with Bloom filter deduplication.
// Links pop breadth first: lowest depth, then highest priority, then the
// order they were pushed in. It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue linkHeap
	seq   int
}

// NewFrontier creates a Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{seen: bloom.NewFilter(n, fpRate)}
}

// Push queues a link. Returns false if the URL has already been seen.
// URLs differing only by fragment are duplicates.
func (f *Frontier) Push(link docrag.DiscoveredLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i := strings.IndexByte(link.URL, '#'); i >= 0 {
		link.URL = link.URL[:i]
	}
	if f.seen.TestAndAdd(link.URL) {
		return false
	}

	heap.Push(&f.queue, queuedLink{link: link, seq: f.seq})
	f.seq++
	return true
}

// Pop returns the next link. The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (docrag.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return docrag.DiscoveredLink{}, false
	}
	q, _ := heap.Pop(&f.queue).(queuedLink)
	return q.link, true
}

// Len returns the number of queued links.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen reports whether the URL was ever pushed.
func (f *Frontier) Seen(rawURL string) bool {
	return f.seen.Test(rawURL)
}

type queuedLink struct {
	link docrag.DiscoveredLink
	seq  int
}

type linkHeap []queuedLink

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.link.Depth != b.link.Depth {
		return a.link.Depth < b.link.Depth
	}
	if a.link.Priority != b.link.Priority {
		return a.link.Priority > b.link.Priority
	}
	return a.seq < b.seq
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	q, _ := x.(queuedLink)
	*h = append(*h, q)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
