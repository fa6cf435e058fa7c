package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	link := docrag.DiscoveredLink{
		URL:      "https://example.com/docs/page1",
		Priority: docrag.PriorityNavigation,
	}

	// First push should succeed
	ok := f.Push(link)
	assert.True(t, ok, "first push should succeed")

	// Second push of same URL should be rejected
	ok = f.Push(link)
	assert.False(t, ok, "duplicate URL should be rejected")
}

func TestFrontier_Pop_returns_highest_priority_first(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	// Push links in random priority order
	f.Push(docrag.DiscoveredLink{URL: "https://example.com/footer", Priority: docrag.PriorityFooter})
	f.Push(docrag.DiscoveredLink{URL: "https://example.com/nav", Priority: docrag.PriorityNavigation})
	f.Push(docrag.DiscoveredLink{URL: "https://example.com/content", Priority: docrag.PriorityContent})
	f.Push(docrag.DiscoveredLink{URL: "https://example.com/toc", Priority: docrag.PriorityTOC})

	// Pop should return in priority order (highest first)
	link, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, docrag.PriorityTOC, link.Priority)
	assert.Equal(t, "https://example.com/toc", link.URL)

	link, ok = f.Pop()
	assert.True(t, ok)
	assert.Equal(t, docrag.PriorityNavigation, link.Priority)

	link, ok = f.Pop()
	assert.True(t, ok)
	assert.Equal(t, docrag.PriorityContent, link.Priority)

	link, ok = f.Pop()
	assert.True(t, ok)
	assert.Equal(t, docrag.PriorityFooter, link.Priority)

	// Queue should now be empty
	_, ok = f.Pop()
	assert.False(t, ok, "pop on empty frontier should return false")
}

func TestFrontier_Pop_prefers_shallow_links(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	f.Push(docrag.DiscoveredLink{URL: "https://example.com/deep-toc", Priority: docrag.PriorityTOC, Depth: 2})
	f.Push(docrag.DiscoveredLink{URL: "https://example.com/shallow-footer", Priority: docrag.PriorityFooter, Depth: 1})

	link, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/shallow-footer", link.URL)
}

func TestFrontier_Pop_keeps_push_order_for_ties(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	for i := range 5 {
		f.Push(docrag.DiscoveredLink{URL: fmt.Sprintf("https://example.com/%d", i), Priority: docrag.PriorityContent})
	}

	for i := range 5 {
		link, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprintf("https://example.com/%d", i), link.URL)
	}
}

func TestFrontier_Push_strips_fragments(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.True(t, f.Push(docrag.DiscoveredLink{URL: "https://example.com/docs/a#intro"}))
	assert.False(t, f.Push(docrag.DiscoveredLink{URL: "https://example.com/docs/a#usage"}))

	link, _ := f.Pop()
	assert.Equal(t, "https://example.com/docs/a", link.URL)
}

func TestFrontier_Len_tracks_queue_size(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.Equal(t, 0, f.Len(), "new frontier should be empty")

	f.Push(docrag.DiscoveredLink{URL: "https://example.com/a", Priority: docrag.PriorityContent})
	assert.Equal(t, 1, f.Len())

	f.Push(docrag.DiscoveredLink{URL: "https://example.com/b", Priority: docrag.PriorityContent})
	assert.Equal(t, 2, f.Len())

	f.Pop()
	assert.Equal(t, 1, f.Len())

	f.Pop()
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_Seen_tracks_all_pushed_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.False(t, f.Seen("https://example.com/page"), "unseen URL should return false")

	f.Push(docrag.DiscoveredLink{URL: "https://example.com/page", Priority: docrag.PriorityContent})

	assert.True(t, f.Seen("https://example.com/page"), "pushed URL should be seen")

	// Pop the URL - it should still be seen
	f.Pop()
	assert.True(t, f.Seen("https://example.com/page"), "popped URL should still be seen")
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(10000, 0.01)

	const numGoroutines = 10
	const numOpsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2) // pushers + poppers

	// Start pushers
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				url := fmt.Sprintf("https://example.com/%d/%d", id, j)
				f.Push(docrag.DiscoveredLink{
					URL:      url,
					Priority: docrag.PriorityContent,
				})
			}
		}(i)
	}

	// Start poppers
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Pop()
				f.Len()
			}
		}()
	}

	wg.Wait()

	// Verify no panic occurred and state is consistent
	// All pushed URLs should be seen
	for i := 0; i < numGoroutines; i++ {
		for j := 0; j < numOpsPerGoroutine; j++ {
			url := fmt.Sprintf("https://example.com/%d/%d", i, j)
			assert.True(t, f.Seen(url), "pushed URL %s should be seen", url)
		}
	}
}
