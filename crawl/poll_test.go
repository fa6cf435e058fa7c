package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/crawl"
	"github.com/fwojciec/docrag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusSequence returns a provider reporting the given statuses in order,
// repeating the last one.
func statusSequence(statuses ...docrag.JobStatus) (*mock.CrawlProvider, *int) {
	calls := 0
	return &mock.CrawlProvider{
		CrawlStatusFn: func(_ context.Context, id string) (*docrag.CrawlJob, error) {
			s := statuses[min(calls, len(statuses)-1)]
			calls++
			return &docrag.CrawlJob{ID: id, Status: s}, nil
		},
	}, &calls
}

func TestPoller_Wait(t *testing.T) {
	t.Parallel()

	t.Run("completes after second poll", func(t *testing.T) {
		t.Parallel()

		provider, calls := statusSequence(docrag.JobScraping, docrag.JobCompleted)
		clock := newFakeClock()
		p := &crawl.Poller{Provider: provider, Clock: clock, Interval: 30 * time.Second, Timeout: time.Hour}

		res, err := p.Wait(context.Background(), "job-1")

		require.NoError(t, err)
		assert.Equal(t, crawl.PollCompleted, res.State)
		assert.Equal(t, 2, res.Polls)
		assert.Equal(t, 2, *calls)
		assert.Equal(t, docrag.JobCompleted, res.Job.Status)
		assert.Equal(t, []time.Duration{30 * time.Second}, clock.sleeps)
	})

	t.Run("times out without error", func(t *testing.T) {
		t.Parallel()

		provider, _ := statusSequence(docrag.JobScraping)
		p := &crawl.Poller{Provider: provider, Clock: newFakeClock(), Interval: 30 * time.Second, Timeout: 90 * time.Second}

		res, err := p.Wait(context.Background(), "job-1")

		require.NoError(t, err)
		assert.Equal(t, crawl.PollTimedOut, res.State)
		assert.Equal(t, 4, res.Polls)
		assert.Equal(t, "timeout", res.State.String())
	})

	t.Run("failed job is an error", func(t *testing.T) {
		t.Parallel()

		provider, _ := statusSequence(docrag.JobScraping, docrag.JobFailed)
		p := &crawl.Poller{Provider: provider, Clock: newFakeClock(), Interval: time.Second, Timeout: time.Minute}

		_, err := p.Wait(context.Background(), "job-1")

		require.Error(t, err)
		assert.Contains(t, docrag.ErrorMessage(err), "failed")
	})

	t.Run("cancelled job is an error", func(t *testing.T) {
		t.Parallel()

		provider, _ := statusSequence(docrag.JobCancelled)
		p := &crawl.Poller{Provider: provider, Clock: newFakeClock(), Interval: time.Second, Timeout: time.Minute}

		_, err := p.Wait(context.Background(), "job-1")

		assert.Error(t, err)
	})

	t.Run("propagates provider error", func(t *testing.T) {
		t.Parallel()

		want := errors.New("boom")
		p := &crawl.Poller{
			Provider: &mock.CrawlProvider{
				CrawlStatusFn: func(context.Context, string) (*docrag.CrawlJob, error) { return nil, want },
			},
			Clock: newFakeClock(),
		}

		_, err := p.Wait(context.Background(), "job-1")

		assert.ErrorIs(t, err, want)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		provider, _ := statusSequence(docrag.JobScraping)
		p := &crawl.Poller{Provider: provider, Clock: newFakeClock(), Interval: time.Second, Timeout: time.Minute}

		_, err := p.Wait(ctx, "job-1")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewPoller(t *testing.T) {
	t.Parallel()

	p := crawl.NewPoller(&mock.CrawlProvider{})

	assert.Equal(t, crawl.DefaultPollInterval, p.Interval)
	assert.Equal(t, crawl.DefaultPollTimeout, p.Timeout)
	assert.Equal(t, crawl.SystemClock{}, p.Clock)
}
