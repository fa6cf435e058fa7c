package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/docrag"
)

// Poller defaults.
const (
	DefaultPollInterval = 30 * time.Second
	DefaultPollTimeout  = time.Hour
)

// PollState is the terminal state of a wait.
type PollState int

const (
	PollCompleted PollState = iota
	PollTimedOut
)

func (s PollState) String() string {
	switch s {
	case PollCompleted:
		return "completed"
	case PollTimedOut:
		return "timeout"
	}
	return "unknown"
}

// PollResult is the outcome of Poller.Wait.
type PollResult struct {
	State PollState

	// Job is the last snapshot returned by the provider.
	Job *docrag.CrawlJob

	// Polls counts status requests made.
	Polls int
}

// Poller waits for a crawl job to reach a terminal status.
type Poller struct {
	Provider docrag.CrawlProvider
	Clock    Clock
	Interval time.Duration
	Timeout  time.Duration
}

// NewPoller returns a Poller with the default interval and timeout.
func NewPoller(provider docrag.CrawlProvider) *Poller {
	return &Poller{
		Provider: provider,
		Clock:    SystemClock{},
		Interval: DefaultPollInterval,
		Timeout:  DefaultPollTimeout,
	}
}

// Wait polls the job until it completes or the timeout elapses. A timeout
// is reported through PollResult, not as an error. Jobs that fail or are
// cancelled by the provider return an error.
func (p *Poller) Wait(ctx context.Context, id string) (*PollResult, error) {
	clock := p.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	deadline := clock.Now().Add(timeout)
	res := &PollResult{}
	for {
		job, err := p.Provider.CrawlStatus(ctx, id)
		res.Polls++
		if err != nil {
			return nil, err
		}
		res.Job = job

		switch job.Status {
		case docrag.JobCompleted:
			res.State = PollCompleted
			return res, nil
		case docrag.JobFailed, docrag.JobCancelled:
			return nil, docrag.Errorf(docrag.EINTERNAL, "crawl job %s %s", id, job.Status)
		}

		if !clock.Now().Before(deadline) {
			res.State = PollTimedOut
			return res, nil
		}
		if err := clock.Sleep(ctx, interval); err != nil {
			return nil, err
		}
	}
}
